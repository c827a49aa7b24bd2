package langdetect

// Language is the label of a language profile.
type Language string

const (
	French  Language = "French"
	English Language = "English"
	German  Language = "German"
	Spanish Language = "Spanish"
)

// Letters is the number of entries in a frequency vector (A through Z).
const Letters = 26

// Profile describes the letter distribution and characteristic words of a language.
type Profile struct {
	Language Language

	// Frequencies holds the expected percentage of each letter, A first.
	Frequencies [Letters]float64

	// Keywords are lower-case words looked up as substrings.
	Keywords []string
}

// profiles is ordered: on equal scores the earlier entry wins.
var profiles = []Profile{
	{
		Language: French,
		Frequencies: [Letters]float64{
			7.64, 0.90, 3.26, 3.67, 14.72, 1.06, 0.87, 0.74, 7.53, 0.61, 0.05, 5.45, 2.96,
			7.09, 5.28, 3.02, 1.29, 6.69, 7.95, 7.24, 6.31, 1.83, 0.04, 0.42, 0.19, 0.21,
		},
		Keywords: []string{"le", "la", "les", "un", "une", "des", "est", "et", "en", "dans"},
	},
	{
		Language: English,
		Frequencies: [Letters]float64{
			8.17, 1.49, 2.78, 4.25, 12.70, 2.23, 2.02, 6.09, 6.97, 0.15, 0.77, 4.03, 2.41,
			6.75, 7.51, 1.93, 0.10, 5.99, 6.33, 9.06, 2.76, 0.98, 2.36, 0.15, 1.97, 0.07,
		},
		Keywords: []string{"the", "is", "are", "and", "to", "of", "in", "for", "with", "on"},
	},
	{
		Language: German,
		Frequencies: [Letters]float64{
			6.51, 1.89, 2.73, 5.08, 16.40, 1.66, 3.01, 4.57, 7.55, 0.27, 1.42, 3.44, 2.53,
			9.78, 2.51, 0.79, 0.02, 7.00, 7.27, 6.15, 4.35, 0.67, 1.89, 0.03, 0.04, 1.13,
		},
		Keywords: []string{"der", "die", "das", "und", "ist", "in", "den", "von", "zu", "für"},
	},
	{
		Language: Spanish,
		Frequencies: [Letters]float64{
			12.53, 1.42, 4.68, 5.86, 13.68, 0.69, 1.01, 0.70, 6.25, 0.44, 0.01, 4.97, 3.15,
			6.71, 8.68, 2.51, 0.88, 6.87, 7.98, 4.63, 3.93, 0.90, 0.01, 0.22, 0.90, 0.52,
		},
		Keywords: []string{"el", "la", "los", "las", "un", "una", "es", "en", "de", "por"},
	},
}

// Profiles returns a copy of the built-in profiles in scan order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = p
		out[i].Keywords = append([]string(nil), p.Keywords...)
	}
	return out
}
