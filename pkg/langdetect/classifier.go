package langdetect

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

// KeywordBonus is added to a profile's score for each keyword found in the text.
const KeywordBonus = 50.0

// Score is the breakdown of a text's fit against one profile.
type Score struct {
	Language Language

	// Frequency is the negated sum of squared letter-percentage deviations.
	Frequency float64

	// Keywords is the number of profile keywords found in the text.
	Keywords int

	// Total is Frequency plus Keywords * KeywordBonus.
	Total float64
}

// Classifier scores texts against the built-in profiles.
// The zero value is ready to use and safe for concurrent use.
type Classifier struct{}

// Classify returns the language whose profile best fits text.
func (Classifier) Classify(text string) Language {
	return Classify(text)
}

// Scores returns the per-profile breakdown behind Classify.
func (Classifier) Scores(text string) []Score {
	return Scores(text)
}

// Classify returns the language whose profile best fits text using the
// built-in profiles.
func Classify(text string) Language {
	scores := Scores(text)
	if scores == nil {
		return profiles[0].Language
	}

	best := 0
	for i := range scores {
		if scores[i].Total > scores[best].Total {
			best = i
		}
	}
	return scores[best].Language
}

// Scores returns the per-profile scores of text in profile order, or nil when
// text contains no letter.
func Scores(text string) []Score {
	observed, ok := letterFrequencies(text)
	if !ok {
		return nil
	}

	lower := strings.ToLower(text)
	diff := make([]float64, Letters)
	scores := make([]Score, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		floats.SubTo(diff, observed, p.Frequencies[:])
		freq := -floats.Dot(diff, diff)
		kw := keywordMatches(lower, p.Keywords)
		scores[i] = Score{
			Language:  p.Language,
			Frequency: freq,
			Keywords:  kw,
			Total:     freq + float64(kw)*KeywordBonus,
		}
	}
	return scores
}

// letterFrequencies returns the percentage of each ASCII letter in text,
// ignoring case and every other character.
func letterFrequencies(text string) ([]float64, bool) {
	var counts [Letters]int
	total := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
			counts[c-'a']++
		case c >= 'A' && c <= 'Z':
			counts[c-'A']++
		default:
			continue
		}
		total++
	}
	if total == 0 {
		return nil, false
	}

	freq := make([]float64, Letters)
	for i, n := range counts {
		freq[i] = float64(n) / float64(total) * 100
	}
	return freq, true
}

func keywordMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
