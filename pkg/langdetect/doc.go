// Package langdetect guesses the language of a short text.
//
// Each candidate language is described by a [Profile]: the expected
// percentage of each letter A-Z and a list of short words that are common in
// that language. A text is scored against every profile by combining
//
//   - the negated sum of squared deviations between its observed letter
//     percentages and the profile's, and
//   - a bonus of [KeywordBonus] for every profile keyword found anywhere in
//     the text (case-insensitive substring match).
//
// The highest score wins. Ties go to the profile listed first, and a text
// without any letter is classified as the first profile (French).
//
// # Usage
//
//	var c langdetect.Classifier
//	lang := c.Classify("le chat est sur la table") // langdetect.French
package langdetect
