package ports

import "github.com/bft-labs/sigtalk/pkg/langdetect"

// Classifier detects the language of a text. It never fails.
type Classifier interface {
	Classify(text string) langdetect.Language
}

// ScoreReporter is implemented by classifiers that can show how each
// language scored.
type ScoreReporter interface {
	Scores(text string) []langdetect.Score
}
