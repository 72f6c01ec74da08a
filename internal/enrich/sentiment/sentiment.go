// Package sentiment scores text with VADER and maps the compound score to
// a three-way category.
package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/ranadkar/polaryx/internal/content"
)

// Compound-score thresholds for the category split.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Analyzer is a lexical sentiment scorer. Scoring is cheap and synchronous;
// callers run it inline, one item at a time.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// New creates an Analyzer with the standard VADER lexicon.
func New() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze scores title and contents together and returns the category and
// the compound score in [-1, 1].
func (a *Analyzer) Analyze(title, contents string) (string, float64) {
	scores := a.vader.PolarityScores(title + " " + contents)
	return Categorize(scores.Compound), scores.Compound
}

// Categorize maps a compound score to a category: >= 0.05 positive,
// <= -0.05 negative, neutral between.
func Categorize(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return content.SentimentPositive
	case compound <= negativeThreshold:
		return content.SentimentNegative
	default:
		return content.SentimentNeutral
	}
}
