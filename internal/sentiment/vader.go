package sentiment

import (
	"regexp"

	"github.com/jonreiter/govader"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

// RemoveLinks drops raw URLs before scoring; they carry no sentiment and
// skew the lexicon hit rate.
func RemoveLinks(input string) string {
	return urlPattern.ReplaceAllString(input, "")
}

// Analyze scores a post body and returns (polarity, subjectivity).
// Polarity is the VADER compound score in [-1, 1]. Subjectivity is the
// non-neutral proportion of the text in [0, 1]; it is stored but unused
// downstream.
func Analyze(text string) (float64, float64) {
	plainText := RemoveLinks(text)

	scores := analyzer.PolarityScores(plainText)

	subjectivity := scores.Positive + scores.Negative
	if subjectivity > 1 {
		subjectivity = 1
	} else if subjectivity < 0 {
		subjectivity = 0
	}

	return scores.Compound, subjectivity
}
