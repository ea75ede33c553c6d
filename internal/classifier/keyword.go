package classifier

import (
	"context"
	"strings"

	"github.com/sortwise/sortwise/internal/model"
)

// keywordRule maps filename substrings to a canonical detector label.
type keywordRule struct {
	label    string
	keywords []string
}

// Keyword rules are checked in order; every matching rule contributes one
// detection. Labels use the detector's vocabulary so the rule table scores
// them the same way in either mode.
var keywordRules = []keywordRule{
	{label: "bottle", keywords: []string{"bottle", "plastic", "capture"}},
	{label: "cell phone", keywords: []string{"phone", "mobile"}},
	{label: "book", keywords: []string{"book"}},
	{label: "clothing", keywords: []string{"shirt", "clothing", "jeans"}},
	{label: "can", keywords: []string{"can"}},
	{label: "wine glass", keywords: []string{"glass"}},
}

const (
	keywordConfidence  = 0.9
	fallbackLabel      = "item"
	fallbackConfidence = 0.5
)

// KeywordClassifier is the degraded-mode stand-in: it matches keywords in the
// uploaded filename instead of running a detector over the image bytes.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the filename-keyword classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify matches filename keywords. When nothing matches it returns a
// single low-confidence generic item rather than an empty list, so the caller
// always has something to recommend against.
func (k *KeywordClassifier) Classify(_ context.Context, input Input) ([]model.Detection, error) {
	name := strings.ToLower(input.Filename)

	var detections []model.Detection
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				detections = append(detections, model.Detection{
					Label:      rule.label,
					Confidence: keywordConfidence,
				})
				break
			}
		}
	}

	if len(detections) == 0 {
		detections = append(detections, model.Detection{
			Label:      fallbackLabel,
			Confidence: fallbackConfidence,
		})
	}

	return detections, nil
}
