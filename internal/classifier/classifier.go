// Package classifier provides the object-detection boundary: an interface
// with two interchangeable implementations (a remote inference service and a
// filename-keyword stand-in), selected by configuration.
package classifier

import (
	"context"
	"fmt"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

// Classifier modes.
const (
	ModeKeyword = "keyword"
	ModeRemote  = "remote"
)

// Input carries one submission into a classifier. Image bytes may be empty in
// degraded mode; Filename is always present.
type Input struct {
	Filename string
	Image    []byte
}

// Classifier turns an image (or a filename hint) into a list of detections.
// Implementations return an empty list rather than failing when nothing is
// found.
type Classifier interface {
	Classify(ctx context.Context, input Input) ([]model.Detection, error)
}

// Config selects and tunes a classifier implementation.
type Config struct {
	Mode          string
	InferenceURL  string
	MinConfidence float64
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeKeyword,
		MinConfidence: 0.20,
	}
}

// New builds the classifier variant named by cfg.Mode, wrapped with the
// configured minimum-confidence cutoff.
func New(cfg Config) (Classifier, error) {
	var inner Classifier

	switch cfg.Mode {
	case ModeKeyword, "":
		inner = NewKeywordClassifier()
	case ModeRemote:
		if cfg.InferenceURL == "" {
			return nil, fmt.Errorf("%w: remote classifier requires an inference URL", common.ErrMissingConfig)
		}
		inner = NewRemoteClassifier(cfg.InferenceURL)
	default:
		return nil, fmt.Errorf("%w: unknown classifier mode %q", common.ErrInvalidConfig, cfg.Mode)
	}

	return &thresholdClassifier{inner: inner, minConfidence: cfg.MinConfidence}, nil
}

// thresholdClassifier drops detections below a confidence floor before they
// reach the recommendation engine.
type thresholdClassifier struct {
	inner         Classifier
	minConfidence float64
}

func (t *thresholdClassifier) Classify(ctx context.Context, input Input) ([]model.Detection, error) {
	detections, err := t.inner.Classify(ctx, input)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Detection, 0, len(detections))
	for _, det := range detections {
		if det.Confidence >= t.minConfidence {
			filtered = append(filtered, det)
		}
	}
	return filtered, nil
}
