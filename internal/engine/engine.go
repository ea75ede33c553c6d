// Package engine implements the core recommendation engine that turns
// detected objects into disposal actions and eco-point scores.
package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/sortwise/sortwise/internal/model"
)

// Recommendation line prefixes, one per non-empty category, emitted in fixed
// order: recyclable, donatable, general.
const (
	recyclableLinePrefix = "♻️ RECYCLABLE: "
	donatableLinePrefix  = "🤝 DONATABLE: "
	generalLinePrefix    = "ℹ️ CHECK GUIDELINES: "
)

// emptyInputMessage is returned when the classifier found nothing.
const emptyInputMessage = "No objects detected. Please try uploading a clearer image with better lighting."

// Engine maps classifier detections to disposal recommendations and scores.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules *Ruleset
}

// New creates a recommendation engine backed by the given rule table.
func New(rules *Ruleset) *Engine {
	return &Engine{rules: rules}
}

// Recommend scores an ordered list of detections. Input order is preserved
// within each category, duplicates are never deduplicated (each detection
// scores on its own), and unknown labels fall back to the general category.
// Confidence filtering is the classifier's job; every detection received here
// is treated as a true positive.
func (e *Engine) Recommend(detections []model.Detection) model.Recommendation {
	if len(detections) == 0 {
		return model.Recommendation{
			Lines:      []string{emptyInputMessage},
			Recyclable: []model.CategoryItem{},
			Donatable:  []model.CategoryItem{},
			General:    []model.CategoryItem{},
		}
	}

	result := model.Recommendation{
		Recyclable:    []model.CategoryItem{},
		Donatable:     []model.CategoryItem{},
		General:       []model.CategoryItem{},
		DetectedCount: len(detections),
	}

	for _, det := range detections {
		category, points := e.rules.Categorize(det.Label)
		pct := int(math.Round(det.Confidence * 100))

		item := model.CategoryItem{
			Item:   det.Label,
			Points: points,
		}

		switch category {
		case model.CategoryDonatable:
			item.Action = fmt.Sprintf("Donate to local NGO or charity (%d%% confidence)", pct)
			result.Donatable = append(result.Donatable, item)
		case model.CategoryRecyclable:
			item.Action = fmt.Sprintf("Recycle at nearest recycling center (%d%% confidence)", pct)
			result.Recyclable = append(result.Recyclable, item)
		case model.CategoryGeneral:
			item.Action = fmt.Sprintf("Check local waste guidelines (%d%% confidence)", pct)
			result.General = append(result.General, item)
		}

		result.TotalPoints += points
	}

	result.Lines = buildLines(result)
	result.CarbonSavedKg = float64(result.TotalPoints) * e.rules.CarbonKgPerPoint()

	return result
}

func buildLines(r model.Recommendation) []string {
	var lines []string

	if len(r.Recyclable) > 0 {
		lines = append(lines, recyclableLinePrefix+joinItems(r.Recyclable))
	}
	if len(r.Donatable) > 0 {
		lines = append(lines, donatableLinePrefix+joinItems(r.Donatable))
	}
	if len(r.General) > 0 {
		lines = append(lines, generalLinePrefix+joinItems(r.General))
	}

	return lines
}

func joinItems(items []model.CategoryItem) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Item
	}
	return strings.Join(names, ", ")
}
