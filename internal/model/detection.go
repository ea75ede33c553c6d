// Package model defines the core domain models used throughout the application.
package model

// Detection is a single labeled, confidence-scored object identification
// produced by a classifier. Confidence is in [0, 1]; higher means more
// certain. Detections are ephemeral and only persisted as a serialized blob
// inside history entries.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Category describes how a detected object should be disposed of.
type Category string

// Disposal categories, mutually exclusive per detection.
const (
	CategoryRecyclable Category = "recyclable"
	CategoryDonatable  Category = "donatable"
	CategoryGeneral    Category = "general"
)

// CategoryItem is a single detection annotated with its disposal action and
// awarded points.
type CategoryItem struct {
	Item   string `json:"item"`
	Action string `json:"action"`
	Points int    `json:"points"`
}

// Recommendation is the aggregate result of scoring one submission.
type Recommendation struct {
	Lines         []string       `json:"recommendations"`
	Recyclable    []CategoryItem `json:"recyclable"`
	Donatable     []CategoryItem `json:"donatable"`
	General       []CategoryItem `json:"general"`
	TotalPoints   int            `json:"total_points"`
	DetectedCount int            `json:"detected_count"`
	CarbonSavedKg float64        `json:"carbon_saved_kg"`
}
