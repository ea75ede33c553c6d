package model

import "time"

// CarbonKgPerPoint is the linear proxy used to estimate carbon saved from
// eco points. It is an estimate, not a physically derived figure.
const CarbonKgPerPoint = 0.3

// Level thresholds. A user's level is always derived from their current
// eco-point total, never stored independently of it.
const (
	LevelChampion = "Eco Champion"
	LevelWarrior  = "Eco Warrior"
	LevelFriend   = "Eco Friend"
	LevelBeginner = "Eco Beginner"
)

// LevelForPoints maps an eco-point total to its tier name.
func LevelForPoints(points int) string {
	switch {
	case points >= 500:
		return LevelChampion
	case points >= 200:
		return LevelWarrior
	case points >= 100:
		return LevelFriend
	default:
		return LevelBeginner
	}
}

// UserAccount is a per-user ledger row. EcoPoints, ItemsRecycled and
// CarbonSavedKg only ever increase.
type UserAccount struct {
	CreatedAt     time.Time `json:"created_at"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Level         string    `json:"level"`
	ID            int64     `json:"id"`
	EcoPoints     int       `json:"eco_points"`
	ItemsRecycled int       `json:"items_recycled"`
	CarbonSavedKg float64   `json:"carbon_saved_kg"`
}

// HistoryEntry is one past submission. Entries are append-only and owned by
// exactly one user account.
type HistoryEntry struct {
	ProcessedAt     time.Time `json:"processed_at"`
	Filename        string    `json:"filename"`
	DetectedObjects string    `json:"detected_objects"`
	Recommendations string    `json:"recommendations"`
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	PointsEarned    int       `json:"points_earned"`
}

// LeaderboardEntry is a ranked slice of a user account.
type LeaderboardEntry struct {
	Username  string `json:"username"`
	Level     string `json:"level"`
	EcoPoints int    `json:"eco_points"`
}
