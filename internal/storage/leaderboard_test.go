package storage

import (
	"context"
	"testing"
)

func TestGetLeaderboard_OrderedByPoints(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	entries, err := store.GetLeaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}

	// Seeded demo accounts: EcoChampion 450, GreenWarrior 320,
	// RecycleMaster 280, EarthFriend 180, EcoStudent 150.
	if len(entries) != 5 {
		t.Fatalf("len(entries) = %d, want 5", len(entries))
	}
	if entries[0].Username != "EcoChampion" {
		t.Errorf("Top entry = %s, want EcoChampion", entries[0].Username)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].EcoPoints > entries[i-1].EcoPoints {
			t.Errorf("Leaderboard not descending at index %d", i)
		}
	}
}

func TestGetLeaderboard_LimitAndNewAwards(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	if _, err := store.AwardPoints(ctx, "overachiever", 1000, 10); err != nil {
		t.Fatalf("AwardPoints failed: %v", err)
	}

	entries, err := store.GetLeaderboard(ctx, 3)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Username != "overachiever" {
		t.Errorf("Top entry = %s, want overachiever", entries[0].Username)
	}
	if entries[0].Level != "Eco Champion" {
		t.Errorf("Level = %q, want Eco Champion", entries[0].Level)
	}
}

func TestGetLeaderboard_InvalidLimit(t *testing.T) {
	store := newTestStorage(t)

	if _, err := store.GetLeaderboard(context.Background(), 0); err == nil {
		t.Error("Expected error for non-positive limit")
	}
}
