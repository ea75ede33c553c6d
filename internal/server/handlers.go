package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sortwise/sortwise/internal/classifier"
	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

// maxUploadBytes bounds submission size.
const maxUploadBytes = 16 << 20

// defaultUsername is used when a submission carries no username field.
const defaultUsername = "EcoStudent"

// leaderboardLimit bounds the leaderboard response.
const leaderboardLimit = 10

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message":    "🌱 Sortwise backend is running!",
		"status":     "success",
		"version":    Version,
		"classifier": s.classifierMode,
		"database":   "sqlite",
		"features":   []string{"object_detection", "user_profiles", "recycling_history", "eco_points"},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "sortwise",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleDetect is the submission flow: classify, recommend, award, record.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "No image file")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No image file")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "No file selected")
		return
	}

	username := r.FormValue("username")
	if username == "" {
		username = defaultUsername
	}

	image, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	// A classifier failure degrades to an empty detection list; the engine
	// handles that as a defined case, and the ledger is never corrupted by a
	// partial submission.
	detections, err := s.classifier.Classify(ctx, classifier.Input{
		Filename: header.Filename,
		Image:    image,
	})
	if err != nil {
		slog.Warn("Classifier failed, degrading to empty detections",
			"filename", header.Filename,
			"error", err)
		detections = nil
	}

	recommendation := s.engine.Recommend(detections)

	user, err := s.storage.AwardPoints(ctx, username, recommendation.TotalPoints, recommendation.DetectedCount)
	if err != nil {
		slog.Error("Failed to award points", "username", username, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	detectedJSON, err := json.Marshal(detections)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record submission")
		return
	}
	linesJSON, err := json.Marshal(recommendation.Lines)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record submission")
		return
	}

	entry := model.HistoryEntry{
		Filename:        header.Filename,
		DetectedObjects: string(detectedJSON),
		PointsEarned:    recommendation.TotalPoints,
		Recommendations: string(linesJSON),
	}
	if err := s.storage.AppendHistory(ctx, username, entry); err != nil {
		slog.Error("Failed to append history", "username", username, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to record submission")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"filename":         header.Filename,
		"detected_objects": detections,
		"recommendations":  recommendation.Lines,
		"eco_points":       recommendation.TotalPoints,
		"objects_detected": recommendation.DetectedCount,
		"carbon_saved_kg":  recommendation.CarbonSavedKg,
		"categories": map[string]any{
			"recyclable": recommendation.Recyclable,
			"donatable":  recommendation.Donatable,
			"general":    recommendation.General,
		},
		"user_stats": user,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := s.storage.GetUser(r.Context(), username)
	if errors.Is(err, common.ErrNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("Failed to get user", "username", username, "error", err)
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	limit := s.cfg.History.Limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := s.storage.GetHistory(r.Context(), username, limit)
	if errors.Is(err, common.ErrNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("Failed to get history", "username", username, "error", err)
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	var body struct {
		Points int `json:"points"`
		Items  int `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Points < 0 || body.Items < 0 {
		respondError(w, http.StatusBadRequest, "Points and items must be non-negative")
		return
	}

	user, err := s.storage.AwardPoints(r.Context(), username, body.Points, body.Items)
	if err != nil {
		slog.Error("Failed to update user", "username", username, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (s *Server) handleListCenters(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.directory.ListCenters())
}

func (s *Server) handleUserLocation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Lat == nil || body.Lng == nil {
		respondError(w, http.StatusBadRequest, "Location coordinates required")
		return
	}

	origin := model.Coordinates{Lat: *body.Lat, Lng: *body.Lng}
	ranked, err := s.directory.RankByDistance(origin)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_location":  origin,
		"nearby_centers": ranked,
		"total_centers":  len(ranked),
	})
}

func (s *Server) handleDirections(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid center id")
		return
	}

	center, err := s.directory.Center(id)
	if errors.Is(err, common.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Center not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Directory error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":          center.ID,
		"name":        center.Name,
		"address":     center.Address,
		"coordinates": center.Coordinates(),
		"directions":  center.Directions,
		"transport":   center.Transport,
		"landmarks":   center.Landmarks,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.storage.GetLeaderboard(r.Context(), leaderboardLimit)
	if err != nil {
		slog.Error("Failed to get leaderboard", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
