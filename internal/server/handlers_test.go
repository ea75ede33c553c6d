package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortwise/sortwise/internal/classifier"
	"github.com/sortwise/sortwise/internal/config"
	"github.com/sortwise/sortwise/internal/directory"
	"github.com/sortwise/sortwise/internal/engine"
	"github.com/sortwise/sortwise/internal/model"
	"github.com/sortwise/sortwise/internal/storage"
)

// failingClassifier simulates a broken detection backend.
type failingClassifier struct{}

func (failingClassifier) Classify(_ context.Context, _ classifier.Input) ([]model.Detection, error) {
	return nil, fmt.Errorf("inference exploded")
}

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Addr: ":0", ShutdownTimeout: time.Second},
		Classifier: config.ClassifierConfig{Mode: classifier.ModeKeyword, MinConfidence: 0.20},
		History:    config.HistoryConfig{Limit: 5},
	}
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	clf, err := classifier.New(classifier.Config{Mode: classifier.ModeKeyword, MinConfidence: 0.20})
	require.NoError(t, err)

	dir, err := directory.New("")
	require.NoError(t, err)

	srv := New(testConfig(), store, clf, engine.New(engine.DefaultRuleset()), dir)
	return srv, srv.Router()
}

func multipartImage(t *testing.T, filename, username string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)

	if username != "" {
		require.NoError(t, writer.WriteField("username", username))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDetect_HappyPath(t *testing.T) {
	_, handler := newTestServer(t)

	body, contentType := multipartImage(t, "plastic_bottle.jpg", "tester")
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)

	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "plastic_bottle.jpg", resp["filename"])
	assert.EqualValues(t, 10, resp["eco_points"])
	assert.EqualValues(t, 1, resp["objects_detected"])
	assert.InDelta(t, 3.0, resp["carbon_saved_kg"], 1e-9)

	lines, ok := resp["recommendations"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, "♻️ RECYCLABLE: bottle", lines[0])

	stats, ok := resp["user_stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tester", stats["username"])
	assert.EqualValues(t, 10, stats["eco_points"])
	assert.Equal(t, "Eco Beginner", stats["level"])
}

func TestDetect_MissingImage(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewBufferString("nope"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A rejected submission must leave no side effects behind.
	req = httptest.NewRequest(http.MethodGet, "/user/"+defaultUsername+"x", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDetect_DefaultUsername(t *testing.T) {
	_, handler := newTestServer(t)

	body, contentType := multipartImage(t, "book.jpg", "")
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)

	stats, ok := resp["user_stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, defaultUsername, stats["username"])
	// EcoStudent is seeded with 150 points; a donated book adds 15.
	assert.EqualValues(t, 165, stats["eco_points"])
}

func TestDetect_ClassifierFailureDegrades(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.classifier = failingClassifier{}
	handler := srv.Router()

	body, contentType := multipartImage(t, "whatever.jpg", "degraded")
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)

	assert.EqualValues(t, 0, resp["eco_points"])
	assert.EqualValues(t, 0, resp["objects_detected"])

	lines, ok := resp["recommendations"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "No objects detected")
}

func TestGetUser(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/user/nobody", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Seeded demo account.
	req = httptest.NewRequest(http.MethodGet, "/user/EcoStudent", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.EqualValues(t, 150, resp["eco_points"])
	assert.Equal(t, "Eco Friend", resp["level"])
}

func TestHistoryFlow(t *testing.T) {
	_, handler := newTestServer(t)

	for _, filename := range []string{"bottle1.jpg", "book_two.jpg", "glass_three.jpg"} {
		body, contentType := multipartImage(t, filename, "historian")
		req := httptest.NewRequest(http.MethodPost, "/detect", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/user/historian/history?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)

	history, ok := resp["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 2)

	newest, ok := history[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "glass_three.jpg", newest["filename"])
}

func TestHistory_UnknownUserAndBadLimit(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/user/ghost/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/user/EcoStudent/history?limit=-1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUser(t *testing.T) {
	_, handler := newTestServer(t)

	payload := bytes.NewBufferString(`{"points": 60, "items": 6}`)
	req := httptest.NewRequest(http.MethodPost, "/user/EcoStudent/update", payload)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)

	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 210, user["eco_points"])
	assert.Equal(t, "Eco Warrior", user["level"])
}

func TestUpdateUser_RejectsNegative(t *testing.T) {
	_, handler := newTestServer(t)

	payload := bytes.NewBufferString(`{"points": -10, "items": 1}`)
	req := httptest.NewRequest(http.MethodPost, "/user/EcoStudent/update", payload)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCenters(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/recycling-centers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var centers []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &centers))
	assert.Len(t, centers, 10)
}

func TestUserLocation(t *testing.T) {
	_, handler := newTestServer(t)

	payload := bytes.NewBufferString(`{"lat": 13.0, "lng": 76.1}`)
	req := httptest.NewRequest(http.MethodPost, "/user-location", payload)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)

	assert.EqualValues(t, 10, resp["total_centers"])

	centers, ok := resp["nearby_centers"].([]any)
	require.True(t, ok)
	require.Len(t, centers, 10)

	prev := -1.0
	for i, raw := range centers {
		center, castOK := raw.(map[string]any)
		require.True(t, castOK)
		km, kmOK := center["distance_km"].(float64)
		require.True(t, kmOK)
		assert.GreaterOrEqual(t, km, prev, "centers not sorted at index %d", i)
		prev = km
	}
}

func TestUserLocation_BadInput(t *testing.T) {
	_, handler := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing coordinates", body: `{}`},
		{name: "missing lng", body: `{"lat": 13.0}`},
		{name: "out of range", body: `{"lat": 213.0, "lng": 76.1}`},
		{name: "not json", body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/user-location", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDirections(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/get-directions/1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "Hassan City Municipal Waste Center", resp["name"])
	assert.NotEmpty(t, resp["directions"])

	req = httptest.NewRequest(http.MethodGet, "/get-directions/99", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/get-directions/abc", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaderboard(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, "EcoChampion", entries[0]["username"])
}

func TestHealthAndHome(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", decodeBody(t, rec)["status"])
}

func TestCORSPreflight(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/detect", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
