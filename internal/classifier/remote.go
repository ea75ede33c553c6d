package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

// RemoteClassifier sends image bytes to an external inference service (a
// pretrained detector behind an HTTP endpoint) and decodes its detections.
type RemoteClassifier struct {
	http     *http.Client
	endpoint string
}

// NewRemoteClassifier creates a reusable client for the inference service.
func NewRemoteClassifier(endpoint string) *RemoteClassifier {
	return &RemoteClassifier{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Classify posts the image as a multipart form and returns the decoded
// detections. An empty detection list from the service is a valid result.
func (r *RemoteClassifier) Classify(ctx context.Context, input Input) ([]model.Detection, error) {
	if len(input.Image) == 0 {
		return nil, fmt.Errorf("%w: no image data", common.ErrInvalidInput)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", input.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(input.Image)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/detect", body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassifierUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: inference returned status %d", common.ErrClassifierUnavailable, resp.StatusCode)
	}

	var result struct {
		Detections []model.Detection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}

	return result.Detections, nil
}

// CheckHealth probes the inference service's health endpoint.
func (r *RemoteClassifier) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrClassifierUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned status %d", common.ErrClassifierUnavailable, resp.StatusCode)
	}
	return nil
}
