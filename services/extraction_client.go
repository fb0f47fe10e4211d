package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/FRMWRKD/mooderi-sub001/models"
)

// ExtractionResult is the successful outcome of a submission to the
// external frame extraction service. Status is pending_approval (frames
// await human review) or completed (final frames, no approval step).
type ExtractionResult struct {
	Status         string
	SelectedFrames []string
	RejectedFrames []string
	Frames         []string
}

// ExtractionServiceError reports a failure from the extraction service
// itself: a non-2xx response or an explicit failed payload with upstream
// error messages.
type ExtractionServiceError struct {
	StatusCode int
	Errors     []string
}

func (e *ExtractionServiceError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("extraction failed: %s", strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("extraction service returned %d", e.StatusCode)
}

// ExtractionClient submits a video for frame extraction. The call is
// synchronous with a minutes-scale timeout; there are no retries, a
// failure is terminal for the job.
type ExtractionClient interface {
	Submit(ctx context.Context, videoURL, qualityMode string, maxFrames int) (ExtractionResult, error)
}

type extractionRequest struct {
	VideoURL    string `json:"video_url"`
	QualityMode string `json:"quality_mode"`
	MaxFrames   int    `json:"max_frames"`
}

type extractionResponse struct {
	Status         string   `json:"status"`
	SelectedFrames []string `json:"selected_frames"`
	RejectedFrames []string `json:"rejected_frames"`
	Frames         []string `json:"frames"`
	Errors         []string `json:"errors"`
}

type httpExtractionClient struct {
	endpoint string
	client   *http.Client
}

func NewHTTPExtractionClient(endpoint string, timeout time.Duration) ExtractionClient {
	return &httpExtractionClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *httpExtractionClient) Submit(ctx context.Context, videoURL, qualityMode string, maxFrames int) (ExtractionResult, error) {
	body, err := json.Marshal(extractionRequest{
		VideoURL:    videoURL,
		QualityMode: qualityMode,
		MaxFrames:   maxFrames,
	})
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("encode extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return ExtractionResult{}, &ExtractionServiceError{
			StatusCode: resp.StatusCode,
			Errors:     []string{strings.TrimSpace(string(snippet))},
		}
	}

	var payload extractionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ExtractionResult{}, fmt.Errorf("decode extraction response: %w", err)
	}

	if payload.Status == models.VideoStatusFailed {
		errs := payload.Errors
		if len(errs) == 0 {
			errs = []string{"unknown error"}
		}
		return ExtractionResult{}, &ExtractionServiceError{StatusCode: resp.StatusCode, Errors: errs}
	}

	return ExtractionResult{
		Status:         payload.Status,
		SelectedFrames: payload.SelectedFrames,
		RejectedFrames: payload.RejectedFrames,
		Frames:         payload.Frames,
	}, nil
}
