package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AnalysisResult is the content analysis produced for one approved frame.
type AnalysisResult struct {
	Prompt string
	Colors []string
	Tags   []string
}

// AnalysisClient triggers per-image content analysis. Calls are
// best-effort enrichment; callers log failures and never retry.
type AnalysisClient interface {
	Analyze(ctx context.Context, imageID uint, imageURL string) (AnalysisResult, error)
}

type analysisRequest struct {
	ImageID  uint   `json:"image_id"`
	ImageURL string `json:"image_url"`
}

type analysisResponse struct {
	Prompt             string   `json:"prompt"`
	Colors             []string `json:"colors"`
	Tags               []string `json:"tags"`
	StructuredAnalysis struct {
		ShortDescription string `json:"short_description"`
	} `json:"structured_analysis"`
}

type httpAnalysisClient struct {
	endpoint string
	client   *http.Client
}

func NewHTTPAnalysisClient(endpoint string, timeout time.Duration) AnalysisClient {
	return &httpAnalysisClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *httpAnalysisClient) Analyze(ctx context.Context, imageID uint, imageURL string) (AnalysisResult, error) {
	body, err := json.Marshal(analysisRequest{ImageID: imageID, ImageURL: imageURL})
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return AnalysisResult{}, fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, snippet)
	}

	var payload analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode analysis response: %w", err)
	}

	prompt := payload.StructuredAnalysis.ShortDescription
	if prompt == "" {
		prompt = payload.Prompt
		if len(prompt) > 500 {
			prompt = prompt[:500]
		}
	}

	return AnalysisResult{
		Prompt: prompt,
		Colors: payload.Colors,
		Tags:   payload.Tags,
	}, nil
}
