package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FRMWRKD/mooderi-sub001/models"
)

func TestExtractionClientPendingApproval(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "pending_approval",
			"selected_frames": ["f1.jpg", "f2.jpg"],
			"rejected_frames": ["f3.jpg"]
		}`))
	}))
	defer server.Close()

	client := NewHTTPExtractionClient(server.URL, 5*time.Second)
	result, err := client.Submit(context.Background(), "https://example.com/v.mp4", models.QualityMedium, 50)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != models.VideoStatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", result.Status)
	}
	if len(result.SelectedFrames) != 2 || len(result.RejectedFrames) != 1 {
		t.Fatalf("unexpected frame counts: %d selected, %d rejected",
			len(result.SelectedFrames), len(result.RejectedFrames))
	}
}

func TestExtractionClientFailedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "failed", "errors": ["decode error", "unsupported codec"]}`))
	}))
	defer server.Close()

	client := NewHTTPExtractionClient(server.URL, 5*time.Second)
	_, err := client.Submit(context.Background(), "https://example.com/v.mp4", models.QualityHigh, 50)
	if err == nil {
		t.Fatalf("expected error for failed payload")
	}

	var svcErr *ExtractionServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ExtractionServiceError, got %T", err)
	}
	if !strings.Contains(svcErr.Error(), "decode error") {
		t.Fatalf("expected upstream message in error, got %q", svcErr.Error())
	}
}

func TestExtractionClientFailedPayloadWithoutMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "failed"}`))
	}))
	defer server.Close()

	client := NewHTTPExtractionClient(server.URL, 5*time.Second)
	_, err := client.Submit(context.Background(), "https://example.com/v.mp4", models.QualityMedium, 50)

	var svcErr *ExtractionServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ExtractionServiceError, got %v", err)
	}
	if !strings.Contains(svcErr.Error(), "unknown error") {
		t.Fatalf("expected placeholder message, got %q", svcErr.Error())
	}
}

func TestExtractionClientNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPExtractionClient(server.URL, 5*time.Second)
	_, err := client.Submit(context.Background(), "https://example.com/v.mp4", models.QualityMedium, 50)

	var svcErr *ExtractionServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ExtractionServiceError, got %v", err)
	}
	if svcErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", svcErr.StatusCode)
	}
}
