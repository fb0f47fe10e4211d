package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/FRMWRKD/mooderi-sub001/models"
)

func seedImage(images *fakeImageRepo, id uint, userID *uint, isPublic bool, mood string) {
	images.images[id] = models.Image{
		ID:       id,
		ImageURL: "https://cdn.example.com/img.jpg",
		UserID:   userID,
		IsPublic: isPublic,
		Mood:     mood,
	}
}

func TestImageServiceListPublicFilters(t *testing.T) {
	images := newFakeImageRepo()
	owner := uint(1)
	seedImage(images, 1, &owner, true, "Cinematic")
	seedImage(images, 2, &owner, true, "Moody")
	seedImage(images, 3, &owner, false, "Cinematic")
	svc := NewImageService(images)

	out, err := svc.ListPublic(context.Background(), "Cinematic", "", 0, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if out.Total != 1 || len(out.Images) != 1 {
		t.Fatalf("expected 1 public cinematic image, got %d", out.Total)
	}
}

func TestImageServiceSetVisibilityOwnership(t *testing.T) {
	images := newFakeImageRepo()
	owner := uint(1)
	seedImage(images, 1, &owner, true, "")
	svc := NewImageService(images)

	if err := svc.SetVisibility(context.Background(), 1, 1, false); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	img, _ := images.GetByID(context.Background(), nil, 1)
	if img.IsPublic {
		t.Fatalf("expected image to be private")
	}

	err := svc.SetVisibility(context.Background(), 2, 1, true)
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %v", err)
	}

	err = svc.SetVisibility(context.Background(), 1, 99, true)
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing image, got %v", err)
	}
}

func TestImageServiceBulkVisibilitySkipsForeignImages(t *testing.T) {
	images := newFakeImageRepo()
	owner := uint(1)
	other := uint(2)
	seedImage(images, 1, &owner, true, "")
	seedImage(images, 2, &other, true, "")
	svc := NewImageService(images)

	if err := svc.SetVisibilityBulk(context.Background(), 1, []uint{1, 2}, false); err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}

	mine, _ := images.GetByID(context.Background(), nil, 1)
	theirs, _ := images.GetByID(context.Background(), nil, 2)
	if mine.IsPublic {
		t.Fatalf("expected own image updated")
	}
	if !theirs.IsPublic {
		t.Fatalf("expected foreign image untouched")
	}
}
