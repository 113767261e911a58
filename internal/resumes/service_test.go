package resumes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"interview-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Service{
		Store:    local.New(t.TempDir()),
		Repo:     repo,
		Provider: "local",
		Now:      func() time.Time { return fixed },
	}, repo
}

func TestUploadAndText(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	res, err := svc.Upload(ctx, "user-1", "resume.txt", strings.NewReader("Five years of Go and Kubernetes."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.ID == "" || res.StorageKey == "" || res.StorageProvider != "local" {
		t.Fatalf("unexpected resume %+v", res)
	}

	text, err := svc.Text(ctx, res)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Five years of Go and Kubernetes." {
		t.Fatalf("unexpected text %q", text)
	}

	stored, err := repo.GetByID(ctx, "user-1", res.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ExtractedTextKey != res.StorageKey+".extracted.txt" || stored.ExtractedAt == nil {
		t.Fatalf("extraction not recorded: %+v", stored)
	}
}

func TestUploadValidation(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Upload(context.Background(), "", "cv.txt", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing user, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "user-1", "  ", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing name, got %v", err)
	}
}

func TestTextRejectsUnsupportedAndEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	img, err := svc.Upload(ctx, "user-1", "photo.png", strings.NewReader("\x89PNG\r\n\x1a\nrest"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Text(ctx, img); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for image, got %v", err)
	}

	blank, err := svc.Upload(ctx, "user-1", "blank.txt", strings.NewReader("   \n  "))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Text(ctx, blank); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestDiscardRemovesFileAndRecord(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	res, err := svc.Upload(ctx, "user-1", "resume.txt", strings.NewReader("Go, Postgres, gRPC."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Text(ctx, res); err != nil {
		t.Fatalf("Text: %v", err)
	}

	if err := svc.Discard(ctx, res); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := svc.Store.Open(ctx, res.StorageKey); err == nil {
		t.Fatalf("expected stored file to be gone")
	}
	if _, err := svc.Store.Open(ctx, res.StorageKey+".extracted.txt"); err == nil {
		t.Fatalf("expected extracted copy to be gone")
	}
	if _, err := repo.GetByID(ctx, "user-1", res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after discard, got %v", err)
	}
	if err := svc.Discard(ctx, res); err != nil {
		t.Fatalf("second Discard: %v", err)
	}
}
