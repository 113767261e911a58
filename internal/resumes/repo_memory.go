package resumes

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of ResumesRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Resume // userID -> resumes
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Resume),
	}
}

// Create appends a resume for its user.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[resume.UserID] = append(r.data[resume.UserID], resume)
	return nil
}

// GetByID returns a resume by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.data[userID] {
		if res.ID == resumeID {
			return res, nil
		}
	}
	return Resume{}, ErrNotFound
}

// UpdateExtraction records where the extracted text was stored. The first extraction wins.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, userID, resumeID, extractedKey string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[userID]
	for i := range items {
		if items[i].ID != resumeID {
			continue
		}
		if items[i].ExtractedTextKey == "" {
			items[i].ExtractedTextKey = extractedKey
			items[i].ExtractedAt = &extractedAt
		}
		return nil
	}
	return ErrNotFound
}

// Delete removes a resume. Deleting a missing resume is not an error.
func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[userID]
	for i := range items {
		if items[i].ID == resumeID {
			r.data[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ ResumesRepo = (*MemoryRepo)(nil)
