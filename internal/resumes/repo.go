package resumes

import (
	"context"
	"time"
)

// ResumesRepo defines persistence operations for resumes.
type ResumesRepo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	UpdateExtraction(ctx context.Context, userID, resumeID, extractedKey string, extractedAt time.Time) error
	Delete(ctx context.Context, userID, resumeID string) error
}
