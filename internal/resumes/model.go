package resumes

import "time"

// Resume is an uploaded resume file owned by a user.
type Resume struct {
	ID               string
	UserID           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
