package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service reports readiness of the API and its backing stores.
type Service struct {
	DB *sql.DB
}

// NewService constructs a health service. db may be nil when repositories are in memory.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status returns the health payload. ok is false only when a configured database is unreachable.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true, "database": "memory"}
	if s == nil || s.DB == nil {
		return out
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		out["ok"] = false
		out["database"] = "down"
		return out
	}
	out["database"] = "up"
	return out
}
