package resources

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of ResourcesRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Resource // ownerID -> resources
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Resource)}
}

// Create appends a resource to its owner's catalog.
func (r *MemoryRepo) Create(ctx context.Context, res Resource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res.Tags = append([]string(nil), res.Tags...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[res.OwnerID] = append(r.data[res.OwnerID], res)
	return nil
}

// ListByOwner returns copies of an owner's resources, newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	stored := r.data[ownerID]
	out := make([]Resource, len(stored))
	for i, res := range stored {
		res.Tags = append([]string(nil), res.Tags...)
		out[i] = res
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
