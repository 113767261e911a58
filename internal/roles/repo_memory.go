package roles

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of RolesRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Role
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Role)}
}

// Create stores a role with its questions.
func (r *MemoryRepo) Create(ctx context.Context, role Role) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[role.ID] = cloneRole(role)
	return nil
}

// Get returns a role by id.
func (r *MemoryRepo) Get(ctx context.Context, roleID string) (Role, error) {
	if err := ctx.Err(); err != nil {
		return Role{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.data[roleID]
	if !ok {
		return Role{}, ErrNotFound
	}
	return cloneRole(role), nil
}

// ListByOwner returns an owner's roles, newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []Role{}
	for _, role := range r.data {
		if role.OwnerID == ownerID {
			out = append(out, cloneRole(role))
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func cloneRole(role Role) Role {
	qs := make([]Question, len(role.Questions))
	for i, q := range role.Questions {
		q.ExpectedPoints = append([]string(nil), q.ExpectedPoints...)
		qs[i] = q
	}
	role.Questions = qs
	return role
}
