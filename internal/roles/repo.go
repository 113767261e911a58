package roles

import "context"

// RolesRepo defines persistence operations for roles and their questions.
type RolesRepo interface {
	Create(ctx context.Context, role Role) error
	Get(ctx context.Context, roleID string) (Role, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Role, error)
}
