package resources

import "context"

// ResourcesRepo defines persistence operations for the resource catalog.
type ResourcesRepo interface {
	Create(ctx context.Context, res Resource) error
	// ListByOwner returns an owner's resources, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Resource, error)
}
