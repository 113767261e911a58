package resources

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateInput is the caller-supplied part of a new resource.
type CreateInput struct {
	Title       string
	Type        string
	URL         string
	Description string
	Tags        []string
}

// Service manages an owner's resource catalog.
type Service struct {
	Repo ResourcesRepo
	Now  func() time.Time
}

// Create validates input and stores a new resource for ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Resource, error) {
	if ownerID == "" {
		return Resource{}, fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Resource{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ != "" && !slices.Contains(Types, typ) {
		return Resource{}, fmt.Errorf("%w: type must be one of %s", ErrInvalidInput, strings.Join(Types, ", "))
	}

	res := Resource{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Type:        typ,
		URL:         strings.TrimSpace(in.URL),
		Description: strings.TrimSpace(in.Description),
		Tags:        cleanTags(in.Tags),
		CreatedAt:   s.now(),
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		return Resource{}, err
	}
	return res, nil
}

// List returns an owner's catalog, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Resource, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	return s.Repo.ListByOwner(ctx, ownerID)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
