package roles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/evaluation"
)

// QuestionInput is a caller-supplied role question.
type QuestionInput struct {
	Question       string
	Topic          string
	Difficulty     string
	ExpectedPoints []string
}

// CreateInput is the caller-supplied part of a new role.
type CreateInput struct {
	Name        string
	Description string
	Weights     evaluation.Weights
	Questions   []QuestionInput
}

// Service manages interview roles.
type Service struct {
	Repo RolesRepo
	Now  func() time.Time
}

// Create validates input and stores a role owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Role, error) {
	if ownerID == "" {
		return Role{}, fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	role := Role{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Weights:     in.Weights,
		CreatedAt:   s.now(),
	}
	for i, qi := range in.Questions {
		text := strings.TrimSpace(qi.Question)
		if text == "" {
			return Role{}, fmt.Errorf("%w: question %d is empty", ErrInvalidInput, i+1)
		}
		role.Questions = append(role.Questions, Question{
			ID:             uuid.NewString(),
			RoleID:         role.ID,
			Question:       text,
			Topic:          strings.TrimSpace(qi.Topic),
			Difficulty:     strings.TrimSpace(qi.Difficulty),
			ExpectedPoints: cleanPoints(qi.ExpectedPoints),
		})
	}

	if err := s.Repo.Create(ctx, role); err != nil {
		return Role{}, err
	}
	return role, nil
}

// Get returns a role by id.
func (s *Service) Get(ctx context.Context, roleID string) (Role, error) {
	if roleID == "" {
		return Role{}, ErrNotFound
	}
	return s.Repo.Get(ctx, roleID)
}

// List returns the roles an owner has defined.
func (s *Service) List(ctx context.Context, ownerID string) ([]Role, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	return s.Repo.ListByOwner(ctx, ownerID)
}

// OwnerOf returns the id of the user who owns roleID.
func (s *Service) OwnerOf(ctx context.Context, roleID string) (string, error) {
	role, err := s.Get(ctx, roleID)
	if err != nil {
		return "", err
	}
	return role.OwnerID, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func cleanPoints(points []string) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
