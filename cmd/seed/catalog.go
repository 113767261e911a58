package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/resources"
	"interview-backend/internal/roles"
)

// catalog is the seed file layout. Entries without an owner belong to the shared catalog.
type catalog struct {
	Roles     []roleEntry     `yaml:"roles"`
	Resources []resourceEntry `yaml:"resources"`
}

type weightsEntry struct {
	Technical     *float64 `yaml:"technical"`
	Communication *float64 `yaml:"communication"`
	Confidence    *float64 `yaml:"confidence"`
}

type questionEntry struct {
	Question       string   `yaml:"question"`
	Topic          string   `yaml:"topic"`
	Difficulty     string   `yaml:"difficulty"`
	ExpectedPoints []string `yaml:"expected_points"`
}

type roleEntry struct {
	Owner       string          `yaml:"owner"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Weights     weightsEntry    `yaml:"weights"`
	Questions   []questionEntry `yaml:"questions"`
}

type resourceEntry struct {
	Owner       string   `yaml:"owner"`
	Title       string   `yaml:"title"`
	Type        string   `yaml:"type"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

type roleCreator interface {
	Create(ctx context.Context, ownerID string, in roles.CreateInput) (roles.Role, error)
}

type resourceCreator interface {
	Create(ctx context.Context, ownerID string, in resources.CreateInput) (resources.Resource, error)
}

func loadCatalog(path string) (catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog{}, fmt.Errorf("read %s: %w", path, err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (catalog, error) {
	var cat catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return catalog{}, fmt.Errorf("parse yaml: %w", err)
	}
	if len(cat.Roles) == 0 && len(cat.Resources) == 0 {
		return catalog{}, errors.New("catalog is empty")
	}
	return cat, nil
}

// seed creates every entry in order and stops at the first failure.
func seed(ctx context.Context, cat catalog, rs roleCreator, res resourceCreator) (int, int, error) {
	nRoles := 0
	for _, r := range cat.Roles {
		in := roles.CreateInput{
			Name:        r.Name,
			Description: r.Description,
			Weights: evaluation.Weights{
				Technical:     r.Weights.Technical,
				Communication: r.Weights.Communication,
				Confidence:    r.Weights.Confidence,
			},
		}
		for _, q := range r.Questions {
			in.Questions = append(in.Questions, roles.QuestionInput(q))
		}
		if _, err := rs.Create(ctx, ownerOrShared(r.Owner), in); err != nil {
			return nRoles, 0, fmt.Errorf("role %q: %w", r.Name, err)
		}
		nRoles++
	}

	nResources := 0
	for _, item := range cat.Resources {
		_, err := res.Create(ctx, ownerOrShared(item.Owner), resources.CreateInput{
			Title:       item.Title,
			Type:        item.Type,
			URL:         item.URL,
			Description: item.Description,
			Tags:        item.Tags,
		})
		if err != nil {
			return nRoles, nResources, fmt.Errorf("resource %q: %w", item.Title, err)
		}
		nResources++
	}
	return nRoles, nResources, nil
}

func ownerOrShared(owner string) string {
	if o := strings.TrimSpace(owner); o != "" {
		return o
	}
	return roles.SharedOwnerID
}
