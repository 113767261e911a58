package improvement

import (
	"context"
	"errors"
	"strings"

	"interview-backend/internal/resources"
	"interview-backend/internal/shared/telemetry"
)

// Resource recommendation limits.
const (
	MaxResourcesPerArea = 2
	MaxResources        = 6
)

// RecommendedResource is a catalog entry suggested for a weak area.
type RecommendedResource struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// dimensionTags lists the lowercase tags that make a resource relevant to a dimension.
var dimensionTags = map[string][]string{
	DimensionTechnical:     {"technical", "coding", "algorithms", "system design"},
	DimensionCommunication: {"communication", "presentation", "soft skills"},
	DimensionConfidence:    {"confidence", "practice", "interview prep"},
}

// RecommendResources picks up to two resources per weak area from the catalog of the
// role's owner, followed by the shared catalog when one is configured. A resource
// matching several weak areas is listed once per match. A failed owner lookup yields an
// empty list; a failed catalog listing only drops that catalog.
func (g *Generator) RecommendResources(ctx context.Context, weak []WeakArea, roleID string) []RecommendedResource {
	out := []RecommendedResource{}
	if len(weak) == 0 || roleID == "" || g == nil || g.Roles == nil || g.Catalog == nil {
		return out
	}

	ownerID, err := g.Roles.OwnerOf(ctx, roleID)
	if err != nil {
		logCatalogFailure(roleID, "owner lookup", err)
		return out
	}
	if ownerID == "" {
		logCatalogFailure(roleID, "owner lookup", errors.New("role has no owner"))
		return out
	}
	catalog := g.catalogFor(ctx, roleID, ownerID)

	for _, wa := range weak {
		matched := 0
		for _, res := range catalog {
			if matched == MaxResourcesPerArea {
				break
			}
			if !MatchesDimension(res.Tags, wa.Dimension) {
				continue
			}
			out = append(out, RecommendedResource{
				Title:       res.Title,
				Type:        res.Type,
				URL:         res.URL,
				Description: res.Description,
			})
			matched++
		}
	}
	if len(out) > MaxResources {
		out = out[:MaxResources]
	}
	return out
}

// catalogFor lists the owner's resources and then the shared ones. The shared catalog is
// skipped when the owner is the shared owner.
func (g *Generator) catalogFor(ctx context.Context, roleID, ownerID string) []resources.Resource {
	owners := []string{ownerID}
	if g.SharedOwner != "" && g.SharedOwner != ownerID {
		owners = append(owners, g.SharedOwner)
	}
	var out []resources.Resource
	for _, owner := range owners {
		items, err := g.Catalog.List(ctx, owner)
		if err != nil {
			logCatalogFailure(roleID, "list resources owner="+owner, err)
			continue
		}
		out = append(out, items...)
	}
	return out
}

// MatchesDimension reports whether any tag, compared case-insensitively, is one of the
// dimension's keywords.
func MatchesDimension(tags []string, dimension string) bool {
	keywords := dimensionTags[dimension]
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		for _, kw := range keywords {
			if tag == kw {
				return true
			}
		}
	}
	return false
}

func logCatalogFailure(roleID, stage string, err error) {
	telemetry.Warn("improvement.resources_unavailable", map[string]any{
		"role_id": roleID,
		"stage":   stage,
		"error":   err.Error(),
	})
}
