package improvement

import (
	"context"
	"strings"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/llm"
	"interview-backend/internal/resources"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
)

// Plan is the improvement plan produced when an interview completes.
type Plan struct {
	WeakAreas             []WeakArea            `json:"weak_areas"`
	ImprovementSteps      []string              `json:"improvement_steps"`
	RecommendedResources  []RecommendedResource `json:"recommended_resources"`
	PracticePlan          string                `json:"practice_plan"`
	OverallRecommendation string                `json:"overall_recommendation"`
}

// RoleOwners resolves the user who owns an interview role.
type RoleOwners interface {
	OwnerOf(ctx context.Context, roleID string) (string, error)
}

// ResourceCatalog lists an owner's learning resources, newest first.
type ResourceCatalog interface {
	List(ctx context.Context, ownerID string) ([]resources.Resource, error)
}

// Generator builds improvement plans and learning paths.
// Roles and Catalog may be nil, in which case no resources are recommended.
type Generator struct {
	Oracle  llm.Client
	Roles   RoleOwners
	Catalog ResourceCatalog
	// SharedOwner, when set, owns a catalog consulted after the role owner's.
	SharedOwner string
}

// NewGenerator constructs a Generator.
func NewGenerator(oracle llm.Client, roles RoleOwners, catalog ResourceCatalog) *Generator {
	return &Generator{Oracle: oracle, Roles: roles, Catalog: catalog}
}

func (g *Generator) oracle() llm.Client {
	if g == nil || g.Oracle == nil {
		return llm.PlaceholderClient{}
	}
	return g.Oracle
}

// GeneratePlan builds the plan for an interview's aggregated metrics. roleID may be empty
// for interviews not started from a role. It never fails: every oracle or catalog problem
// degrades to a documented fallback.
func (g *Generator) GeneratePlan(ctx context.Context, m evaluation.InterviewMetrics, roleID string) Plan {
	weak := IdentifyWeakAreas(m)
	plan := Plan{
		WeakAreas:             weak,
		ImprovementSteps:      g.ImprovementSteps(ctx, weak),
		RecommendedResources:  g.RecommendResources(ctx, weak, roleID),
		PracticePlan:          PracticePlan(weak),
		OverallRecommendation: OverallRecommendation(m),
	}
	metrics.IncPlansGenerated()
	telemetry.Info("improvement.plan_generated", map[string]any{
		"role_id":    roleID,
		"weak_areas": len(weak),
		"steps":      len(plan.ImprovementSteps),
		"resources":  len(plan.RecommendedResources),
	})
	return plan
}

func logFallback(operation string, err error) {
	metrics.IncScoreFallback(strings.TrimPrefix(operation, "improvement."))
	fields := map[string]any{
		"component": "improvement",
		"operation": operation,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("oracle.fallback", fields)
}
