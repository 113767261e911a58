package evaluation

import (
	"encoding/json"
	"fmt"
	"strings"

	"interview-backend/internal/llm/parse"
)

// System default weights, used for any dimension a configuration leaves unset.
const (
	DefaultTechnicalWeight     = 0.4
	DefaultCommunicationWeight = 0.3
	DefaultConfidenceWeight    = 0.3
)

// Weights is a weight configuration as supplied by a role or an interview override.
// Nil fields fall back to the system defaults. Unknown JSON keys are ignored.
type Weights struct {
	Technical     *float64 `json:"technical_weight,omitempty"`
	Communication *float64 `json:"communication_weight,omitempty"`
	Confidence    *float64 `json:"confidence_weight,omitempty"`
}

// ResolvedWeights has every dimension filled in.
type ResolvedWeights struct {
	Technical     float64 `json:"technical_weight"`
	Communication float64 `json:"communication_weight"`
	Confidence    float64 `json:"confidence_weight"`
}

// DefaultWeights returns the system default configuration.
func DefaultWeights() ResolvedWeights {
	return ResolvedWeights{
		Technical:     DefaultTechnicalWeight,
		Communication: DefaultCommunicationWeight,
		Confidence:    DefaultConfidenceWeight,
	}
}

// Resolve fills missing dimensions with the system defaults.
func (w Weights) Resolve() ResolvedWeights {
	out := DefaultWeights()
	if w.Technical != nil {
		out.Technical = *w.Technical
	}
	if w.Communication != nil {
		out.Communication = *w.Communication
	}
	if w.Confidence != nil {
		out.Confidence = *w.Confidence
	}
	return out
}

// IsZero reports whether no dimension is set.
func (w Weights) IsZero() bool {
	return w.Technical == nil && w.Communication == nil && w.Confidence == nil
}

// NewWeights builds a fully specified configuration.
func NewWeights(technical, communication, confidence float64) Weights {
	return Weights{Technical: &technical, Communication: &communication, Confidence: &confidence}
}

// ParseWeights decodes a JSON weight configuration. Empty input yields zero Weights.
func ParseWeights(raw string) (Weights, error) {
	var w Weights
	if strings.TrimSpace(raw) == "" {
		return w, nil
	}
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Weights{}, fmt.Errorf("parse weights: %w", err)
	}
	return w, nil
}

// Encode returns the JSON form of w, or "" when no dimension is set.
func (w Weights) Encode() string {
	if w.IsZero() {
		return ""
	}
	data, err := json.Marshal(w)
	if err != nil {
		return ""
	}
	return string(data)
}

// Combine returns the weighted sum of the three dimension scores, clamped to [0,100].
func (r ResolvedWeights) Combine(technical, communication, confidence float64) float64 {
	return parse.ClampScore(technical*r.Technical + communication*r.Communication + confidence*r.Confidence)
}
