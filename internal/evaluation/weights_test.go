package evaluation

import "testing"

func TestWeightsResolveFillsDefaults(t *testing.T) {
	tech := 0.6
	got := Weights{Technical: &tech}.Resolve()
	want := ResolvedWeights{Technical: 0.6, Communication: DefaultCommunicationWeight, Confidence: DefaultConfidenceWeight}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
	if (Weights{}).Resolve() != DefaultWeights() {
		t.Fatalf("empty weights should resolve to defaults")
	}
}

func TestParseWeightsIgnoresUnknownKeys(t *testing.T) {
	w, err := ParseWeights(`{"technical_weight": 1, "bogus_weight": 7}`)
	if err != nil {
		t.Fatalf("ParseWeights: %v", err)
	}
	r := w.Resolve()
	if r.Technical != 1 || r.Communication != DefaultCommunicationWeight || r.Confidence != DefaultConfidenceWeight {
		t.Fatalf("unexpected resolved weights %+v", r)
	}
}

func TestParseWeightsErrors(t *testing.T) {
	if _, err := ParseWeights(`{"technical_weight": "heavy"}`); err == nil {
		t.Fatal("expected error for non-numeric weight")
	}
	w, err := ParseWeights("  ")
	if err != nil || !w.IsZero() {
		t.Fatalf("expected zero weights for blank input, got %+v, %v", w, err)
	}
}

func TestCombineClampsUnconditionally(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		want    float64
	}{
		{name: "technical only", weights: NewWeights(1, 0, 0), want: 80},
		{name: "sum far above one", weights: NewWeights(10, 10, 10), want: 100},
		{name: "negative", weights: NewWeights(-5, 0, 0), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.weights.Resolve().Combine(80, 20, 20); got != tt.want {
				t.Fatalf("Combine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightsEncodeRoundTrip(t *testing.T) {
	w := NewWeights(0.5, 0.25, 0.25)
	back, err := ParseWeights(w.Encode())
	if err != nil {
		t.Fatalf("ParseWeights: %v", err)
	}
	if back.Resolve() != w.Resolve() {
		t.Fatalf("expected %+v, got %+v", w.Resolve(), back.Resolve())
	}
	if (Weights{}).Encode() != "" {
		t.Fatalf("expected empty encoding for zero weights")
	}
}
