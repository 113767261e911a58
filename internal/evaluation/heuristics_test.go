package evaluation

import (
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestCommunicationHeuristic(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   float64
	}{
		{name: "empty", answer: "", want: 50},
		{name: "19 words", answer: words(19), want: 50},
		{name: "20 words", answer: words(20), want: 60},
		{name: "49 words", answer: words(49), want: 60},
		{name: "50 words", answer: words(50), want: 70},
		{name: "300 words", answer: words(300), want: 70},
		{name: "301 words", answer: words(301), want: 60},
		{name: "only fillers", answer: "um um um um um", want: 30},
		{name: "structure and sentences", answer: "First, we do X. Then we do Y.", want: 66},
		{name: "structure bonus capped", answer: "first second third finally however therefore because then next first", want: 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommunicationHeuristic(tt.answer); got != tt.want {
				t.Fatalf("CommunicationHeuristic(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestScoreCommunicationBlendsGrammar(t *testing.T) {
	if got := ScoreCommunication("", 70); got != 56 {
		t.Fatalf("expected 50*0.7+70*0.3 = 56, got %v", got)
	}
	if got := ScoreCommunication("", 500); got != 65 {
		t.Fatalf("expected grammar clamped to 100 giving 65, got %v", got)
	}
}

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   float64
	}{
		{name: "empty", answer: "", want: 60},
		{name: "29 words", answer: words(29), want: 60},
		{name: "30 words", answer: words(30), want: 75},
		{name: "49 words", answer: words(49), want: 75},
		{name: "50 words", answer: words(50), want: 85},
		{name: "80 words", answer: words(80), want: 85},
		{name: "81 words", answer: words(81), want: 90},
		{name: "two uncertainty words allowed", answer: "maybe probably", want: 60},
		{name: "four uncertainty words", answer: "maybe maybe maybe maybe", want: 44},
		{name: "uncertainty capped", answer: strings.Repeat("maybe ", 10), want: 30},
		{name: "assertive capped", answer: "definitely definitely definitely", want: 70},
		{name: "hedging", answer: "kind of kind of kind of kind of kind of", want: 50},
		{name: "specificity once", answer: "for example, specifically", want: 70},
		{name: "clamped high", answer: strings.Repeat("definitely for example ", 100), want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreConfidence(tt.answer); got != tt.want {
				t.Fatalf("ScoreConfidence(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestHeuristicsStayInRangeForAdversarialInput(t *testing.T) {
	inputs := []string{
		"",
		strings.Repeat("um like basically ", 3400),
		strings.Repeat("you know ", 5000),
		strings.Repeat("maybe i guess kind of sort of ", 2000),
		strings.Repeat("first. ", 10000),
		"!!!???...",
	}
	for _, in := range inputs {
		for _, grammar := range []float64{-50, 0, 70, 100, 1000} {
			if got := ScoreCommunication(in, grammar); got < 0 || got > 100 {
				t.Fatalf("ScoreCommunication out of range: %v", got)
			}
		}
		if got := ScoreConfidence(in); got < 0 || got > 100 {
			t.Fatalf("ScoreConfidence out of range: %v", got)
		}
	}
}

func TestCountPhrasesMatchesSubstrings(t *testing.T) {
	if got := countPhrases("it is likely, like i said", []string{"like"}); got != 2 {
		t.Fatalf("expected substring counting to find 2, got %d", got)
	}
}
