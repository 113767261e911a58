package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ScoreTag is the delimiter pair the scoring prompts ask for.
const ScoreTag = "SCORE"

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// TaggedScore extracts the number between <tag> and </tag>, strips every character that is
// not a digit or a dot, and clamps the result to [0,100].
func TaggedScore(raw, tag string) (float64, error) {
	inner, ok := Between(raw, "<"+tag+">", "</"+tag+">")
	if !ok {
		return 0, &ParseError{Kind: KindScore, Reason: "missing <" + tag + "> tag"}
	}
	cleaned := nonNumeric.ReplaceAllString(strings.TrimSpace(inner), "")
	if cleaned == "" {
		return 0, &ParseError{Kind: KindScore, Reason: "no digits inside tag"}
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, &ParseError{Kind: KindScore, Reason: "not a number: " + cleaned}
	}
	return ClampScore(val), nil
}

// ClampScore bounds v to [0,100]. NaN maps to 0.
func ClampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Between returns the text between the first open marker and the next close marker.
func Between(raw, open, close string) (string, bool) {
	start := strings.Index(raw, open)
	if start < 0 {
		return "", false
	}
	rest := raw[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
