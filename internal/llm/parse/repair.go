package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKey    = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)
	unquotedScalar = regexp.MustCompile(`(:\s*)([^"{\[\s,}\]][^,}\]]*?)(\s*[,}\]])`)
	literalScalars = map[string]struct{}{"true": {}, "false": {}, "null": {}}
)

// A repair is one bounded textual fix applied to near-JSON.
type repair struct {
	name  string
	apply func(string) string
}

var repairs = []repair{
	{name: "normalize", apply: normalizeText},
	{name: "trailing_commas", apply: func(s string) string { return trailingComma.ReplaceAllString(s, "$1") }},
	{name: "quote_keys", apply: QuoteKeys},
	{name: "quote_scalars", apply: QuoteScalars},
}

// RepairSteps returns the candidate after each cumulative repair, in order.
// DecodeJSON tries each one so a later, more invasive fix only runs when needed.
func RepairSteps(s string) []string {
	out := make([]string, 0, len(repairs))
	cur := s
	for _, r := range repairs {
		cur = r.apply(cur)
		out = append(out, cur)
	}
	return out
}

// Repair applies every repair in order.
func Repair(s string) string {
	steps := RepairSteps(s)
	return steps[len(steps)-1]
}

func normalizeText(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, `\_`, "_")
	s = strings.NewReplacer("“", `"`, "”", `"`).Replace(s)
	return strings.TrimSpace(s)
}

// QuoteKeys wraps bare object keys in double quotes.
func QuoteKeys(s string) string {
	return unquotedKey.ReplaceAllString(s, `$1"$2"$3`)
}

// QuoteScalars wraps bare scalar values in double quotes, leaving numbers and literals alone.
func QuoteScalars(s string) string {
	return unquotedScalar.ReplaceAllStringFunc(s, func(m string) string {
		parts := unquotedScalar.FindStringSubmatch(m)
		val := strings.TrimSpace(parts[2])
		if _, ok := literalScalars[val]; ok {
			return m
		}
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			return m
		}
		val = strings.Trim(val, `'`)
		return parts[1] + strconv.Quote(val) + parts[3]
	})
}
