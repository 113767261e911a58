package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Layer identifies which decoding strategy produced a payload.
type Layer int

const (
	LayerNone Layer = iota
	LayerStrict
	LayerFenced
	LayerTagged
	LayerRepaired
)

func (l Layer) String() string {
	switch l {
	case LayerStrict:
		return "strict"
	case LayerFenced:
		return "fenced"
	case LayerTagged:
		return "tagged"
	case LayerRepaired:
		return "repaired"
	default:
		return "none"
	}
}

// JSONTag is the delimiter pair the question-generation prompt asks for.
const JSONTag = "JSON"

const reasonNoLayer = "no layer produced valid JSON"

var (
	errInvalidJSON  = errors.New("invalid json")
	errMissingField = errors.New("required field missing")
	fencePattern    = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)```")
)

// DecodeJSON decodes raw oracle text into v, trying each layer in order:
// the whole text, a fenced code block, a <JSON> tagged block, then Repair
// applied to the outermost object. The first layer that decodes wins.
func DecodeJSON(raw string, v any) (Layer, error) {
	return decodeLayers(raw, func(s string) error { return Strict(s, v) })
}

// DecodeField is DecodeJSON for payloads that must carry an array member named field.
// A layer whose JSON lacks the member is searched one level down, so a reply such as
// {"result": {"questions": [...]}} decodes like {"questions": [...]}. Candidates with
// no such member anywhere are rejected and the next layer is tried.
func DecodeField(raw, field string, v any) (Layer, error) {
	layer, err := decodeLayers(raw, func(s string) error {
		payload, ok := WithArrayField(s, field)
		if !ok {
			return errMissingField
		}
		return json.Unmarshal([]byte(payload), v)
	})
	var pe *ParseError
	if errors.As(err, &pe) && pe.Reason == reasonNoLayer {
		pe.Reason = fmt.Sprintf("no layer produced JSON with a %q array", field)
	}
	return layer, err
}

// WithArrayField returns the object in s that holds an array named field: s itself,
// or the first object or array element directly inside it.
func WithArrayField(s, field string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return "", false
	}
	doc := gjson.Parse(s)
	if doc.IsObject() && doc.Get(gjson.Escape(field)).IsArray() {
		return doc.Raw, true
	}
	found := ""
	doc.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() && value.Get(gjson.Escape(field)).IsArray() {
			found = value.Raw
			return false
		}
		return true
	})
	return found, found != ""
}

func decodeLayers(raw string, accept func(string) error) (Layer, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return LayerNone, &ParseError{Kind: KindJSON, Reason: "empty output"}
	}
	if accept(text) == nil {
		return LayerStrict, nil
	}
	if block, ok := FencedBlock(text); ok && accept(block) == nil {
		return LayerFenced, nil
	}
	tagged, hasTag := Between(text, "<"+JSONTag+">", "</"+JSONTag+">")
	if hasTag && accept(strings.TrimSpace(tagged)) == nil {
		return LayerTagged, nil
	}

	candidate := text
	if hasTag {
		candidate = tagged
	} else if block, ok := FencedBlock(text); ok {
		candidate = block
	}
	if obj, ok := OutermostObject(candidate); ok {
		candidate = obj
	}
	for _, repaired := range RepairSteps(candidate) {
		if accept(repaired) == nil {
			return LayerRepaired, nil
		}
	}
	return LayerNone, &ParseError{Kind: KindJSON, Reason: reasonNoLayer}
}

// Strict decodes s as a single JSON document.
func Strict(s string, v any) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errInvalidJSON
	}
	return json.Unmarshal([]byte(s), v)
}

// FencedBlock returns the contents of the first ``` fenced block.
func FencedBlock(s string) (string, bool) {
	m := fencePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	inner := strings.TrimSpace(m[1])
	return inner, inner != ""
}

// OutermostObject returns the span from the first '{' to the last '}'.
func OutermostObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
