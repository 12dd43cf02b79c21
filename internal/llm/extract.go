package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"lifequest/internal/errors"
	"lifequest/internal/profile"
)

// ReflectionResult is the validated payload of a reflection completion.
type ReflectionResult struct {
	Analysis         string                    `json:"analysis"`
	AttributeChanges []profile.AttributeChange `json:"attributeChanges"`
}

// codeBlockRe matches the first fenced code block, optionally tagged json.
var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON isolates the JSON object inside a raw completion. Models wrap
// output in code fences and surrounding prose; this strips both. The result
// is the candidate string for parsing, not guaranteed valid JSON.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if m := codeBlockRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end != -1 && end > start {
		s = s[start : end+1]
	}

	return s
}

// The repair pass is a bounded, ordered list of textual substitutions for
// the four malformations observed from the model. It is intentionally not a
// tolerant JSON parser.
var repairs = []struct {
	re   *regexp.Regexp
	repl string
}{
	// trailing commas before } and ]
	{regexp.MustCompile(`,\s*}`), "}"},
	{regexp.MustCompile(`,\s*]`), "]"},
	// unquoted object keys
	{regexp.MustCompile(`([{,]\s*)(\w+):`), `$1"$2":`},
	// single-quoted values
	{regexp.MustCompile(`:\s*'([^']*)'`), `: "$1"`},
	// leading + on numbers ("+3")
	{regexp.MustCompile(`\+(\d+)`), `$1`},
}

// RepairJSON applies the repair substitutions once, in order.
func RepairJSON(s string) string {
	for _, r := range repairs {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// parseObject extracts, strictly parses, and on failure repairs and
// re-parses exactly once. Returns MalformedResponse carrying the raw text
// when both attempts fail.
func parseObject(raw string, v any) error {
	candidate := ExtractJSON(raw)

	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	if err := json.Unmarshal([]byte(RepairJSON(candidate)), v); err != nil {
		return errors.NewMalformedResponse(raw)
	}
	return nil
}

// ParseReflection turns a raw reflection completion into a validated
// ReflectionResult. Required fields: analysis, attributeChanges. An empty
// change list is valid; an absent one is not.
func ParseReflection(raw string) (*ReflectionResult, error) {
	var payload struct {
		Analysis         *string                    `json:"analysis"`
		AttributeChanges *[]profile.AttributeChange `json:"attributeChanges"`
	}
	if err := parseObject(raw, &payload); err != nil {
		return nil, err
	}

	var missing []string
	if payload.Analysis == nil || *payload.Analysis == "" {
		missing = append(missing, "analysis")
	}
	if payload.AttributeChanges == nil {
		missing = append(missing, "attributeChanges")
	}
	if len(missing) > 0 {
		return nil, errors.NewInvalidResponseStructure(missing, payload)
	}

	return &ReflectionResult{
		Analysis:         *payload.Analysis,
		AttributeChanges: *payload.AttributeChanges,
	}, nil
}

// ParseCharacterAnalysis turns a raw analysis completion into a validated
// CharacterAnalysis. Required fields: archetype, personalityInsights.
func ParseCharacterAnalysis(raw string) (*profile.CharacterAnalysis, error) {
	var ca profile.CharacterAnalysis
	if err := parseObject(raw, &ca); err != nil {
		return nil, err
	}

	var missing []string
	if ca.Archetype == "" {
		missing = append(missing, "archetype")
	}
	if ca.PersonalityInsights == "" {
		missing = append(missing, "personalityInsights")
	}
	if len(missing) > 0 {
		return nil, errors.NewInvalidResponseStructure(missing, ca)
	}

	return &ca, nil
}
