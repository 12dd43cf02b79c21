// Package attr defines the ten fixed character attributes tracked per
// profile. Attribute identity is the lowercase slug; the set never changes
// after profile initialization, only the values move.
package attr

// InitialValue is the starting value for every attribute on a new profile.
const InitialValue = 10

// Attribute is one of the ten personality/life-stat dimensions.
type Attribute struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Value       int    `json:"value"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// definitions is the canonical attribute set, in display order.
var definitions = []Attribute{
	{ID: "vitality", Name: "Vitality", Description: "Physical health, energy, and stamina", Color: "#ff4444"},
	{ID: "discipline", Name: "Discipline", Description: "Self-control, consistency, and dedication", Color: "#4444ff"},
	{ID: "creativity", Name: "Creativity", Description: "Imagination, innovation, and artistic expression", Color: "#ff44ff"},
	{ID: "curiosity", Name: "Curiosity", Description: "Desire to learn, explore, and understand", Color: "#44ffff"},
	{ID: "empathy", Name: "Empathy", Description: "Understanding and sharing others' feelings", Color: "#ff8844"},
	{ID: "sociality", Name: "Sociality", Description: "Social skills and connection with others", Color: "#44ff44"},
	{ID: "resilience", Name: "Resilience", Description: "Ability to recover from setbacks and adapt", Color: "#8844ff"},
	{ID: "courage", Name: "Courage", Description: "Bravery to face challenges and take risks", Color: "#ff4488"},
	{ID: "wisdom", Name: "Wisdom", Description: "Deep understanding and good judgment", Color: "#ffff44"},
	{ID: "integrity", Name: "Integrity", Description: "Honesty, moral principles, and authenticity", Color: "#44ff88"},
}

// validIDs is the set of known attribute ids for O(1) lookup.
var validIDs = func() map[string]bool {
	m := make(map[string]bool, len(definitions))
	for _, d := range definitions {
		m[d.ID] = true
	}
	return m
}()

// Defaults returns a fresh copy of the ten attributes at their initial value.
func Defaults() []Attribute {
	attrs := make([]Attribute, len(definitions))
	copy(attrs, definitions)
	for i := range attrs {
		attrs[i].Value = InitialValue
	}
	return attrs
}

// ValidID reports whether id names one of the ten known attributes.
func ValidID(id string) bool {
	return validIDs[id]
}

// IDs returns the ten attribute ids in display order.
func IDs() []string {
	ids := make([]string, len(definitions))
	for i, d := range definitions {
		ids[i] = d.ID
	}
	return ids
}

// Clamp floors an attribute value at zero. There is no upper bound; the UI
// treats 100 as a soft visual ceiling only.
func Clamp(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

// Level returns the display label for an attribute value.
func Level(value int) string {
	switch {
	case value >= 80:
		return "Legendary"
	case value >= 60:
		return "Expert"
	case value >= 40:
		return "Advanced"
	case value >= 20:
		return "Intermediate"
	default:
		return "Novice"
	}
}
