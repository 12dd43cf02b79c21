// Package profile defines the user profile and history record types.
// Exactly one profile exists per installation; it is created with defaults
// on first access and only ever mutated by the engine package.
package profile

import (
	"time"

	"lifequest/internal/attr"
)

// Starting token grant for a new profile.
const (
	InitialTokens = 30
)

// HistoryCap is the maximum number of history records retained.
// The oldest records are evicted on overflow; ordering is most-recent-first.
const HistoryCap = 100

// Record types for PromptResponse.
const (
	TypeReflection        = "reflection"
	TypeCharacterAnalysis = "character_analysis"
)

// UserProfile is the single per-device profile.
// Invariant: Tokens == TotalTokensEarned - TotalTokensSpent after every
// mutation.
type UserProfile struct {
	Attributes        []attr.Attribute `json:"attributes"`
	TotalPrompts      int              `json:"totalPrompts"`
	Streak            int              `json:"streak"`
	LastPromptDate    *time.Time       `json:"lastPromptDate"`
	CharacterName     string           `json:"characterName,omitempty"`
	IsFirstTime       bool             `json:"isFirstTime"`
	Tokens            int              `json:"tokens"`
	TotalTokensEarned int              `json:"totalTokensEarned"`
	TotalTokensSpent  int              `json:"totalTokensSpent"`
}

// New returns a fresh profile with default attributes and the starting
// token grant.
func New() UserProfile {
	return UserProfile{
		Attributes:        attr.Defaults(),
		IsFirstTime:       true,
		Tokens:            InitialTokens,
		TotalTokensEarned: InitialTokens,
	}
}

// Clone returns a deep copy of the profile. The engine mutates copies only,
// so a failed update never leaves a half-applied profile behind.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Attributes = make([]attr.Attribute, len(p.Attributes))
	copy(out.Attributes, p.Attributes)
	if p.LastPromptDate != nil {
		d := *p.LastPromptDate
		out.LastPromptDate = &d
	}
	return out
}

// Attribute returns a pointer to the attribute with the given id, or nil if
// the id is unknown.
func (p *UserProfile) Attribute(id string) *attr.Attribute {
	for i := range p.Attributes {
		if p.Attributes[i].ID == id {
			return &p.Attributes[i]
		}
	}
	return nil
}

// AttributeChange is a single signed delta produced by one analysis call.
// Change is expected in [-5, +5]; entries naming unknown attributes are
// inert and skipped at application time.
type AttributeChange struct {
	Attribute string `json:"attribute"`
	Change    int    `json:"change"`
	Reason    string `json:"reason"`
}

// PromptResponse is an immutable history record.
type PromptResponse struct {
	ID                string             `json:"id"`
	Prompt            string             `json:"prompt"`
	Analysis          string             `json:"analysis"`
	AttributeChanges  []AttributeChange  `json:"attributeChanges"`
	Timestamp         time.Time          `json:"timestamp"`
	Type              string             `json:"type"`
	CharacterAnalysis *CharacterAnalysis `json:"characterAnalysis,omitempty"`
}

// TraitInsight pairs an attribute id with an insight about it.
type TraitInsight struct {
	Attribute string `json:"attribute"`
	Insight   string `json:"insight"`
}

// GrowthArea pairs an attribute id with an improvement suggestion.
type GrowthArea struct {
	Attribute  string `json:"attribute"`
	Suggestion string `json:"suggestion"`
}

// CharacterAnalysis is the richer personality summary produced by the
// character-analysis flow. DominantTraits holds three entries by convention,
// not enforcement.
type CharacterAnalysis struct {
	Archetype           string         `json:"archetype"`
	DominantTraits      []TraitInsight `json:"dominantTraits"`
	GrowthAreas         []GrowthArea   `json:"growthAreas"`
	PersonalityInsights string         `json:"personalityInsights"`
	CharacterEvolution  string         `json:"characterEvolution"`
	Strengths           []string       `json:"strengths"`
	LifePhilosophy      string         `json:"lifePhilosophy"`
	CharacterQuote      string         `json:"characterQuote"`
}
