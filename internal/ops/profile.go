package ops

import (
	"database/sql"
	"strings"

	"lifequest/internal/attr"
	"lifequest/internal/db"
	"lifequest/internal/errors"
	"lifequest/internal/profile"
	"lifequest/internal/token"
)

// AttributeView is an attribute with its derived level label.
type AttributeView struct {
	attr.Attribute
	Level string `json:"level"`
}

// ProfileOutput contains the result of the Profile operation.
type ProfileOutput struct {
	Attributes        []AttributeView `json:"attributes"`
	TotalPrompts      int             `json:"totalPrompts"`
	Streak            int             `json:"streak"`
	CharacterName     string          `json:"characterName,omitempty"`
	IsFirstTime       bool            `json:"isFirstTime"`
	Tokens            int             `json:"tokens"`
	TotalTokensEarned int             `json:"totalTokensEarned"`
	TotalTokensSpent  int             `json:"totalTokensSpent"`
	StatusMessage     string          `json:"statusMessage"`
	StatusColor       string          `json:"statusColor"`
}

// Profile returns the current profile with derived attribute levels and the
// token status message.
func Profile(database *sql.DB) (*ProfileOutput, error) {
	p, err := db.LoadProfile(database)
	if err != nil {
		return nil, err
	}
	return profileOutput(p), nil
}

func profileOutput(p profile.UserProfile) *ProfileOutput {
	views := make([]AttributeView, len(p.Attributes))
	for i, a := range p.Attributes {
		views[i] = AttributeView{Attribute: a, Level: attr.Level(a.Value)}
	}
	message, color := token.StatusMessage(p.Tokens)
	return &ProfileOutput{
		Attributes:        views,
		TotalPrompts:      p.TotalPrompts,
		Streak:            p.Streak,
		CharacterName:     p.CharacterName,
		IsFirstTime:       p.IsFirstTime,
		Tokens:            p.Tokens,
		TotalTokensEarned: p.TotalTokensEarned,
		TotalTokensSpent:  p.TotalTokensSpent,
		StatusMessage:     message,
		StatusColor:       color,
	}
}

// SetNameInput contains parameters for the SetName operation.
type SetNameInput struct {
	Name string // required
}

// SetNameOutput contains the result of the SetName operation.
type SetNameOutput struct {
	CharacterName string `json:"characterName"`
}

// SetName sets the character's display name. Choosing a name completes
// first-time setup, so the flag clears here as well as on first reflection.
func SetName(database *sql.DB, input SetNameInput) (*SetNameOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewMissingInput("name")
	}

	p, err := db.LoadProfile(database)
	if err != nil {
		return nil, err
	}
	p.CharacterName = name
	p.IsFirstTime = false
	if err := db.SaveProfile(database, p); err != nil {
		return nil, err
	}
	return &SetNameOutput{CharacterName: name}, nil
}
