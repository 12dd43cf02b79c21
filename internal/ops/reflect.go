package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"lifequest/internal/config"
	"lifequest/internal/db"
	"lifequest/internal/engine"
	"lifequest/internal/errors"
	"lifequest/internal/llm"
	"lifequest/internal/profile"
	"lifequest/internal/token"
)

// ReflectInput contains parameters for the Reflect operation.
type ReflectInput struct {
	Text string // required
}

// ReflectOutput contains the result of the Reflect operation.
type ReflectOutput struct {
	ID               string                    `json:"id"`
	Analysis         string                    `json:"analysis"`
	AttributeChanges []profile.AttributeChange `json:"attributeChanges"`
	Rewards          []token.Reward            `json:"rewards,omitempty"`
	Tokens           int                       `json:"tokens"`
	Streak           int                       `json:"streak"`
	TotalPrompts     int                       `json:"totalPrompts"`
}

// Reflect runs a paid reflection: it charges the profile, sends the journal
// text to the provider, applies the returned attribute changes, and records
// the exchange in history.
//
// The charged balance (spend plus any daily/streak/first-time rewards) is
// persisted before the provider call. A provider failure after that point is
// not refunded; the error is returned as-is so the caller can retry when
// transient.
func Reflect(ctx context.Context, database *sql.DB, cfg *config.Config, client llm.Client, input ReflectInput) (*ReflectOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.NewMissingInput("text")
	}

	p, err := db.LoadProfile(database)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	charged, rewards, err := engine.ChargeReflection(p, now)
	if err != nil {
		return nil, err
	}
	if err := db.SaveProfile(database, charged); err != nil {
		return nil, err
	}

	raw, err := client.Complete(ctx, llm.BuildReflectionRequest(text))
	if err != nil {
		return nil, err
	}
	result, err := llm.ParseReflection(raw)
	if err != nil {
		return nil, err
	}

	settled := engine.SettleReflection(charged, result.AttributeChanges, now)
	if err := db.SaveProfile(database, settled); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	record := profile.PromptResponse{
		ID:               id,
		Prompt:           text,
		Analysis:         result.Analysis,
		AttributeChanges: result.AttributeChanges,
		Timestamp:        now,
		Type:             profile.TypeReflection,
	}
	if err := db.InsertHistory(database, record, cfg.HistoryLimit); err != nil {
		return nil, err
	}

	return &ReflectOutput{
		ID:               id,
		Analysis:         result.Analysis,
		AttributeChanges: result.AttributeChanges,
		Rewards:          rewards,
		Tokens:           settled.Tokens,
		Streak:           settled.Streak,
		TotalPrompts:     settled.TotalPrompts,
	}, nil
}
