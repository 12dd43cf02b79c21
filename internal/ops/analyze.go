package ops

import (
	"context"
	"database/sql"
	"time"

	"lifequest/internal/config"
	"lifequest/internal/db"
	"lifequest/internal/engine"
	"lifequest/internal/llm"
	"lifequest/internal/profile"
)

// analysisHistoryWindow is the number of recent reflections given to the
// provider as context.
const analysisHistoryWindow = 10

// AnalyzeOutput contains the result of the Analyze operation.
type AnalyzeOutput struct {
	ID       string                     `json:"id"`
	Analysis *profile.CharacterAnalysis `json:"characterAnalysis"`
	Tokens   int                        `json:"tokens"`
}

// Analyze runs a paid character analysis over the profile and its recent
// reflections. Unlike Reflect it touches only the token balance: streak,
// totalPrompts, and lastPromptDate are reflection bookkeeping.
func Analyze(ctx context.Context, database *sql.DB, cfg *config.Config, client llm.Client) (*AnalyzeOutput, error) {
	p, err := db.LoadProfile(database)
	if err != nil {
		return nil, err
	}

	recent, err := db.ListHistory(database, analysisHistoryWindow, 0, profile.TypeReflection)
	if err != nil {
		return nil, err
	}

	charged, err := engine.ChargeAnalysis(p)
	if err != nil {
		return nil, err
	}
	if err := db.SaveProfile(database, charged); err != nil {
		return nil, err
	}

	raw, err := client.Complete(ctx, llm.BuildAnalysisRequest(charged, recent))
	if err != nil {
		return nil, err
	}
	analysis, err := llm.ParseCharacterAnalysis(raw)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	record := profile.PromptResponse{
		ID:                id,
		Prompt:            "Character analysis",
		Analysis:          analysis.PersonalityInsights,
		AttributeChanges:  []profile.AttributeChange{},
		Timestamp:         time.Now(),
		Type:              profile.TypeCharacterAnalysis,
		CharacterAnalysis: analysis,
	}
	if err := db.InsertHistory(database, record, cfg.HistoryLimit); err != nil {
		return nil, err
	}

	return &AnalyzeOutput{
		ID:       id,
		Analysis: analysis,
		Tokens:   charged.Tokens,
	}, nil
}
