package ops

import (
	"context"
	"database/sql"
	"testing"

	"lifequest/internal/config"
	"lifequest/internal/db"
	"lifequest/internal/llm"
)

// scriptedClient returns canned completions in order, or a fixed error.
type scriptedClient struct {
	responses []string
	err       error
	calls     int
	lastReq   llm.CompletionRequest
}

func (c *scriptedClient) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", nil
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

const reflectionCompletion = `{
	"analysis": "A solid day of training.",
	"attributeChanges": [
		{"attribute": "vitality", "change": 2, "reason": "morning run"},
		{"attribute": "discipline", "change": 1, "reason": "kept the routine"}
	]
}`

const analysisCompletion = `{
	"archetype": "The Builder",
	"dominantTraits": [{"attribute": "discipline", "insight": "Consistency defines you."}],
	"growthAreas": [{"attribute": "sociality", "suggestion": "Reach out more."}],
	"personalityInsights": "You turn intentions into routines.",
	"characterEvolution": "Steadily compounding.",
	"strengths": ["follow-through"],
	"lifePhilosophy": "Small steps daily.",
	"characterQuote": "Keep building."
}`

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testConfig() *config.Config {
	return config.DefaultConfig()
}
