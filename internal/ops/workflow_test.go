package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lifequest/internal/db"
	"lifequest/internal/errors"
	"lifequest/internal/profile"
)

// TestFullWorkflow exercises the complete lifecycle:
// reflect → profile → analyze → history → show → set name → reset
func TestFullWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	require.NoError(t, err)
	defer database.Close()

	cfg := testConfig()
	ctx := context.Background()
	client := &scriptedClient{responses: []string{reflectionCompletion, analysisCompletion}}

	// 1. First reflection
	refOut, err := Reflect(ctx, database, cfg, client, ReflectInput{Text: "trained hard and journaled"})
	require.NoError(t, err)
	require.NotEmpty(t, refOut.ID)
	require.Equal(t, 32, refOut.Tokens) // 30 - 1 + 1 login + 2 first
	require.Equal(t, 1, refOut.Streak)
	require.Len(t, refOut.Rewards, 2)

	// 2. Profile reflects the changes
	profOut, err := Profile(database)
	require.NoError(t, err)
	require.Equal(t, 32, profOut.Tokens)
	require.False(t, profOut.IsFirstTime)
	var vitality *AttributeView
	for i := range profOut.Attributes {
		if profOut.Attributes[i].ID == "vitality" {
			vitality = &profOut.Attributes[i]
		}
	}
	require.NotNil(t, vitality)
	require.Equal(t, 12, vitality.Value)

	// 3. Character analysis
	anaOut, err := Analyze(ctx, database, cfg, client)
	require.NoError(t, err)
	require.Equal(t, "The Builder", anaOut.Analysis.Archetype)
	require.Equal(t, 27, anaOut.Tokens)

	// 4. History holds both records, newest first
	listOut, err := List(database, ListInput{})
	require.NoError(t, err)
	require.Len(t, listOut.Records, 2)
	require.Equal(t, profile.TypeCharacterAnalysis, listOut.Records[0].Type)
	require.Equal(t, profile.TypeReflection, listOut.Records[1].Type)

	// 5. Show the reflection
	shown, err := Show(database, refOut.ID)
	require.NoError(t, err)
	require.Equal(t, "trained hard and journaled", shown.Prompt)

	// 6. Name the character
	nameOut, err := SetName(database, SetNameInput{Name: "Aster"})
	require.NoError(t, err)
	require.Equal(t, "Aster", nameOut.CharacterName)

	// 7. Reset wipes everything
	resetOut, err := Reset(database)
	require.NoError(t, err)
	require.Equal(t, profile.InitialTokens, resetOut.Tokens)
	require.True(t, resetOut.IsFirstTime)
	require.Empty(t, resetOut.CharacterName)

	_, err = Show(database, refOut.ID)
	require.True(t, errors.Is(err, errors.ErrNotFound))
}
