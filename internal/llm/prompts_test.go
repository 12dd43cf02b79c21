package llm

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"lifequest/internal/profile"
)

func TestBuildReflectionRequest(t *testing.T) {
	req := BuildReflectionRequest("ran 5k and read a book")

	if req.Temperature != 0.7 || req.MaxTokens != 1000 {
		t.Errorf("sampling = (%v, %d), want (0.7, 1000)", req.Temperature, req.MaxTokens)
	}
	if req.User != "ran 5k and read a book" {
		t.Errorf("User = %q", req.User)
	}
	// The system prompt names all ten attributes and the output contract.
	for _, name := range []string{"Vitality", "Discipline", "Creativity", "Curiosity", "Empathy",
		"Sociality", "Resilience", "Courage", "Wisdom", "Integrity"} {
		if !strings.Contains(req.System, name) {
			t.Errorf("system prompt missing attribute %q", name)
		}
	}
	if !strings.Contains(req.System, `"attributeChanges"`) {
		t.Error("system prompt missing the JSON output contract")
	}
	if !strings.Contains(req.System, "-5 and +5") {
		t.Error("system prompt missing the delta bounds")
	}
}

func historyEntry(prompt string, ts time.Time) profile.PromptResponse {
	return profile.PromptResponse{
		ID:        "01TEST",
		Prompt:    prompt,
		Analysis:  "analysis of " + prompt,
		Timestamp: ts,
		Type:      profile.TypeReflection,
		AttributeChanges: []profile.AttributeChange{
			{Attribute: "vitality", Change: 2, Reason: "movement"},
		},
	}
}

func TestBuildAnalysisRequest(t *testing.T) {
	p := profile.New()
	p.CharacterName = "Aria"
	p.TotalPrompts = 12
	p.Streak = 4

	now := time.Now()
	history := []profile.PromptResponse{
		historyEntry("hoy corrí por la mañana", now),
		historyEntry("leí un libro", now.Add(-24*time.Hour)),
	}

	req := BuildAnalysisRequest(p, history)

	if req.Temperature != 0.8 || req.MaxTokens != 1500 {
		t.Errorf("sampling = (%v, %d), want (0.8, 1500)", req.Temperature, req.MaxTokens)
	}
	if !strings.Contains(req.System, "Aria") {
		t.Error("system prompt missing character name")
	}
	if !strings.Contains(req.System, "Total Prompts: 12") {
		t.Error("system prompt missing prompt count")
	}
	if !strings.Contains(req.System, "Current Streak: 4 days") {
		t.Error("system prompt missing streak")
	}
	// Attribute summary lists value and description.
	if !strings.Contains(req.System, "Vitality: 10") {
		t.Error("system prompt missing attribute summary")
	}
	// Language matching draws on the user's recent prompts.
	if !strings.Contains(req.System, "hoy corrí") {
		t.Error("system prompt missing language-detection sample")
	}
	if !strings.Contains(req.System, `"archetype"`) {
		t.Error("system prompt missing the JSON output contract")
	}
	// The user message embeds the recent activity summary.
	if !strings.Contains(req.User, "Recent activities:") || !strings.Contains(req.User, "vitality: +2") {
		t.Errorf("user message missing activity summary: %q", req.User)
	}
}

func TestBuildAnalysisRequestEmptyHistory(t *testing.T) {
	req := BuildAnalysisRequest(profile.New(), nil)
	if !strings.Contains(req.System, "Respond in English as default.") {
		t.Error("empty history should default the reply language to English")
	}
	if !strings.Contains(req.System, "Unnamed") {
		t.Error("unnamed character should render as Unnamed")
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("short", 500); got != "short" {
		t.Errorf("truncateRunes(short) = %q", got)
	}
	// A multi-byte rune straddling the cut is dropped whole.
	s := strings.Repeat("a", 499) + "日本"
	got := truncateRunes(s, 500)
	if len(got) != 499 {
		t.Errorf("len = %d, want 499", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated sample is not valid UTF-8: %q", got[490:])
	}
	if got := truncateRunes("héllo", 3); got != "hé" {
		t.Errorf("truncateRunes(héllo, 3) = %q", got)
	}
}

func TestBuildAnalysisRequestTruncatesSampleOnRuneBoundary(t *testing.T) {
	p := profile.New()
	// 166 three-byte runes is 498 bytes; one more straddles the 500-byte cap.
	long := strings.Repeat("日", 200)
	history := []profile.PromptResponse{historyEntry(long, time.Now())}

	req := BuildAnalysisRequest(p, history)
	// A torn trailing byte would surface as a \x escape in the quoted sample.
	if strings.Contains(req.System, `\x`) {
		t.Error("language sample cut mid-rune")
	}
}

func TestBuildAnalysisRequestCapsHistoryWindow(t *testing.T) {
	p := profile.New()
	var history []profile.PromptResponse
	for i := 0; i < 25; i++ {
		history = append(history, historyEntry("entry", time.Now()))
	}

	req := BuildAnalysisRequest(p, history)
	// 10 activity objects at most in the embedded summary.
	if got := strings.Count(req.User, `"prompt"`); got != 10 {
		t.Errorf("embedded %d history entries, want 10", got)
	}
}
