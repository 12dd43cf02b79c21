package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"lifequest/internal/profile"
)

// Sampling parameters per flow. The analysis flow runs warmer and longer
// because its output is narrative rather than a tight delta list.
const (
	reflectionTemperature = 0.7
	reflectionMaxTokens   = 1000
	analysisTemperature   = 0.8
	analysisMaxTokens     = 1500
)

// recentWindow is how many history entries feed the character analysis.
const recentWindow = 10

// languageSampleBytes caps the prompt excerpt used for language detection.
const languageSampleBytes = 500

// truncateRunes cuts s to at most n bytes without splitting a rune, backing
// up to the nearest rune start.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

const reflectionSystemPrompt = `You are a life coach analyzing daily activities to adjust RPG-style character attributes.

Analyze the user's daily activities and provide:
1. A detailed analysis of their day (2-3 sentences)
2. Attribute changes with reasons

The 10 attributes are:
- Vitality: Physical health, energy, stamina
- Discipline: Self-control, consistency, dedication
- Creativity: Imagination, innovation, artistic expression
- Curiosity: Desire to learn, explore, understand
- Empathy: Understanding others' feelings
- Sociality: Social skills, connection with others
- Resilience: Ability to recover from setbacks
- Courage: Bravery to face challenges, take risks
- Wisdom: Deep understanding, good judgment
- Integrity: Honesty, moral principles, authenticity

For each relevant attribute, provide a change between -5 and +5 points with a clear reason.

Respond in JSON format:
{
  "analysis": "Your detailed analysis...",
  "attributeChanges": [
    {
      "attribute": "vitality",
      "change": 2,
      "reason": "Exercise increases physical health and energy"
    }
  ]
}`

// BuildReflectionRequest constructs the completion request for a daily
// reflection.
func BuildReflectionRequest(text string) CompletionRequest {
	return CompletionRequest{
		System:      reflectionSystemPrompt,
		User:        text,
		Temperature: reflectionTemperature,
		MaxTokens:   reflectionMaxTokens,
	}
}

// recentActivity is the compact history form embedded in the analysis
// prompt.
type recentActivity struct {
	Prompt   string `json:"prompt"`
	Analysis string `json:"analysis"`
	Changes  string `json:"changes"`
}

// BuildAnalysisRequest constructs the completion request for a character
// analysis. It embeds the attribute summary, the last ten history entries,
// and an instruction to answer in the dominant language of the user's
// recent prompts.
func BuildAnalysisRequest(p profile.UserProfile, history []profile.PromptResponse) CompletionRequest {
	if len(history) > recentWindow {
		history = history[:recentWindow]
	}

	var attrLines []string
	for _, a := range p.Attributes {
		attrLines = append(attrLines, fmt.Sprintf("%s: %d (%s)", a.Name, a.Value, a.Description))
	}

	activities := make([]recentActivity, 0, len(history))
	var promptTexts []string
	for _, h := range history {
		var parts []string
		for _, c := range h.AttributeChanges {
			sign := ""
			if c.Change > 0 {
				sign = "+"
			}
			parts = append(parts, fmt.Sprintf("%s: %s%d (%s)", c.Attribute, sign, c.Change, c.Reason))
		}
		activities = append(activities, recentActivity{
			Prompt:   h.Prompt,
			Analysis: h.Analysis,
			Changes:  strings.Join(parts, ", "),
		})
		promptTexts = append(promptTexts, h.Prompt)
	}

	userPrompts := strings.Join(promptTexts, " ")
	languageInstruction := "Respond in English as default."
	if userPrompts != "" {
		sample := truncateRunes(userPrompts, languageSampleBytes)
		languageInstruction = fmt.Sprintf(
			"Based on the user's chat history, detect their primary language and respond in that language. User's recent prompts: %q...", sample)
	}

	name := p.CharacterName
	if name == "" {
		name = "Unnamed"
	}

	system := fmt.Sprintf(`You are a character analyst specializing in RPG-style personality assessment. Analyze the user's character based on their attribute values and recent activity history.

CRITICAL: %s

LANGUAGE INSTRUCTION: Analyze the language used in the user's chat history and provide the ENTIRE analysis in that same language. If the user writes in Spanish, respond in Spanish. If they write in Japanese, respond in Japanese. Maintain the same language throughout the entire response.

Current Attributes:
%s

Character Stats:
- Total Prompts: %d
- Current Streak: %d days
- Character Name: %s

Provide a comprehensive character analysis including:

1. Character Archetype: what type of character they are (e.g. "The Balanced Explorer", "The Creative Warrior")
2. Dominant Traits: the 3 attributes that define them most strongly and what this reveals
3. Growth Areas: which attributes could use development and specific suggestions
4. Personality Insights: deep analysis based on attribute patterns and activity history
5. Character Evolution: how their character has been developing recently
6. Strengths: what makes this character unique and powerful
7. Life Philosophy: what their attribute balance suggests about their approach to life
8. Character Quote: a personalized quote that captures their essence

Keep the analysis engaging, insightful, and motivational. Use RPG/fantasy language while remaining practical and applicable to real life.

Respond in JSON format:
{
  "archetype": "Character archetype name",
  "dominantTraits": [
    {"attribute": "attribute_id", "insight": "What this reveals about them"}
  ],
  "growthAreas": [
    {"attribute": "attribute_id", "suggestion": "Specific improvement suggestion"}
  ],
  "personalityInsights": "Deep personality analysis paragraph",
  "characterEvolution": "How they've been developing",
  "strengths": ["List of key strengths"],
  "lifePhilosophy": "Their approach to life based on attributes",
  "characterQuote": "Personalized inspirational quote"
}`,
		languageInstruction,
		strings.Join(attrLines, "\n"),
		p.TotalPrompts,
		p.Streak,
		name,
	)

	activitiesJSON, _ := json.Marshal(activities)
	user := fmt.Sprintf(
		"Analyze this character and respond in the same language as their chat history. Recent activities: %s",
		activitiesJSON)

	return CompletionRequest{
		System:      system,
		User:        user,
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	}
}
