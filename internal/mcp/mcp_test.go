package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"lifequest/internal/config"
	"lifequest/internal/db"
	"lifequest/internal/llm"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database, config.DefaultConfig()
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// cannedClient returns a fixed completion.
type cannedClient struct {
	response string
}

func (c *cannedClient) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return c.response, nil
}

// resultText extracts the text payload of the first content item.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func TestHandleReflect(t *testing.T) {
	database, cfg := testSetup(t)
	client := &cannedClient{response: `{"analysis": "good day", "attributeChanges": []}`}
	h := NewHandlers(database, cfg, client)

	result, err := h.HandleReflect(context.Background(), makeRequest(map[string]any{
		"text": "walked in the rain",
	}))
	if err != nil {
		t.Fatalf("HandleReflect: %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, result))
	}

	var payload struct {
		Analysis string `json:"analysis"`
		Tokens   int    `json:"tokens"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if payload.Analysis != "good day" {
		t.Errorf("analysis = %q", payload.Analysis)
	}
	if payload.Tokens != 32 {
		t.Errorf("tokens = %d, want 32", payload.Tokens)
	}
}

func TestHandleReflectMissingText(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg, &cannedClient{})

	result, err := h.HandleReflect(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleReflect: %v", err)
	}
	if !result.IsError {
		t.Fatal("IsError = false, want true")
	}
	if !strings.Contains(resultText(t, result), "MISSING_INPUT") {
		t.Errorf("error payload = %s", resultText(t, result))
	}
}

func TestHandleReflectNotConfigured(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg, nil)

	result, err := h.HandleReflect(context.Background(), makeRequest(map[string]any{
		"text": "anything",
	}))
	if err != nil {
		t.Fatalf("HandleReflect: %v", err)
	}
	if !result.IsError {
		t.Fatal("IsError = false, want true")
	}
	if !strings.Contains(resultText(t, result), "NOT_CONFIGURED") {
		t.Errorf("error payload = %s", resultText(t, result))
	}
}

func TestHandleProfile(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg, nil)

	result, err := h.HandleProfile(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleProfile: %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, result))
	}

	var payload struct {
		Tokens     int `json:"tokens"`
		Attributes []struct {
			ID    string `json:"id"`
			Level string `json:"level"`
		} `json:"attributes"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if payload.Tokens != 30 {
		t.Errorf("tokens = %d, want 30", payload.Tokens)
	}
	if len(payload.Attributes) != 10 {
		t.Errorf("attributes = %d, want 10", len(payload.Attributes))
	}
}

func TestHandleHistoryAndShow(t *testing.T) {
	database, cfg := testSetup(t)
	client := &cannedClient{response: `{"analysis": "noted", "attributeChanges": []}`}
	h := NewHandlers(database, cfg, client)
	ctx := context.Background()

	if _, err := h.HandleReflect(ctx, makeRequest(map[string]any{"text": "day one"})); err != nil {
		t.Fatalf("HandleReflect: %v", err)
	}

	result, err := h.HandleHistory(ctx, makeRequest(map[string]any{"limit": float64(5)}))
	if err != nil {
		t.Fatalf("HandleHistory: %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, result))
	}

	var listPayload struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &listPayload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(listPayload.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(listPayload.Records))
	}

	result, err = h.HandleShow(ctx, makeRequest(map[string]any{"id": listPayload.Records[0].ID}))
	if err != nil {
		t.Fatalf("HandleShow: %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "day one") {
		t.Errorf("show payload = %s", resultText(t, result))
	}
}

func TestHandleShowNotFound(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg, nil)

	result, err := h.HandleShow(context.Background(), makeRequest(map[string]any{"id": "missing"}))
	if err != nil {
		t.Fatalf("HandleShow: %v", err)
	}
	if !result.IsError {
		t.Fatal("IsError = false, want true")
	}
	if !strings.Contains(resultText(t, result), "NOT_FOUND") {
		t.Errorf("error payload = %s", resultText(t, result))
	}
}

func TestHandleResetRequiresConfirm(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	result, err := h.HandleReset(ctx, makeRequest(map[string]any{"confirm": false}))
	if err != nil {
		t.Fatalf("HandleReset: %v", err)
	}
	if !result.IsError {
		t.Fatal("IsError = false, want true without confirm")
	}

	result, err = h.HandleReset(ctx, makeRequest(map[string]any{"confirm": true}))
	if err != nil {
		t.Fatalf("HandleReset: %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, result))
	}
}

func TestHandleSetName(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg, nil)

	result, err := h.HandleSetName(context.Background(), makeRequest(map[string]any{"name": "Rook"}))
	if err != nil {
		t.Fatalf("HandleSetName: %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "Rook") {
		t.Errorf("payload = %s", resultText(t, result))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"quest_reflect", "quest_teleport"})
	if len(unknown) != 1 || unknown[0] != "quest_teleport" {
		t.Errorf("unknown = %v, want [quest_teleport]", unknown)
	}
}

func TestNewServerSkipsDisabled(t *testing.T) {
	database, cfg := testSetup(t)
	cfg.DisabledTools = []string{"quest_reset"}

	s := NewServer(database, cfg, nil, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}
