package llm

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"lifequest/internal/config"
	"lifequest/internal/errors"
)

// CompletionRequest is a single system+user chat completion call.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Client is the minimal completion surface the ops layer depends on.
// Implementations must not retry; retry policy belongs to the caller.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIClient speaks the OpenAI-compatible chat completions API.
type OpenAIClient struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient constructs a provider client. Fails fast with
// NotConfigured when the key is empty (absent or placeholder), before any
// network activity.
func NewOpenAIClient(cfg *config.Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.NewNotConfigured()
	}
	return &OpenAIClient{
		model:   cfg.Model,
		apiKey:  apiKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}, nil
}

// chatMessage is one entry in the messages array.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete performs one chat completion call and returns the raw completion
// text. Status mapping: 401 unauthorized (fatal), 429 rate-limited
// (transient), any other non-2xx a provider error with status and body.
// Timeouts surface as rate-limited-equivalent transient failures.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	})
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", errors.NewRateLimited()
		}
		return "", errors.NewInternal(fmt.Errorf("provider request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return "", errors.NewUnauthorized()
		case http.StatusTooManyRequests:
			return "", errors.NewRateLimited()
		default:
			return "", errors.NewProvider(resp.StatusCode, string(respBody))
		}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.NewInternal(fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", errors.NewInternal(stderrors.New("unexpected provider response format: no choices"))
	}

	return parsed.Choices[0].Message.Content, nil
}

// isTimeout reports whether the transport error is a timeout or context
// deadline, which the caller treats as transient.
func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
