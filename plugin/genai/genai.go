// Package genai wraps the generative language API's multi-turn conversation
// primitive behind a minimal start-chat/send interface.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// maxOutputTokens bounds each model reply; voice replies are short.
	maxOutputTokens = 500
)

// Conversation roles. The API requires the first content entry of a chat to
// be user-authored.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

var (
	// ErrInvalidHistory means the caller seeded a chat whose first turn is
	// model-authored (the leading greeting must be filtered out first).
	ErrInvalidHistory = errors.New("invalid history: first turn must be authored by the user")

	// ErrModelUnavailable means the upstream model call failed; callers should
	// surface a generic failure rather than retry.
	ErrModelUnavailable = errors.New("model unavailable")
)

// Part is one text segment of a turn.
type Part struct {
	Text string `json:"text"`
}

// Turn is one message in a conversation, oldest first in a history slice.
type Turn struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Client calls the generateContent endpoint over plain HTTP.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a client for the given model.
func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session is one live chat with the model, scoped to a single request. Each
// Send appends to the transcript, so a follow-up message carries the full
// context of earlier turns. Not safe for concurrent use.
type Session struct {
	client            *Client
	systemInstruction string
	contents          []Turn
}

// StartChat opens a session seeded with history and a system instruction.
// Fails with ErrInvalidHistory when the first history entry is not
// user-authored.
func (c *Client) StartChat(history []Turn, systemInstruction string) (*Session, error) {
	if len(history) > 0 && history[0].Role != RoleUser {
		return nil, ErrInvalidHistory
	}
	contents := make([]Turn, len(history))
	copy(contents, history)
	return &Session{
		client:            c,
		systemInstruction: systemInstruction,
		contents:          contents,
	}, nil
}

// Send appends text as a user turn, requests a completion and returns the
// model's text reply. The reply is appended to the transcript before
// returning. Failures wrap ErrModelUnavailable; there is no automatic retry.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	s.contents = append(s.contents, Turn{Role: RoleUser, Parts: []Part{{Text: text}}})

	reqBody := map[string]any{
		"contents": s.contents,
		"systemInstruction": map[string]any{
			"parts": []Part{{Text: s.systemInstruction}},
		},
		"generationConfig": map[string]any{
			"maxOutputTokens": maxOutputTokens,
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.client.baseURL, s.client.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", s.client.apiKey)

	resp, err := s.client.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(ErrModelUnavailable, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(ErrModelUnavailable, "model API returned status %d", resp.StatusCode)
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []Part `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", errors.Wrap(ErrModelUnavailable, "failed to decode model response")
	}
	if len(apiResp.Candidates) == 0 {
		return "", errors.Wrap(ErrModelUnavailable, "empty response from model")
	}

	var sb strings.Builder
	for _, p := range apiResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	reply := sb.String()

	s.contents = append(s.contents, Turn{Role: RoleModel, Parts: []Part{{Text: reply}}})
	return reply, nil
}
