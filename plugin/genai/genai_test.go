package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Contents          []Turn `json:"contents"`
	SystemInstruction struct {
		Parts []Part `json:"parts"`
	} `json:"systemInstruction"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func newModelServer(t *testing.T, replies ...string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recordedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		reply := ""
		if len(requests)-1 < len(replies) {
			reply = replies[len(requests)-1]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": reply}}}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestStartChatRejectsModelFirstHistory(t *testing.T) {
	c := NewClient("key", "gemini-2.5-flash")
	_, err := c.StartChat([]Turn{
		{Role: RoleModel, Parts: []Part{{Text: "Hello!"}}},
	}, "be nice")
	require.ErrorIs(t, err, ErrInvalidHistory)
}

func TestStartChatAcceptsUserFirstOrEmptyHistory(t *testing.T) {
	c := NewClient("key", "gemini-2.5-flash")

	_, err := c.StartChat(nil, "be nice")
	require.NoError(t, err)

	_, err = c.StartChat([]Turn{
		{Role: RoleUser, Parts: []Part{{Text: "Hi"}}},
		{Role: RoleModel, Parts: []Part{{Text: "Hello!"}}},
	}, "be nice")
	require.NoError(t, err)
}

func TestSendAccumulatesTranscript(t *testing.T) {
	srv, requests := newModelServer(t, "first reply", "second reply")
	c := NewClient("key", "gemini-2.5-flash", WithBaseURL(srv.URL))

	session, err := c.StartChat([]Turn{
		{Role: RoleUser, Parts: []Part{{Text: "Hi"}}},
		{Role: RoleModel, Parts: []Part{{Text: "Hello!"}}},
	}, "system prompt")
	require.NoError(t, err)

	reply, err := session.Send(context.Background(), "book a table")
	require.NoError(t, err)
	assert.Equal(t, "first reply", reply)

	reply, err = session.Send(context.Background(), "tool result")
	require.NoError(t, err)
	assert.Equal(t, "second reply", reply)

	require.Len(t, *requests, 2)
	first := (*requests)[0]
	assert.Len(t, first.Contents, 3)
	assert.Equal(t, "system prompt", first.SystemInstruction.Parts[0].Text)
	assert.Equal(t, 500, first.GenerationConfig.MaxOutputTokens)

	// Second request replays history, the first exchange and the new message.
	second := (*requests)[1]
	require.Len(t, second.Contents, 5)
	assert.Equal(t, RoleModel, second.Contents[3].Role)
	assert.Equal(t, "first reply", second.Contents[3].Parts[0].Text)
	assert.Equal(t, "tool result", second.Contents[4].Parts[0].Text)
}

func TestSendModelFailures(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		t.Cleanup(srv.Close)

		c := NewClient("key", "gemini-2.5-flash", WithBaseURL(srv.URL))
		session, err := c.StartChat(nil, "")
		require.NoError(t, err)
		_, err = session.Send(context.Background(), "hello")
		require.ErrorIs(t, err, ErrModelUnavailable)
	})

	t.Run("no candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		t.Cleanup(srv.Close)

		c := NewClient("key", "gemini-2.5-flash", WithBaseURL(srv.URL))
		session, err := c.StartChat(nil, "")
		require.NoError(t, err)
		_, err = session.Send(context.Background(), "hello")
		require.ErrorIs(t, err, ErrModelUnavailable)
	})

	t.Run("unreachable server", func(t *testing.T) {
		c := NewClient("key", "gemini-2.5-flash", WithBaseURL("http://127.0.0.1:1"))
		session, err := c.StartChat(nil, "")
		require.NoError(t, err)
		_, err = session.Send(context.Background(), "hello")
		require.ErrorIs(t, err, ErrModelUnavailable)
	})
}
