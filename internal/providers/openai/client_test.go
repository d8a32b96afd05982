// internal/providers/openai/client_test.go
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"contextual-pipeline/internal/common/config"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.OpenAIConfig{
		APIKey:      "sk-test",
		BaseURL:     server.URL,
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   1200,
		Timeout:     5000,
		MaxRetries:  maxRetries,
	}
	return NewClient(cfg, logger.NewNoOpLogger())
}

func completionJSON(content string) string {
	raw, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(raw)
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatCompletionRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, completionJSON(`{"contextual_score": 0.8}`))
	})
	client := newTestOpenAIClient(t, handler, 0)

	payload, err := client.Complete(context.Background(), "system text", "user text")

	require.NoError(t, err)
	assert.Equal(t, 0.8, payload["contextual_score"])
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "system text", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "user text", gotReq.Messages[1].Content)
}

func TestCompleteRetriesOnServerError(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, completionJSON(`{"ok": true}`))
	})
	client := newTestOpenAIClient(t, handler, 2)

	payload, err := client.Complete(context.Background(), "s", "u")

	require.NoError(t, err)
	assert.Equal(t, true, payload["ok"])
	assert.Equal(t, 2, calls)
}

func TestCompleteExhaustsRetries(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"server overloaded"}}`)
	})
	client := newTestOpenAIClient(t, handler, 1)

	_, err := client.Complete(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCompletionFailed, apperrors.CodeOf(err))
	assert.Equal(t, 2, calls)
}

func TestCompleteEmptyAPIKey(t *testing.T) {
	client := NewClient(config.OpenAIConfig{Model: "gpt-4o-mini"}, logger.NewNoOpLogger())

	_, err := client.Complete(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCompletionFailed, apperrors.CodeOf(err))
}

func TestCompleteRejectsNonJSONPayload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionJSON("this is not json"))
	})
	client := newTestOpenAIClient(t, handler, 0)

	_, err := client.Complete(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCompletionFailed, apperrors.CodeOf(err))
}

func TestCompleteEmptyChoices(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})
	client := newTestOpenAIClient(t, handler, 0)

	_, err := client.Complete(context.Background(), "s", "u")

	require.Error(t, err)
}

func TestModel(t *testing.T) {
	client := NewClient(config.OpenAIConfig{Model: "gpt-4o-mini"}, logger.NewNoOpLogger())
	assert.Equal(t, "gpt-4o-mini", client.Model())
}
