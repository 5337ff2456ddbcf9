package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

func responsesBody(text string) map[string]any {
	return map[string]any{
		"output": []any{
			map[string]any{
				"type": "message",
				"role": "assistant",
				"content": []any{
					map[string]any{"type": "output_text", "text": text},
				},
			},
		},
	}
}

func TestResponsesGenerateJSONSendsSchemaAndParsesOutput(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(responsesBody(`{"question":"What is a goroutine?"}`))
	}))
	defer srv.Close()

	c, err := NewClient(logger.NewNop(), Config{BaseURL: srv.URL, APIKey: "sk-test", Model: "m1"})
	require.NoError(t, err)

	obj, err := c.GenerateJSON(context.Background(), "sys", "user", "question", map[string]any{"type": "object"})
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine?", obj["question"])

	format := got["text"].(map[string]any)["format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "question", format["name"])
	assert.Equal(t, "m1", got["model"])
}

func TestResponsesRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(responsesBody("hello"))
	}))
	defer srv.Close()

	c, err := NewClient(logger.NewNop(), Config{BaseURL: srv.URL, APIKey: "sk", MaxRetries: 2})
	require.NoError(t, err)

	text, err := c.GenerateText(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResponsesDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewClient(logger.NewNop(), Config{BaseURL: srv.URL, APIKey: "sk", MaxRetries: 3})
	require.NoError(t, err)

	_, err = c.GenerateText(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(logger.NewNop(), Config{})
	assert.Error(t, err)
}

func TestCompatGenerateJSONUsesJSONObjectMode(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"role": "assistant", "content": "```json\n{\"score\": 80}\n```"}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewCompatClient(logger.NewNop(), Config{BaseURL: srv.URL, APIKey: "gsk", Model: "llama"})
	require.NoError(t, err)

	obj, err := c.GenerateJSON(context.Background(), "grade", "answer", "grade", map[string]any{"type": "object"})
	require.NoError(t, err)
	assert.Equal(t, float64(80), obj["score"])
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	assert.Contains(t, got.Messages[0].Content, "JSON schema")
}

func TestCompatRequiresModel(t *testing.T) {
	_, err := NewCompatClient(logger.NewNop(), Config{APIKey: "gsk"})
	assert.Error(t, err)
}
