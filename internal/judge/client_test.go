package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Complete(t *testing.T) {
	t.Run("returns completion content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Zero(t, req.Temperature)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": `{"is_eligible": true}`}},
				},
			})
		}))
		defer srv.Close()

		client := NewOpenAIClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
		got, err := client.Complete(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Equal(t, `{"is_eligible": true}`, got)
	})

	t.Run("429 maps to RateLimitError with retry after", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewOpenAIClient(ClientConfig{BaseURL: srv.URL, Model: "m"})
		_, err := client.Complete(context.Background(), "s", "u")
		require.Error(t, err)

		var rle *RateLimitError
		require.ErrorAs(t, err, &rle)
		assert.Equal(t, 30*time.Second, rle.RetryAfter)
		assert.True(t, IsRateLimit(err))
	})

	t.Run("non-200 is a plain error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewOpenAIClient(ClientConfig{BaseURL: srv.URL, Model: "m"})
		_, err := client.Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.False(t, IsRateLimit(err))
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer srv.Close()

		client := NewOpenAIClient(ClientConfig{BaseURL: srv.URL, Model: "m"})
		_, err := client.Complete(context.Background(), "s", "u")
		require.Error(t, err)
	})
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "surrounded by prose", in: `before {"a":1} after`, want: `{"a":1}`},
		{name: "nested objects", in: `{"a":{"b":2}}`, want: `{"a":{"b":2}}`},
		{name: "brace inside string", in: `{"a":"}"}`, want: `{"a":"}"}`},
		{name: "escaped quote inside string", in: `{"a":"\"}"}`, want: `{"a":"\"}"}`},
		{name: "first of two objects", in: `{"a":1} {"b":2}`, want: `{"a":1}`},
		{name: "no object", in: "no json here", want: ""},
		{name: "unbalanced", in: `{"a":1`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstJSONObject(tt.in))
		})
	}
}
