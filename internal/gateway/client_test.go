package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	return New(Config{BaseURL: url, APIKey: "test-key", Model: "test-model"})
}

func TestChatSuccess(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "El dolo es..."}}],
			"usage": {"prompt_tokens": 50, "completion_tokens": 30, "total_tokens": 80},
			"model": "test-model"
		}`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Chat(context.Background(), ChatRequest{
		Model:        "test-model",
		SystemPrompt: "Eres un asistente legal.",
		UserMessage:  "¿Qué es dolo?",
		Temperature:  0.8,
		MaxTokens:    1500,
	})
	require.NoError(t, err)
	assert.Equal(t, "El dolo es...", result.Text)
	assert.Equal(t, 80, result.TotalTokens)

	// The outbound request carries exactly two messages, system then user,
	// with the supplied sampling parameters and streaming disabled.
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, 0.8, captured.Temperature)
	assert.Equal(t, 1500, captured.MaxTokens)
	assert.False(t, captured.Stream)
}

func TestChatZeroTemperatureIsSerialized(t *testing.T) {
	var rawBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}], "usage": {"total_tokens": 1}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), ChatRequest{
		Model:       "test-model",
		UserMessage: "q",
		Temperature: 0.0,
		MaxTokens:   100,
	})
	require.NoError(t, err)
	assert.Contains(t, string(rawBody), `"temperature":0`,
		"a configured temperature of 0.0 must reach the upstream, not its default")
}

func TestChatUpstreamError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"flat error shape", 429, `{"error": "rate limited"}`, "rate limited"},
		{"nested error shape", 500, `{"error": {"message": "model overloaded", "type": "api_error"}}`, "model overloaded"},
		{"opaque body", 503, `upstream unavailable`, "upstream unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).Chat(context.Background(), ChatRequest{Model: "test-model", UserMessage: "q"})
			var gwErr *Error
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, tt.status, gwErr.Status)
			assert.Contains(t, gwErr.Message, tt.wantDetail)
		})
	}
}

func TestChatMalformedSuccessPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices": [], "usage": {"total_tokens": 10}}`},
		{"choice without message content", `{"choices": [{"index": 0}], "usage": {"total_tokens": 5}}`},
		{"missing usage", `{"choices": [{"message": {"content": "hola"}}]}`},
		{"usage without total_tokens", `{"choices": [{"message": {"content": "hola"}}], "usage": {"prompt_tokens": 5}}`},
		{"not json", `<html>gateway timeout</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).Chat(context.Background(), ChatRequest{Model: "test-model", UserMessage: "q"})
			var gwErr *Error
			require.ErrorAs(t, err, &gwErr)
		})
	}
}

func TestChatTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := testClient(srv.URL).Chat(context.Background(), ChatRequest{Model: "test-model", UserMessage: "q"})
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, 0, gwErr.Status, "transport failures carry no upstream status")
}

func TestChatDiagnosticBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(strings.Repeat("x", 10_000)))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), ChatRequest{Model: "test-model", UserMessage: "q"})
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.LessOrEqual(t, len(gwErr.Message), maxDiagnosticBytes+len("..."))
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}], "usage": {"total_tokens": 2}}`))
	}))
	defer srv.Close()

	result := testClient(srv.URL).Probe(context.Background())
	assert.True(t, result.Reachable)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "test-model", result.Model)
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	result := testClient(srv.URL).Probe(context.Background())
	assert.False(t, result.Reachable)
	assert.NotEmpty(t, result.Detail)
}

func TestProbeAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer srv.Close()

	result := testClient(srv.URL).Probe(context.Background())
	assert.False(t, result.Reachable)
	assert.Equal(t, http.StatusUnauthorized, result.StatusCode)
	assert.Contains(t, result.Detail, "invalid api key")
}

func TestExtractAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"flat", `{"error": "boom"}`, "boom"},
		{"nested", `{"error": {"message": "deep boom", "type": "api_error"}}`, "deep boom"},
		{"neither", `{"detail": "other"}`, ""},
		{"not json", `plain text`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAPIError([]byte(tt.body)))
		})
	}
}
