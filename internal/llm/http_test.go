// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-grok/pkg/types"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *HTTPBackend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := NewHTTPBackend(HTTPConfig{Endpoint: srv.URL, APIKey: "secret-key"})
	require.NoError(t, err)
	return b
}

func testRequest() *types.CompletionRequest {
	return &types.CompletionRequest{
		Model: "grok-test",
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: "sys"},
			{Role: types.RoleUser, Content: "ctx"},
			{Role: types.RoleUser, Content: "prompt"},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}
}

func TestNewHTTPBackend_RequiresKey(t *testing.T) {
	_, err := NewHTTPBackend(HTTPConfig{})
	assert.ErrorIs(t, err, ErrLLMFailure)
}

func TestHTTPBackend_SendsPayload(t *testing.T) {
	var got chatRequest
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}],"usage":{"prompt_tokens":12,"completion_tokens":34}}`))
	})

	reply, err := b.Send(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "hello", reply.Text)
	assert.Equal(t, 34, reply.OutputTokens)

	assert.Equal(t, "grok-test", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)
	assert.Equal(t, 4000, got.MaxTokens)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, chatMessage{Role: "system", Content: "sys"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "ctx"}, got.Messages[1])
	assert.Equal(t, chatMessage{Role: "user", Content: "prompt"}, got.Messages[2])
}

func TestHTTPBackend_DegradesMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantText string
		wantOut  int
	}{
		{"no choices no usage", `{}`, "", 0},
		{"empty choices", `{"choices":[],"usage":{"completion_tokens":5}}`, "", 5},
		{"malformed choices", `{"choices":"oops","usage":{"completion_tokens":7}}`, "", 7},
		{"malformed usage", `{"choices":[{"message":{"content":"x"}}],"usage":[1,2]}`, "x", 0},
		{"null fields", `{"choices":null,"usage":null}`, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			reply, err := b.Send(context.Background(), testRequest())
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, reply.Text)
			assert.Equal(t, tt.wantOut, reply.OutputTokens)
		})
	}
}

func TestHTTPBackend_Errors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"bad key"}`))
		})

		_, err := b.Send(context.Background(), testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
		assert.Contains(t, err.Error(), "bad key")
	})

	t.Run("invalid json", func(t *testing.T) {
		b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})

		_, err := b.Send(context.Background(), testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding response")
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		b, err := NewHTTPBackend(HTTPConfig{Endpoint: url, APIKey: "k"})
		require.NoError(t, err)

		_, err = b.Send(context.Background(), testRequest())
		assert.Error(t, err)
	})
}

func TestNewHTTPBackend_Defaults(t *testing.T) {
	b, err := NewHTTPBackend(HTTPConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, b.endpoint)
	assert.Equal(t, DefaultTimeout, b.http.Timeout)
}
