// internal/llm/client_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"emailbuilder/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func chatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     40,
			"completion_tokens": 12,
		},
	}
}

func testRequest() Request {
	return Request{
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		Messages: []Message{
			{Role: RoleSystem, Content: "You write marketing emails."},
			{Role: RoleUser, Content: "Write a subject line."},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestClient_Complete_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody Request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(chatResponse("Your cart misses you"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"}, logger.NewTestLogger(t))
	content, err := client.Complete(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "Your cart misses you", content)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	assert.Len(t, gotBody.Messages, 2)
	assert.Equal(t, RoleSystem, gotBody.Messages[0].Role)
}

func TestClient_Complete_TrailingSlashBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/v1/"}, logger.NewTestLogger(t))
	_, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
}

func TestClient_Complete_NoAPIKeyOmitsAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, logger.NewTestLogger(t))
	_, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
}

// ==========================
// Retry and Error Tests
// ==========================

func TestClient_Complete_RetriesServerErrors(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(chatResponse("recovered"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, MaxRetries: 3}, logger.NewTestLogger(t))
	content, err := client.Complete(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "recovered", content)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Complete_ExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, MaxRetries: 1}, logger.NewTestLogger(t))
	_, err := client.Complete(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrCompletionFailed)
}

func TestClient_Complete_DoesNotRetryBadRequest(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, MaxRetries: 3}, logger.NewTestLogger(t))
	_, err := client.Complete(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Complete_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(chatResponse("too late"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, logger.NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, testRequest())
	assert.ErrorIs(t, err, ErrCompletionTimeout)
}

func TestClient_Complete_PerAttemptTimeout(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(150 * time.Millisecond)
		json.NewEncoder(w).Encode(chatResponse("too late"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, MaxRetries: 1, Timeout: 30 * time.Millisecond}, logger.NewTestLogger(t))

	_, err := client.Complete(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no choices", body: `{"choices": []}`},
		{name: "blank content", body: `{"choices": [{"message": {"role": "assistant", "content": "   "}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL}, logger.NewTestLogger(t))
			_, err := client.Complete(context.Background(), testRequest())

			assert.ErrorIs(t, err, ErrEmptyCompletion)
		})
	}
}

func TestClient_Complete_MalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, logger.NewTestLogger(t))
	_, err := client.Complete(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrCompletionFailed)
}
