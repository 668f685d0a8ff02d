// internal/renderer/client_test.go

package renderer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Config{BaseURL: baseURL, Timeout: 2 * time.Second}, logger.NewTestLogger(t))
}

// ==========================
// Compile Tests
// ==========================

func TestClient_Compile_Success(t *testing.T) {
	var gotPath, gotMJML string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotMJML = body["mjml"]

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"html": "<html><body>ok</body></html>", "warnings": ["section has no columns"]}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	result, err := client.Compile(context.Background(), "<mjml></mjml>")

	require.NoError(t, err)
	assert.Equal(t, "/compile", gotPath)
	assert.Equal(t, "<mjml></mjml>", gotMJML)
	assert.Equal(t, "<html><body>ok</body></html>", result.HTML)
	assert.Equal(t, []string{"section has no columns"}, result.Warnings)
}

func TestClient_Compile_TrailingSlashBaseURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"html": "<html></html>"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL+"/")
	_, err := client.Compile(context.Background(), "<mjml></mjml>")

	require.NoError(t, err)
	assert.Equal(t, "/compile", gotPath)
}

func TestClient_Compile_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": "invalid mjml"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Compile(context.Background(), "not mjml")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompileFailed)
	assert.Contains(t, err.Error(), "status 422")
}

func TestClient_Compile_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Compile(context.Background(), "<mjml></mjml>")

	assert.ErrorIs(t, err, ErrCompileFailed)
}

func TestClient_Compile_EmptyHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"html": "", "warnings": []}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Compile(context.Background(), "<mjml></mjml>")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompileFailed)
}

func TestClient_Compile_SidecarDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newClient(t, server.URL)
	_, err := client.Compile(context.Background(), "<mjml></mjml>")

	assert.ErrorIs(t, err, ErrCompileFailed)
}

func TestClient_Compile_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"html": "<html></html>"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := newClient(t, server.URL)
	_, err := client.Compile(ctx, "<mjml></mjml>")

	assert.ErrorIs(t, err, ErrCompileFailed)
}

// ==========================
// Health Tests
// ==========================

func TestClient_Healthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	assert.NoError(t, client.Healthy(context.Background()))
}

func TestClient_Healthy_ReportsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	err := client.Healthy(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
