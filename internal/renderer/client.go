// internal/renderer/client.go

// Package renderer talks to the MJML compile sidecar over HTTP.
package renderer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	commonhttp "emailbuilder/internal/common/http"
	"emailbuilder/internal/common/logger"
)

// ErrCompileFailed is returned whenever the sidecar cannot produce HTML.
// Callers treat it as non-fatal and fall back to a static document.
var ErrCompileFailed = errors.New("MJML_COMPILE_FAILED")

const defaultTimeout = 30 * time.Second

// CompileResult is the sidecar's answer: rendered HTML plus any MJML
// validation warnings it surfaced.
type CompileResult struct {
	HTML     string   `json:"html"`
	Warnings []string `json:"warnings"`
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	config Config
	client *commonhttp.Client
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		config: cfg,
		client: commonhttp.NewClient(cfg.Timeout),
		logger: log.With(map[string]interface{}{"component": "renderer"}),
	}
}

// Compile posts MJML markup and returns the rendered HTML.
func (c *Client) Compile(ctx context.Context, mjml string) (CompileResult, error) {
	resp, err := c.client.PostJSON(ctx, c.config.BaseURL+"/compile", map[string]string{"mjml": mjml}, nil)
	if err != nil {
		return CompileResult{}, fmt.Errorf("%w: %v", ErrCompileFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return CompileResult{}, fmt.Errorf("%w: status %d: %s", ErrCompileFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result CompileResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return CompileResult{}, fmt.Errorf("%w: decode response: %v", ErrCompileFailed, err)
	}
	if result.HTML == "" {
		return CompileResult{}, fmt.Errorf("%w: empty html in response", ErrCompileFailed)
	}

	if len(result.Warnings) > 0 {
		c.logger.Warn("MJML compiled with warnings", map[string]interface{}{
			"warningCount": len(result.Warnings),
		})
	}

	return result, nil
}

// Healthy probes the sidecar's health endpoint. Any non-200 answer counts
// as unhealthy.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequest(http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("renderer unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
