package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrUnconfigured marks a renderer that cannot run because it is
// missing required configuration, e.g. no API key for the remote
// service. The fallback chain treats it like any other failure.
var ErrUnconfigured = errors.New("renderer not configured")

// Renderer turns an HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// Config is the remote rendering service configuration, merged from
// the persisted company settings and the environment defaults.
type Config struct {
	Endpoint string
	APIKey   string
	Margin   string
}

// ConfigResolver supplies the remote service settings at render time,
// so changes saved through the settings API apply without a restart.
type ConfigResolver func() (Config, error)

// StaticConfig is a resolver for a fixed configuration.
func StaticConfig(cfg Config) ConfigResolver {
	return func() (Config, error) { return cfg, nil }
}

// RemoteRenderer submits the HTML to an external rendering service.
type RemoteRenderer struct {
	resolve ConfigResolver
	client  *http.Client
}

func NewRemoteRenderer(resolve ConfigResolver, timeout time.Duration) *RemoteRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteRenderer{
		resolve: resolve,
		client:  &http.Client{Timeout: timeout},
	}
}

type remoteRequest struct {
	Source string `json:"source"`
	Format string `json:"format"`
	Margin string `json:"margin"`
}

func (r *RemoteRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	cfg, err := r.resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve render config: %w", err)
	}
	if cfg.APIKey == "" || cfg.Endpoint == "" {
		return nil, ErrUnconfigured
	}

	body, err := json.Marshal(remoteRequest{
		Source: string(html),
		Format: "A4",
		Margin: cfg.Margin,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", cfg.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call render service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("render service returned %d: %s", resp.StatusCode, msg)
	}

	pdfBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read render response: %w", err)
	}
	if len(pdfBytes) == 0 {
		return nil, errors.New("render service returned empty document")
	}
	return pdfBytes, nil
}

// FallbackRenderer tries each renderer in order and returns the first
// success. Individual failures are logged, never propagated; only when
// every renderer fails does the caller see an error.
type FallbackRenderer struct {
	renderers []Renderer
	logger    *zap.Logger
}

func NewFallbackRenderer(logger *zap.Logger, renderers ...Renderer) *FallbackRenderer {
	return &FallbackRenderer{renderers: renderers, logger: logger}
}

func (f *FallbackRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	var errs []error
	for i, r := range f.renderers {
		out, err := r.Render(ctx, html)
		if err == nil {
			return out, nil
		}
		f.logger.Warn("pdf renderer failed, trying next",
			zap.Int("renderer", i),
			zap.Error(err),
		)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no pdf renderers configured")
	}
	return nil, fmt.Errorf("all pdf renderers failed: %w", errors.Join(errs...))
}
