// File: internal/modules/httpfetch/httpfetch.go
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/conduit/api/schemas"
)

type moduleConfig struct {
	// URLs fetched on every invocation, in addition to any found in the
	// payload under "urls".
	URLs []string `json:"urls"`
	// RatePerSecond caps outbound requests across the whole invocation.
	RatePerSecond float64 `json:"rate_per_second"`
	// MaxConcurrency bounds in-flight requests.
	MaxConcurrency int `json:"max_concurrency"`
	// RequestTimeoutSeconds bounds each individual request.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
}

// Module fetches a set of URLs and reports status codes and body sizes.
// Requests within one invocation run concurrently under an errgroup with a
// shared rate limiter; from the dispatcher's point of view the module is
// still a single sequential pipeline step.
type Module struct {
	name   string
	config map[string]any

	client  *http.Client
	limiter *rate.Limiter
	urls    []string
	maxConc int
}

// New is the module factory registered under "httpfetch".
func New(name string, config map[string]any) schemas.Module {
	return &Module{name: name, config: config}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Initialize() error {
	cfg := moduleConfig{
		RatePerSecond:         5,
		MaxConcurrency:        4,
		RequestTimeoutSeconds: 30,
	}
	if err := schemas.RemarshalConfig(m.config, &cfg); err != nil {
		return fmt.Errorf("invalid httpfetch config: %w", err)
	}
	if cfg.RatePerSecond <= 0 || cfg.MaxConcurrency <= 0 {
		return fmt.Errorf("httpfetch requires positive rate_per_second and max_concurrency")
	}

	m.client = &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second}
	m.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	m.urls = cfg.URLs
	m.maxConc = cfg.MaxConcurrency
	return nil
}

func (m *Module) Process(ctx context.Context, input schemas.Payload) (schemas.Payload, error) {
	urls := append([]string(nil), m.urls...)
	if raw, ok := input["urls"].([]any); ok {
		for _, u := range raw {
			if s, ok := u.(string); ok {
				urls = append(urls, s)
			}
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("httpfetch has no URLs to fetch")
	}

	var (
		mu        sync.Mutex
		responses = make([]any, 0, len(urls))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.maxConc)
	for _, url := range urls {
		url := url
		g.Go(func() error {
			if err := m.limiter.Wait(gctx); err != nil {
				return err
			}
			resp, err := m.fetch(gctx, url)
			if err != nil {
				return err
			}
			mu.Lock()
			responses = append(responses, resp)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("httpfetch failed: %w", err)
	}

	out := input.Clone()
	out["responses"] = responses
	out["fetched"] = len(responses)
	return out, nil
}

func (m *Module) fetch(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"url":    url,
		"status": resp.StatusCode,
		"bytes":  n,
	}, nil
}

func (m *Module) Shutdown() error {
	if m.client != nil {
		m.client.CloseIdleConnections()
	}
	return nil
}
