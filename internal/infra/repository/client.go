package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/logging"
)

// TokenSource supplies the bearer token of the live session and is told
// when the backend rejects it.
type TokenSource interface {
	Token() string
	TeardownUnauthorized()
}

// Observer receives one call per backend request. Status is 0 when no
// response arrived.
type Observer interface {
	ObserveBackend(op string, status int, elapsed time.Duration)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	observer   Observer
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		logger: logger.With("component", "backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Detail any `json:"detail"`
}

// do sends one request and decodes a 2xx JSON body into out (when non-nil).
// Every failure comes back as a *httperr.RepositoryError.
func (c *Client) do(
	ctx context.Context,
	op string,
	method string,
	path string,
	query url.Values,
	body any,
	out any,
	authorize bool,
) error {

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return httperr.Invalid(op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return httperr.Invalid(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if authorize && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := logging.FromContext(ctx, c.logger).With("op", op, "method", method, "path", path)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(started)
	if err != nil {
		c.observe(op, 0, elapsed)
		log.Warn("backend unreachable", "error", err)
		return httperr.Unreachable(op, err)
	}
	defer resp.Body.Close()

	c.observe(op, resp.StatusCode, elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		repoErr := httperr.FromStatus(op, resp.StatusCode, nil)
		repoErr.Detail = detailOf(raw)

		if repoErr.Kind == httperr.KindUnauthorized && authorize && c.tokens != nil {
			c.tokens.TeardownUnauthorized()
		}

		log.Warn("backend error", "status", resp.StatusCode, "kind", repoErr.Kind, "detail", repoErr.Detail)
		return repoErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return &httperr.RepositoryError{
			Kind:       httperr.KindServerFault,
			HTTPStatus: resp.StatusCode,
			Op:         op,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	log.Debug("backend ok", "status", resp.StatusCode, "elapsed_ms", elapsed.Milliseconds())
	return nil
}

func (c *Client) observe(op string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveBackend(op, status, elapsed)
	}
}

// detailOf extracts FastAPI's "detail" field. Validation errors carry a list
// there; those are kept as raw JSON.
func detailOf(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Detail == nil {
		return ""
	}
	if s, ok := eb.Detail.(string); ok {
		return s
	}
	b, _ := json.Marshal(eb.Detail)
	return string(b)
}
