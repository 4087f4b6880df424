// Package backend is the HTTP client for the device server that owns the
// load cell and the linear encoders.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tinytelemetry/ftscope/internal/model"

	"go.uber.org/zap"
)

// Endpoint paths served by the device backend.
const (
	PathReadSamples  = "/api/readsamples"
	PathConnect      = "/api/connect"
	PathDisconnect   = "/api/disconnect"
	PathTareLoadCell = "/api/tareloadcell"
	PathTareHeiden   = "/api/tareheiden"
)

const maxBodyBytes = 1 << 20

var _ model.Backend = (*Client)(nil)

// Client calls the device backend. Every request carries the same fixed
// header set and never sends a Referer.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its redirect policy
// is wrapped so Referer stays stripped.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			copied := *hc
			c.http = &copied
		}
	}
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend url %q: missing host", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		base:   u,
		http:   &http.Client{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.CheckRedirect = noReferer(c.http.CheckRedirect)
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ReadSamples fetches one sample batch. write asks the backend to append
// the sample to its recording file.
func (c *Client) ReadSamples(ctx context.Context, write bool) (model.Sample, error) {
	var s model.Sample
	q := url.Values{"write": []string{strconv.FormatBool(write)}}
	if err := c.get(ctx, PathReadSamples, q, &s); err != nil {
		return model.Sample{}, err
	}
	s.ReceivedAt = time.Now()
	return s, nil
}

// Connect opens the device connection. A failed connection may still carry
// a server message inside the returned *StatusError.
func (c *Client) Connect(ctx context.Context) (model.ConnectReply, error) {
	var r model.ConnectReply
	err := c.get(ctx, PathConnect, nil, &r)
	return r, err
}

// Disconnect closes the device connection.
func (c *Client) Disconnect(ctx context.Context) (model.MessageReply, error) {
	var r model.MessageReply
	err := c.get(ctx, PathDisconnect, nil, &r)
	return r, err
}

// TareLoadCell zeroes the load cell.
func (c *Client) TareLoadCell(ctx context.Context) (model.MessageReply, error) {
	var r model.MessageReply
	err := c.get(ctx, PathTareLoadCell, nil, &r)
	return r, err
}

// TareHeiden zeroes the linear encoder positions.
func (c *Client) TareHeiden(ctx context.Context) (model.MessageReply, error) {
	var r model.MessageReply
	err := c.get(ctx, PathTareHeiden, nil, &r)
	return r, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("building request %s: %w", path, err)
	}
	setFixedHeaders(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}

	c.logger.Debug("[backend] response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("requestID", resp.Header.Get("X-Request-ID")),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Method: http.MethodGet, Path: path, Code: resp.StatusCode}
		var msg model.MessageReply
		if json.Unmarshal(body, &msg) == nil {
			serr.Message = msg.Message
		}
		return serr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// ServerMessage extracts the backend message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var serr *StatusError
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message, true
	}
	return "", false
}

func setFixedHeaders(h http.Header) {
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Del("Referer")
}

// noReferer follows redirects like the wrapped policy but drops the
// Referer header net/http adds on each hop.
func noReferer(next func(*http.Request, []*http.Request) error) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		req.Header.Del("Referer")
		if next != nil {
			return next(req, via)
		}
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}
}
