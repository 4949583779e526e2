// Package client provides the VPSA REST API client
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/liliang-cn/zadarapy/pkg/config"
	"github.com/liliang-cn/zadarapy/pkg/metrics"
	"github.com/liliang-cn/zadarapy/pkg/util"
)

const (
	// DefaultTimeout is the server side timeout sent with every request.
	DefaultTimeout = 15 * time.Second

	// transportGrace is added to the request timeout for the HTTP deadline
	// so the server reports its own timeout first.
	transportGrace = 5 * time.Second
)

// Client talks to a single VPSA endpoint. It is safe for concurrent use.
type Client struct {
	endpoint config.Endpoint
	timeout  time.Duration
	http     *http.Client
	logger   *zap.Logger
	metrics  *metrics.Metrics
	journal  Journal
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the request timeout. Non-positive values are rejected by New.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// the caller's value is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records every request in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithJournal reports mutating calls to j.
func WithJournal(j Journal) Option {
	return func(c *Client) { c.journal = j }
}

// Journal receives a record of every POST, PUT and DELETE call.
type Journal interface {
	Record(ctx context.Context, call Call) error
}

// Call describes one completed request.
type Call struct {
	Method   string
	Path     string
	Host     string
	Status   int
	Error    string
	Duration time.Duration
	Time     time.Time
}

// Response is a decoded API response.
type Response struct {
	StatusCode int
	Raw        []byte
	Body       map[string]any
}

// Section returns the value stored under key. When the body carries a
// "response" object only that object is searched.
func (r *Response) Section(key string) (any, bool) {
	if inner, ok := r.Body["response"].(map[string]any); ok {
		v, ok := inner[key]
		return v, ok
	}
	v, ok := r.Body[key]
	return v, ok
}

// Page selects a window of a list result. Zero values are omitted.
type Page struct {
	Start int
	Limit int
}

func (p Page) apply(params url.Values) error {
	if p.Start < 0 {
		return invalid("start must not be negative, got %d", p.Start)
	}
	if p.Limit < 0 {
		return invalid("limit must not be negative, got %d", p.Limit)
	}
	if p.Start > 0 {
		params.Set("start", strconv.Itoa(p.Start))
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	return nil
}

// New creates a client for ep.
func New(ep *config.Endpoint, opts ...Option) (*Client, error) {
	if ep == nil {
		return nil, invalid("endpoint is required")
	}
	if err := util.ValidateHost(ep.Host); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidatePort(ep.Port); err != nil {
		return nil, wrapInvalid(err)
	}
	if ep.Key == "" {
		return nil, invalid("API key is required")
	}

	c := &Client{
		endpoint: *ep,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout <= 0 {
		return nil, invalid("timeout must be positive, got %s", c.timeout)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	hc := &http.Client{}
	if c.http != nil {
		copied := *c.http
		hc = &copied
	}
	// 302 is a valid answer from the VPSA and must not be followed.
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if c.metrics != nil {
		hc.Transport = c.metrics.InstrumentRoundTripper(hc.Transport)
	}
	c.http = hc

	return c, nil
}

// Endpoint returns the endpoint the client talks to.
func (c *Client) Endpoint() config.Endpoint {
	return c.endpoint
}

// Timeout returns the request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body map[string]any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body map[string]any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, body map[string]any) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, body)
}

// Do sends one request and decodes the response. The JSON body always
// carries the client timeout in seconds.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body map[string]any) (*Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.endpoint.BaseURL() + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	payload := make(map[string]any, len(body)+1)
	for k, v := range body {
		payload[k] = v
	}
	payload["timeout"] = c.timeoutSeconds()
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, invalid("failed to encode request body: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout+transportGrace)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(data))
	if err != nil {
		return nil, invalid("failed to build request: %v", err)
	}
	req.Header.Set("X-Access-Key", c.endpoint.Key)
	req.Header.Set("X-Token", c.endpoint.Key)
	req.Header.Set("x-auth-token", c.endpoint.Key)
	req.Header.Set("Content-Type", "application/json")

	if ce := c.logger.Check(zap.DebugLevel, "Sending API request"); ce != nil {
		ce.Write(zap.String("curl", c.curl(req, data)))
	}

	start := time.Now()
	resp, err := c.do(req)
	call := Call{
		Method:   method,
		Path:     path,
		Host:     c.endpoint.Host,
		Duration: time.Since(start),
		Time:     start,
	}
	if resp != nil {
		call.Status = resp.StatusCode
	}
	if err != nil {
		call.Error = err.Error()
	}
	c.record(ctx, call)

	if err != nil {
		return nil, err
	}

	c.logger.Debug("API response received",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", call.Duration))
	return resp, nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{
			Host:     c.endpoint.Host,
			Port:     c.endpoint.Port,
			Protocol: strings.ToUpper(c.endpoint.Scheme()),
			Err:      err,
		}
	}
	defer resp.Body.Close()

	out := &Response{StatusCode: resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusFound:
	default:
		status := resp.Status
		if status == "" {
			status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return out, &StatusError{Code: resp.StatusCode, Status: status}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, &ConnectionError{
			Host:     c.endpoint.Host,
			Port:     c.endpoint.Port,
			Protocol: strings.ToUpper(c.endpoint.Scheme()),
			Err:      fmt.Errorf("failed to read response: %w", err),
		}
	}
	out.Raw = raw
	out.Body, err = decode(raw)
	if err != nil {
		return out, err
	}
	if err := checkEnvelope(out.Body); err != nil {
		return out, err
	}
	return out, nil
}

func decode(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Err: err}
	}
	body, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Err: fmt.Errorf("expected a JSON object, got %T", v)}
	}
	return body, nil
}

func (c *Client) record(ctx context.Context, call Call) {
	if c.journal == nil {
		return
	}
	switch call.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return
	}
	// The request context may already be past its deadline.
	if err := c.journal.Record(context.WithoutCancel(ctx), call); err != nil {
		c.logger.Warn("Failed to record API call",
			zap.String("method", call.Method),
			zap.String("path", call.Path),
			zap.Error(err))
	}
}

func (c *Client) timeoutSeconds() int {
	return int(math.Ceil(c.timeout.Seconds()))
}

// curl renders req as an equivalent curl command with the key masked.
func (c *Client) curl(req *http.Request, body []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "curl -X %s", req.Method)

	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := req.Header.Get(name)
		if value == c.endpoint.Key {
			value = maskKey(value)
		}
		fmt.Fprintf(&b, " -H '%s: %s'", name, value)
	}
	fmt.Fprintf(&b, " -d '%s' '%s'", body, req.URL.String())
	return b.String()
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
