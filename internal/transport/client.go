// Package transport is the single request path to the backend REST API.
// It attaches the bearer token, refreshes it once on 401, and decodes
// every response into a tagged Payload.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/session"
	"github.com/google/uuid"
)

// Requester is the contract consumed by resource stores.
type Requester interface {
	Request(ctx context.Context, endpoint, method string, body any) (Payload, error)
}

// Client implements Requester over net/http.
type Client struct {
	baseURL  string
	http     *http.Client
	session  *session.Context
	observer Observer
	lists    map[string]bool
	newID    func() string
}

var _ Requester = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout, if any,
// is the only timeout applied to requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithObserver registers an observer for request events.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithListResources declares the collection paths (e.g. "projects") whose
// reads are normalized to lists.
func WithListResources(paths ...string) Option {
	return func(c *Client) {
		for _, p := range paths {
			c.lists[strings.Trim(p, "/")] = true
		}
	}
}

// New creates a Client rooted at baseURL.
func New(baseURL string, sc *session.Context, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		session:  sc,
		observer: NoopObserver{},
		lists:    make(map[string]bool),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// rawResponse is one HTTP exchange, body fully read.
type rawResponse struct {
	status int
	body   []byte
}

// Request performs method on endpoint (relative to the base URL, e.g.
// "/projects/?status=planned") and decodes the reply.
//
// Reads never fail on connectivity: they yield an empty result. A 401 is
// answered by exactly one token refresh and one retry.
func (c *Client) Request(ctx context.Context, endpoint, method string, body any) (Payload, error) {
	method = strings.ToUpper(method)
	read := method == http.MethodGet

	var encoded []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Payload{}, fmt.Errorf("marshaling request: %w", err)
		}
		encoded = data
	}

	issuedWith := c.session.RefreshToken(ctx)
	resp, err := c.attempt(ctx, endpoint, method, encoded, c.session.AccessToken(ctx))
	if err != nil {
		return c.networkFailure(ctx, endpoint, method, read, err)
	}

	if resp.status == http.StatusUnauthorized {
		// Prefer a token rotated meanwhile; fall back to the one held when
		// the request went out if a concurrent request expired the session.
		refresh := c.session.RefreshToken(ctx)
		if refresh == "" {
			refresh = issuedWith
		}
		if refresh != "" {
			access, rerr := c.refreshAccess(ctx, refresh)
			if rerr != nil {
				c.session.Expire(ctx, rerr)
				expired := fmt.Errorf("%w: %v", ErrSessionExpired, rerr)
				c.observer.OnRequest(RequestEvent{Method: method, Endpoint: endpoint, Status: resp.status, Outcome: errorCode(expired)})
				return Payload{}, expired
			}
			resp, err = c.attempt(ctx, endpoint, method, encoded, access)
			if err != nil {
				return c.networkFailure(ctx, endpoint, method, read, err)
			}
		}
	}

	return c.interpret(endpoint, method, read, resp)
}

// attempt sends one HTTP request and reads the whole body.
func (c *Client) attempt(ctx context.Context, endpoint, method string, body []byte, token string) (*rawResponse, error) {
	start := time.Now()
	requestID := c.newID()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		c.observer.OnRequest(RequestEvent{
			Method: method, Endpoint: endpoint, RequestID: requestID,
			Latency: time.Since(start), Outcome: "UNAVAILABLE",
		})
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	outcome := "OK"
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		outcome = fmt.Sprintf("HTTP_%d", httpResp.StatusCode)
	}
	c.observer.OnRequest(RequestEvent{
		Method: method, Endpoint: endpoint, RequestID: requestID,
		Status: httpResp.StatusCode, Latency: time.Since(start), Outcome: outcome,
	})
	return &rawResponse{status: httpResp.StatusCode, body: data}, nil
}

// networkFailure degrades reads to an empty result and surfaces writes as
// a status-0 error. Caller cancellation is always returned as-is.
func (c *Client) networkFailure(ctx context.Context, endpoint, method string, read bool, err error) (Payload, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Payload{}, ctxErr
	}
	if read {
		return c.emptyRead(endpoint), nil
	}
	return Payload{}, &Error{
		Status:   0,
		Message:  "network error: " + err.Error(),
		Endpoint: endpoint,
		Method:   method,
		Err:      errors.Join(ErrConnectivity, err),
	}
}

func (c *Client) interpret(endpoint, method string, read bool, resp *rawResponse) (Payload, error) {
	if resp.status < 200 || resp.status > 299 {
		msg, payload := errorMessage(resp.body, resp.status)
		return Payload{}, &Error{
			Status:   resp.status,
			Message:  msg,
			Endpoint: endpoint,
			Method:   method,
			Payload:  payload,
		}
	}

	p, err := decodePayload(resp.body)
	if err != nil {
		if read {
			// A malformed read degrades like an unreachable backend.
			c.observer.OnRequest(RequestEvent{Method: method, Endpoint: endpoint, Status: resp.status, Outcome: "SHAPE_MISMATCH"})
			return c.emptyRead(endpoint), nil
		}
		return Payload{}, &Error{Status: resp.status, Message: err.Error(), Endpoint: endpoint, Method: method}
	}

	if read {
		if p.Kind == KindEmpty {
			return emptyList(), nil
		}
		if c.isListEndpoint(endpoint) {
			return normalizeList(p), nil
		}
	}
	if !read && p.Kind == KindError {
		return Payload{}, &Error{Status: resp.status, Message: p.Message, Endpoint: endpoint, Method: method}
	}
	return p, nil
}

func (c *Client) emptyRead(endpoint string) Payload {
	if c.isListEndpoint(endpoint) {
		return emptyList()
	}
	return Payload{Kind: KindEmpty}
}

// isListEndpoint reports whether endpoint addresses a whole registered
// collection, with or without a query string.
func (c *Client) isListEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	path := strings.Trim(u.Path, "/")
	if path == "" || strings.Contains(path, "/") {
		return false
	}
	return c.lists[path]
}

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}
