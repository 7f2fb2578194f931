package clients

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
	"sync"

	"go.uber.org/zap"
)

// TokenSource supplies the bearer token of the session a client is bound to.
// Token returns "" and a nil error when no token is stored.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

type authMode int

const (
	// authRequired fails fast without a token.
	authRequired authMode = iota
	// authOptional attaches the token when there is one.
	authOptional
	// authNone never sends a token, and a 401 does not tear the session down.
	authNone
)

// GatewayClient talks to the REST backend on behalf of one session.
type GatewayClient struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	log     *zap.Logger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

func NewGatewayClient(baseURL string, client *http.Client, tokens TokenSource, log *zap.Logger) *GatewayClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &GatewayClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		tokens:  tokens,
		log:     log,
	}
}

// OnUnauthorized registers the hook fired after a token-bearing request comes back 401.
func (g *GatewayClient) OnUnauthorized(fn func(ctx context.Context)) {
	g.mu.Lock()
	g.onUnauthorized = fn
	g.mu.Unlock()
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	auth   authMode
}

type response struct {
	status int
	body   []byte
}

func (g *GatewayClient) send(ctx context.Context, r request) (*response, error) {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(b)
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	if body != nil {
		headers.Set("Content-Type", "application/json")
	}

	resp, sentToken, err := g.do(ctx, r.method, r.path, r.query, headers, body, r.auth)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", r.method, r.path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && sentToken {
		g.unauthorized(ctx)
	}
	if resp.StatusCode >= 400 {
		upErr := &UpstreamError{
			Method:  r.method,
			Path:    r.path,
			Status:  resp.StatusCode,
			Message: extractMessage(data, resp.StatusCode),
		}
		g.log.Debug("gateway request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", upErr.Message),
		)
		return nil, upErr
	}
	return &response{status: resp.StatusCode, body: data}, nil
}

// Do forwards a raw request with the session's token attached when one is stored.
// The caller owns the response body.
func (g *GatewayClient) Do(ctx context.Context, method, path string, query url.Values, headers http.Header, body io.Reader) (*http.Response, error) {
	resp, sentToken, err := g.do(ctx, method, path, query, headers, body, authOptional)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && sentToken {
		g.unauthorized(ctx)
	}
	return resp, nil
}

func (g *GatewayClient) do(ctx context.Context, method, path string, query url.Values, headers http.Header, body io.Reader, mode authMode) (*http.Response, bool, error) {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, false, err
	}
	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}

	sentToken := false
	if mode != authNone {
		token, err := g.tokens.Token(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("load session token: %w", err)
		}
		switch {
		case token != "":
			req.Header.Set("Authorization", "Bearer "+token)
			sentToken = true
		case mode == authRequired:
			return nil, false, ErrNotAuthenticated
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, sentToken, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, sentToken, nil
}

func (g *GatewayClient) unauthorized(ctx context.Context) {
	if err := g.tokens.ClearToken(ctx); err != nil {
		g.log.Warn("failed to clear token after 401", zap.Error(err))
	}
	g.mu.RLock()
	fn := g.onUnauthorized
	g.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

// extractMessage prefers the backend's "message", then "error", then the status text.
func extractMessage(body []byte, status int) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		var s string
		if json.Unmarshal(payload.Error, &s) == nil && s != "" {
			return s
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// unwrap returns the value under key when body is an object holding it, otherwise body itself.
func unwrap(body []byte, key string) []byte {
	var envelope map[string]json.RawMessage
	if json.Unmarshal(body, &envelope) != nil {
		return body
	}
	if inner, ok := envelope[key]; ok && len(inner) > 0 && !bytes.Equal(inner, []byte("null")) {
		return inner
	}
	return body
}

func decode(body []byte, out interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// CopyResponse streams an upstream response back to the BFF caller.
func CopyResponse(w http.ResponseWriter, resp *http.Response) error {
	defer resp.Body.Close()

	for k, v := range resp.Header {
		if isHopByHop(k) {
			continue
		}
		for _, vv := range v {
			w.Header().Add(k, vv)
		}
	}
	w.WriteHeader(resp.StatusCode)

	_, err := io.Copy(w, resp.Body)
	return err
}

func isHopByHop(header string) bool {
	switch strings.ToLower(header) {
	case "connection", "keep-alive", "proxy-authenticate", "proxy-authorization",
		"te", "trailers", "transfer-encoding", "upgrade", "set-cookie":
		return true
	}
	return strings.HasPrefix(strings.ToLower(header), "access-control-")
}

// BodyFromBytes returns nil for an empty body so no Content-Length is sent.
func BodyFromBytes(b []byte) io.Reader {
	if len(b) == 0 {
		return nil
	}
	return bytes.NewReader(b)
}
