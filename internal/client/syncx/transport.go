package syncx

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
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotConfigured marks the terminal offline fallback: no endpoint or
// credentials were provided, so the mirror is skipped entirely.
var ErrNotConfigured = errors.New("mirror not configured")

// Transport is the engine's view of the remote document store.
type Transport interface {
	// Connect authenticates the session. ErrNotConfigured is terminal;
	// other errors may be retried by the reconnect supervisor.
	Connect(ctx context.Context) error
	// Load fetches the current remote envelope; nil when absent.
	Load(ctx context.Context) (*Envelope, error)
	// Store replaces the remote document (last-writer-wins).
	Store(ctx context.Context, env *Envelope) error
	// Ping probes liveness.
	Ping(ctx context.Context) error
	// Listen subscribes to remote pushes. The channel closes when the
	// subscription drops; a new Listen establishes a fresh one.
	Listen(ctx context.Context) (<-chan Envelope, error)
	// Close tears the transport down. Safe to call more than once.
	Close() error
}

// HTTPTransport talks to the mirror service over HTTP plus a websocket
// subscription for change events.
type HTTPTransport struct {
	baseURL   string
	accessKey string
	client    *http.Client

	mu    sync.Mutex
	token string
	conn  *websocket.Conn
}

func NewHTTPTransport(baseURL, accessKey string) *HTTPTransport {
	return &HTTPTransport{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *HTTPTransport) Connect(ctx context.Context) error {
	if t.baseURL == "" || t.accessKey == "" {
		return ErrNotConfigured
	}

	body, _ := json.Marshal(map[string]string{"access_key": t.accessKey})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login rejected: %s", resp.Status)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("login response: %w", err)
	}

	t.mu.Lock()
	t.token = out.Token
	t.mu.Unlock()
	return nil
}

func (t *HTTPTransport) bearer() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.bearer())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return t.client.Do(req)
}

func (t *HTTPTransport) Load(ctx context.Context) (*Envelope, error) {
	resp, err := t.do(ctx, http.MethodGet, "/api/document", nil)
	if err != nil {
		return nil, fmt.Errorf("document fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document fetch: %s", resp.Status)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("document decode: %w", err)
	}
	return &env, nil
}

func (t *HTTPTransport) Store(ctx context.Context, env *Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	resp, err := t.do(ctx, http.MethodPut, "/api/document", body)
	if err != nil {
		return fmt.Errorf("document push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("document push: %s", resp.Status)
	}
	return nil
}

func (t *HTTPTransport) Ping(ctx context.Context) error {
	resp, err := t.do(ctx, http.MethodGet, "/api/ping", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping: %s", resp.Status)
	}
	return nil
}

// Listen dials the websocket endpoint and pumps remote envelopes into the
// returned channel until the connection drops or ctx is canceled.
func (t *HTTPTransport) Listen(ctx context.Context) (<-chan Envelope, error) {
	u, err := url.Parse(t.baseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/ws"

	header := http.Header{"Authorization": {"Bearer " + t.bearer()}}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("subscription dial: %w", err)
	}

	t.mu.Lock()
	if t.conn != nil {
		t.conn.Close()
	}
	t.conn = conn
	t.mu.Unlock()

	events := make(chan Envelope)
	go func() {
		defer close(events)
		defer conn.Close()
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			select {
			case events <- env:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// Close is idempotent: closing an already-closed transport is a no-op.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	return nil
}
