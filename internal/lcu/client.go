package lcu

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrClientNotRunning = errors.New("league client is not running")
	ErrAuxUnavailable   = errors.New("riot client credentials unavailable")
)

// Credentials holds the port and auth token for one of the two local APIs.
type Credentials struct {
	Port  string
	Token string
}

// BaseURL returns the loopback HTTPS base for these credentials.
func (c *Credentials) BaseURL() string {
	return "https://127.0.0.1:" + c.Port
}

// AuthHeader returns the Basic auth header value. The username is always
// "riot", the password is the discovered token.
func (c *Credentials) AuthHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("riot:"+c.Token))
}

// Locator resolves credentials for one of the local APIs.
type Locator func() (*Credentials, error)

// Response is the outcome of one LCU request.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Text returns the raw body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Client issues authenticated requests against the League client's local API
// and, when available, the auxiliary Riot client API. On connection failure it
// re-resolves credentials (the client may have restarted on a new port) and
// retries within a fixed budget.
type Client struct {
	httpClient  *http.Client
	locate      Locator
	locateAux   Locator
	retryBudget int
	retryPause  time.Duration
	log         zerolog.Logger

	mu    sync.Mutex
	creds *Credentials
	aux   *Credentials
}

// Option configures a Client.
type Option func(*Client)

// WithLocator overrides primary credential discovery.
func WithLocator(f Locator) Option {
	return func(c *Client) { c.locate = f }
}

// WithAuxLocator overrides auxiliary credential discovery.
func WithAuxLocator(f Locator) Option {
	return func(c *Client) { c.locateAux = f }
}

// WithRetryBudget sets how many times a refused request is retried after
// re-resolving credentials.
func WithRetryBudget(n int) Option {
	return func(c *Client) { c.retryBudget = n }
}

// WithRetryPause sets the pause between retries.
func WithRetryPause(d time.Duration) Option {
	return func(c *Client) { c.retryPause = d }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client. Credentials are resolved lazily on the first
// request, or eagerly via Connect/Await.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, // the client presents a self-signed cert
				},
			},
			Timeout: 10 * time.Second,
		},
		locate:      FindClientCredentials,
		locateAux:   FindRiotCredentials,
		retryBudget: 3,
		retryPause:  time.Second,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect resolves credentials for both APIs. A missing auxiliary API is not
// an error; only lobby reveal and chat presence depend on it.
func (c *Client) Connect() error {
	creds, err := c.locate()
	if err != nil {
		return err
	}

	aux, auxErr := c.locateAux()
	if auxErr != nil {
		c.log.Warn().Msg("riot client credentials not found, lobby and chat features unavailable")
	}

	c.mu.Lock()
	c.creds = creds
	c.aux = aux
	c.mu.Unlock()
	return nil
}

// Await blocks until the client is discovered or the timeout elapses.
func (c *Client) Await(timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := c.Connect(); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("league client not found after %s: %w", timeout, ErrClientNotRunning)
		}
		time.Sleep(interval)
	}
}

// Connected reports whether primary credentials are held.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds != nil
}

// Port returns the primary API port, or "" when disconnected.
func (c *Client) Port() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds == nil {
		return ""
	}
	return c.creds.Port
}

// Credentials returns the primary credentials, or nil when disconnected.
func (c *Client) Credentials() *Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds
}

// AuxAvailable reports whether auxiliary credentials are held.
func (c *Client) AuxAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aux != nil
}

// Disconnect drops held credentials.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.creds = nil
	c.aux = nil
	c.mu.Unlock()
}

// Request issues an HTTP call against the primary API. body, when non-nil, is
// serialized as JSON. Connection-refused errors trigger credential
// re-resolution and a retry within the budget; timeouts surface immediately.
func (c *Client) Request(method, path string, body any) (*Response, error) {
	return c.request(method, path, body, c.primaryCreds, c.relocatePrimary)
}

// RequestAux issues an HTTP call against the auxiliary Riot client API.
// Returns ErrAuxUnavailable when those credentials were never found.
func (c *Client) RequestAux(method, path string, body any) (*Response, error) {
	return c.request(method, path, body, c.auxCreds, c.relocateAux)
}

func (c *Client) primaryCreds() (*Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds == nil {
		return nil, ErrClientNotRunning
	}
	return c.creds, nil
}

func (c *Client) auxCreds() (*Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aux == nil {
		return nil, ErrAuxUnavailable
	}
	return c.aux, nil
}

func (c *Client) relocatePrimary() error {
	creds, err := c.locate()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.creds = creds
	c.mu.Unlock()
	return nil
}

func (c *Client) relocateAux() error {
	aux, err := c.locateAux()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.aux = aux
	c.mu.Unlock()
	return nil
}

func (c *Client) request(method, path string, body any, creds func() (*Credentials, error), relocate func() error) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	cr, err := creds()
	if err != nil {
		if relocateErr := relocate(); relocateErr != nil {
			return nil, err
		}
		if cr, err = creds(); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryBudget; attempt++ {
		resp, err := c.do(method, cr.BaseURL()+path, cr.AuthHeader(), payload)
		if err == nil {
			return resp, nil
		}
		if isTimeout(err) {
			return nil, fmt.Errorf("lcu request timed out: %w", err)
		}
		lastErr = err

		if attempt == c.retryBudget {
			break
		}
		c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("lcu connection failed, re-resolving credentials")
		if relocateErr := relocate(); relocateErr == nil {
			if fresh, credErr := creds(); credErr == nil {
				cr = fresh
			}
		}
		time.Sleep(c.retryPause)
	}
	return nil, fmt.Errorf("lcu request failed after %d retries: %w", c.retryBudget, lastErr)
}

func (c *Client) do(method, url, auth string, payload []byte) (*Response, error) {
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

func isTimeout(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

// GameflowPhase returns the current gameflow phase string.
func (c *Client) GameflowPhase() (string, error) {
	resp, err := c.Request(http.MethodGet, "/lol-gameflow/v1/gameflow-phase", nil)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("unexpected status: %d", resp.Status)
	}

	var phase string
	if err := resp.DecodeJSON(&phase); err != nil {
		return "", err
	}
	return phase, nil
}

// CurrentSummoner returns the logged-in summoner.
func (c *Client) CurrentSummoner() (*Summoner, error) {
	resp, err := c.Request(http.MethodGet, "/lol-summoner/v1/current-summoner", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("unexpected status: %d", resp.Status)
	}

	var s Summoner
	if err := resp.DecodeJSON(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
