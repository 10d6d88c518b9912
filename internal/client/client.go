package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"freeswitch-admin-console/internal/config"
	apperrors "freeswitch-admin-console/internal/errors"
	"freeswitch-admin-console/internal/logger"
	"freeswitch-admin-console/internal/notify"
	"freeswitch-admin-console/internal/storage"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"
)

//go:generate mockgen -source=client.go -destination=../mocks/client_mocks.go -package=mocks

// Header names attached to every outgoing call
const (
	HeaderTenantID  = "X-Tenant-Id"
	HeaderRequestID = "X-Request-Id"
)

// Requester performs one round trip against the remote management API.
// body is encoded as JSON when non-nil; out receives the decoded response
// when non-nil.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out interface{}) error
}

// Client is the single point every remote call passes through. It attaches
// the session and tenant headers and reports each outcome to a Notifier.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      storage.Store
	notifier   notify.Notifier
	metrics    *Metrics
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Share one across
// short-lived Clients so connections are pooled.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records every call on m
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewHTTPClient returns the pooled HTTP client used for the remote API
func NewHTTPClient(timeout time.Duration) *http.Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return hc
}

// NewFromConfig creates a Client for cfg.APIBaseURL
func NewFromConfig(cfg *config.Config, store storage.Store, notifier notify.Notifier, opts ...Option) (*Client, error) {
	opts = append([]Option{WithHTTPClient(NewHTTPClient(cfg.RequestTimeout()))}, opts...)
	return New(cfg.APIBaseURL, store, notifier, opts...)
}

// New creates a Client for baseURL
func New(baseURL string, store storage.Store, notifier notify.Notifier, opts ...Option) (*Client, error) {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return nil, apperrors.ErrAPIBaseURLMissing
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL '%s': %w", base, err)
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(nil)
	}

	c := &Client{
		baseURL:  parsed.String(),
		store:    store,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient(10 * time.Second)
	}
	return c, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Notifier returns the notifier this client reports to
func (c *Client) Notifier() notify.Notifier {
	return c.notifier
}

// Do sends one request. Writes show a processing message while in flight and
// a verb-specific success message afterwards; every failure is classified,
// shown, and returned to the caller.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	method = strings.ToUpper(method)
	log := logger.WithContext(ctx).WithFields(map[string]interface{}{
		"method": method,
		"path":   path,
	})

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		c.notifier.Error(MsgRequestConfig)
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}

	write := !isRead(method)
	if write {
		c.notifier.Loading(MsgProcessing, LoadingKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	var respBody []byte
	if err == nil {
		respBody, err = io.ReadAll(resp.Body)
		resp.Body.Close()
	}
	elapsed := time.Since(start)
	if write {
		c.notifier.Destroy(LoadingKey)
	}

	if err != nil {
		c.observe(method, "network_error", elapsed)
		netErr := &apperrors.NetworkError{Method: method, Path: path, Err: err}
		log.Warnf("Remote call got no response: %v", err)
		c.showError(netErr)
		return netErr
	}
	c.observe(method, strconv.Itoa(resp.StatusCode), elapsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := apperrors.NewAPIError(method, path, resp.StatusCode, respBody)
		log.WithField("status", resp.StatusCode).Infof("Remote call rejected: %s", apiErr.Detail)
		c.showError(apiErr)
		return apiErr
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.notifier.Error(MsgUnexpected)
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}

	if write {
		c.notifier.Success(SuccessMessage(method))
	}
	log.WithField("status", resp.StatusCode).Debugf("Remote call completed in %s", elapsed)
	return nil
}

// Get issues a read
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a create
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues an update
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a partial update
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a delete
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestID := logger.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(HeaderRequestID, requestID)

	if token, ok := c.store.Get(storage.KeyAuthToken); ok && token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
	}
	if tenantID, ok := c.store.Get(storage.KeySelectedTenantID); ok && tenantID != "" {
		req.Header.Set(HeaderTenantID, tenantID)
	}
	return req, nil
}

func (c *Client) showError(err error) {
	if msg, ok := ErrorMessage(err); ok {
		c.notifier.Error(msg)
	}
}

func (c *Client) observe(method, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RequestsTotal.WithLabelValues(method, status).Inc()
	c.metrics.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
