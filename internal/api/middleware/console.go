package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"freeswitch-admin-console/internal/client"
	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/logger"
	"freeswitch-admin-console/internal/notify"
	"freeswitch-admin-console/internal/session"
	"freeswitch-admin-console/internal/storage"
	"freeswitch-admin-console/internal/tenant"

	"github.com/gin-gonic/gin"
)

// ConsoleKey is the gin context key holding the request's *Console
const ConsoleKey = "console"

// Console is everything a page needs for one browser request. Its state
// lives in the browser's cookies; nothing is shared between requests except
// the HTTP connection pool and metrics.
type Console struct {
	Store    storage.Store
	Recorder *notify.Recorder
	Client   *client.Client
	API      *freeswitch.API
	Session  *session.Holder
	Tenant   *tenant.Holder
}

// ConsoleOptions are the process-wide dependencies of every Console
type ConsoleOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Metrics    *client.Metrics
	Cookies    storage.CookieOptions
}

// WithConsole builds a Console for each request and stores it under ConsoleKey
func WithConsole(opts ConsoleOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		store := storage.NewCookieStore(c, opts.Cookies)
		recorder := notify.NewRecorder()

		clientOpts := []client.Option{client.WithHTTPClient(opts.HTTPClient)}
		if opts.Metrics != nil {
			clientOpts = append(clientOpts, client.WithMetrics(opts.Metrics))
		}
		apiClient, err := client.New(opts.BaseURL, store,
			notify.Multi{recorder, notify.NewLogNotifier(logger.WithContext(ctx))},
			clientOpts...)
		if err != nil {
			logger.WithContext(ctx).Errorf("Failed to create API client: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		console := &Console{
			Store:    store,
			Recorder: recorder,
			Client:   apiClient,
			API:      freeswitch.New(apiClient),
			Session:  session.NewHolder(apiClient, store),
			Tenant:   tenant.NewHolder(apiClient, store),
		}
		c.Set(ConsoleKey, console)

		if t, ok := console.Tenant.Selected(); ok {
			ctx = logger.WithTenant(ctx, t.IDString())
		}
		if u := console.Session.Snapshot().User; u != nil {
			ctx = logger.WithUser(ctx, u.Username)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ConsoleFrom returns the Console stored by WithConsole
func ConsoleFrom(c *gin.Context) *Console {
	v, ok := c.Get(ConsoleKey)
	if !ok {
		return nil
	}
	console, _ := v.(*Console)
	return console
}

// RequireSession sends visitors without a token to the login page. The token
// is validated against the API once per browser session; a rejected token
// ends the session.
func RequireSession(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		console := ConsoleFrom(c)
		if console == nil || !console.Session.IsAuthenticated() {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		if err := console.Validate(c.Request.Context()); err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		if u := console.Session.Snapshot().User; u != nil {
			c.Request = c.Request.WithContext(logger.WithUser(c.Request.Context(), u.Username))
			c.Set("username", u.Username)
		}
		c.Next()
	}
}

// sessionStore is implemented by stores that can write browser-session values
type sessionStore interface {
	SetSession(key, value string) error
}

// Validate runs Restore unless the held token was already validated in this
// browser session and its profile is cached.
func (console *Console) Validate(ctx context.Context) error {
	token := console.Session.Snapshot().Token
	checked, ok := console.Store.Get(storage.KeySessionChecked)
	if ok && checked == tokenDigest(token) && console.Session.HasProfile() {
		return nil
	}

	if err := console.Session.Restore(ctx); err != nil {
		_ = console.Store.Remove(storage.KeySessionChecked)
		return err
	}
	return console.MarkValidated()
}

// MarkValidated records the held token as validated for this browser session.
// Login and refresh call it since their response proves the token.
func (console *Console) MarkValidated() error {
	digest := tokenDigest(console.Session.Snapshot().Token)
	if s, ok := console.Store.(sessionStore); ok {
		return s.SetSession(storage.KeySessionChecked, digest)
	}
	return console.Store.Set(storage.KeySessionChecked, digest)
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
