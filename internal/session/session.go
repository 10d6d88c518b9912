// Package session holds the signed-in operator: the bearer token, the cached
// profile and the outcome of the last auth operation.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"freeswitch-admin-console/internal/client"
	apperrors "freeswitch-admin-console/internal/errors"
	"freeswitch-admin-console/internal/logger"
	"freeswitch-admin-console/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

// Auth endpoints
const (
	PathLogin          = "/auth/login"
	PathLogout         = "/auth/logout"
	PathRefresh        = "/auth/refresh"
	PathChangePassword = "/auth/change-password"
	PathUserDetails    = "/auth/user-details"
)

// Fallback messages used when the API gives no detail
const (
	MsgLoginFailed          = "Login failed"
	MsgRefreshFailed        = "Token refresh failed"
	MsgPasswordChangeFailed = "Password change failed"
	MsgUserDetailsFailed    = "Failed to get user details"
)

// State of a session
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

// Credentials are submitted to the login endpoint
type Credentials struct {
	Username string  `json:"username" form:"username" binding:"required"`
	Password string  `json:"password" form:"password" binding:"required"`
	Domain   *string `json:"domain,omitempty" form:"domain"`
}

// Profile describes the signed-in operator
type Profile struct {
	Username    string  `json:"username"`
	UserEmail   string  `json:"user_email"`
	UserStatus  string  `json:"user_status"`
	UserType    string  `json:"user_type"`
	UserEnabled bool    `json:"user_enabled"`
	Extension   *string `json:"extension,omitempty"`
}

// Token is returned by the login and refresh endpoints
type Token struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        *Profile `json:"user,omitempty"`
}

// PasswordChange is submitted to the change-password endpoint
type PasswordChange struct {
	CurrentPassword string `json:"current_password" form:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" form:"new_password" binding:"required"`
}

// Snapshot is a point-in-time copy of the session
type Snapshot struct {
	State   State
	User    *Profile
	Token   string
	Loading bool
	Error   string
}

// Authenticated reports whether the snapshot carries a session
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}

// Holder owns the session state. Persistence to the store happens only as
// part of the transitions that change the token or profile.
type Holder struct {
	api   client.Requester
	store storage.Store

	mu      sync.Mutex
	state   State
	user    *Profile
	token   string
	loading bool
	err     string
}

// NewHolder creates a Holder seeded from the token and profile in store
func NewHolder(api client.Requester, store storage.Store) *Holder {
	h := &Holder{
		api:   api,
		store: store,
		state: StateUnauthenticated,
	}
	if token, ok := store.Get(storage.KeyAuthToken); ok && token != "" {
		h.token = token
		h.state = StateAuthenticated
	}
	if raw, ok := store.Get(storage.KeyAuthUser); ok && raw != "" {
		var p Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			h.user = &p
		}
	}
	return h
}

// Snapshot returns a copy of the current state
func (h *Holder) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	var user *Profile
	if h.user != nil {
		u := *h.user
		user = &u
	}
	return Snapshot{
		State:   h.state,
		User:    user,
		Token:   h.token,
		Loading: h.loading,
		Error:   h.err,
	}
}

// IsAuthenticated reports whether a token is held
func (h *Holder) IsAuthenticated() bool {
	return h.Snapshot().Authenticated()
}

// HasProfile reports whether the profile is known without a round trip
func (h *Holder) HasProfile() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.user != nil
}

// Login exchanges credentials for a token and profile and persists both
func (h *Holder) Login(ctx context.Context, creds Credentials) error {
	h.mu.Lock()
	h.loading = true
	h.err = ""
	h.state = StateAuthenticating
	h.mu.Unlock()

	var token Token
	if err := h.api.Do(ctx, http.MethodPost, PathLogin, creds, &token); err != nil {
		h.fail(err, MsgLoginFailed)
		logger.WithContext(ctx).WithField("username", creds.Username).Infof("Login failed: %v", err)
		return err
	}

	if err := h.persistToken(token.AccessToken); err != nil {
		h.fail(err, MsgLoginFailed)
		return err
	}
	if err := h.persistProfile(token.User); err != nil {
		h.fail(err, MsgLoginFailed)
		return err
	}

	h.mu.Lock()
	h.token = token.AccessToken
	h.user = token.User
	h.state = StateAuthenticated
	h.loading = false
	h.mu.Unlock()

	logger.WithContext(ctx).WithField("username", creds.Username).Info("Operator signed in")
	return nil
}

// Logout notifies the API on a best-effort basis and then clears the local
// session regardless of the outcome.
func (h *Holder) Logout(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	if err := h.api.Do(ctx, http.MethodPost, PathLogout, nil, nil); err != nil {
		logger.WithContext(ctx).Debugf("Logout call failed, clearing local session anyway: %v", err)
	}

	tokenErr := h.store.Remove(storage.KeyAuthToken)
	userErr := h.store.Remove(storage.KeyAuthUser)

	h.mu.Lock()
	h.token = ""
	h.user = nil
	h.state = StateUnauthenticated
	h.loading = false
	h.err = ""
	h.mu.Unlock()

	if tokenErr != nil {
		return fmt.Errorf("failed to clear token: %w", tokenErr)
	}
	if userErr != nil {
		return fmt.Errorf("failed to clear profile: %w", userErr)
	}
	return nil
}

// FetchCurrentUser loads the profile belonging to the held token
func (h *Holder) FetchCurrentUser(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	var profile Profile
	if err := h.api.Do(ctx, http.MethodGet, PathUserDetails, nil, &profile); err != nil {
		h.fail(err, MsgUserDetailsFailed)
		return err
	}
	if err := h.persistProfile(&profile); err != nil {
		h.fail(err, MsgUserDetailsFailed)
		return err
	}

	h.mu.Lock()
	h.user = &profile
	h.state = StateAuthenticated
	h.loading = false
	h.mu.Unlock()
	return nil
}

// Restore validates a persisted token by fetching its profile. A token the
// API no longer accepts ends the session.
func (h *Holder) Restore(ctx context.Context) error {
	h.mu.Lock()
	token := h.token
	h.mu.Unlock()
	if token == "" {
		return nil
	}

	if err := h.FetchCurrentUser(ctx); err != nil {
		logger.WithContext(ctx).Infof("Persisted session rejected, signing out: %v", err)
		if logoutErr := h.Logout(ctx); logoutErr != nil {
			return logoutErr
		}
		return err
	}
	return nil
}

// RefreshToken swaps the held token for a fresh one
func (h *Holder) RefreshToken(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	var token Token
	if err := h.api.Do(ctx, http.MethodPost, PathRefresh, nil, &token); err != nil {
		h.fail(err, MsgRefreshFailed)
		return err
	}
	if err := h.persistToken(token.AccessToken); err != nil {
		h.fail(err, MsgRefreshFailed)
		return err
	}

	h.mu.Lock()
	h.token = token.AccessToken
	h.loading = false
	h.mu.Unlock()
	return nil
}

// ChangePassword changes the operator's password. The session is kept.
func (h *Holder) ChangePassword(ctx context.Context, req PasswordChange) error {
	h.mu.Lock()
	h.loading = true
	h.err = ""
	h.mu.Unlock()

	if err := h.api.Do(ctx, http.MethodPost, PathChangePassword, req, nil); err != nil {
		h.fail(err, MsgPasswordChangeFailed)
		return err
	}

	h.mu.Lock()
	h.loading = false
	h.mu.Unlock()
	return nil
}

// SetUser replaces the profile. A nil profile marks the session
// unauthenticated.
func (h *Holder) SetUser(p *Profile) error {
	if err := h.persistProfile(p); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = p
	if p != nil {
		h.state = StateAuthenticated
	} else {
		h.state = StateUnauthenticated
	}
	return nil
}

// SetToken replaces the token. An empty token removes it from the store.
func (h *Holder) SetToken(token string) error {
	if err := h.persistToken(token); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
	return nil
}

// SetError records msg as the last error
func (h *Holder) SetError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = msg
}

// ClearError forgets the last error
func (h *Holder) ClearError() {
	h.SetError("")
}

// TokenExpiry reads the exp claim of the held token without verifying it.
// The result is informational only; the API stays the judge of validity.
func (h *Holder) TokenExpiry() (time.Time, bool) {
	h.mu.Lock()
	token := h.token
	h.mu.Unlock()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (h *Holder) fail(err error, fallback string) {
	msg := apperrors.Detail(err)
	if msg == "" {
		msg = fallback
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = msg
	h.loading = false
	if h.token != "" {
		h.state = StateAuthenticated
	} else {
		h.state = StateUnauthenticated
	}
}

func (h *Holder) persistToken(token string) error {
	if token == "" {
		return h.store.Remove(storage.KeyAuthToken)
	}
	return h.store.Set(storage.KeyAuthToken, token)
}

func (h *Holder) persistProfile(p *Profile) error {
	if p == nil {
		return h.store.Remove(storage.KeyAuthUser)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return h.store.Set(storage.KeyAuthUser, string(data))
}
