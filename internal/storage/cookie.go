package storage

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// CookieOptions control the cookies written by CookieStore.
type CookieOptions struct {
	MaxAge int
	Secure bool
}

// CookieStore keeps values in browser cookies. Writes made during a request
// are visible to later reads of the same request.
type CookieStore struct {
	c    *gin.Context
	opts CookieOptions

	mu      sync.Mutex
	pending map[string]*string
}

// NewCookieStore binds a store to the current gin request
func NewCookieStore(c *gin.Context, opts CookieOptions) *CookieStore {
	return &CookieStore{c: c, opts: opts, pending: make(map[string]*string)}
}

func (s *CookieStore) Get(key string) (string, bool) {
	s.mu.Lock()
	if v, ok := s.pending[key]; ok {
		s.mu.Unlock()
		if v == nil {
			return "", false
		}
		return *v, true
	}
	s.mu.Unlock()

	v, err := s.c.Cookie(key)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (s *CookieStore) Set(key, value string) error {
	s.mu.Lock()
	s.pending[key] = &value
	s.mu.Unlock()

	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, s.opts.MaxAge, "/", "", s.opts.Secure, true)
	return nil
}

// SetSession writes a cookie without a max age, dropped when the browser
// session ends
func (s *CookieStore) SetSession(key, value string) error {
	s.mu.Lock()
	s.pending[key] = &value
	s.mu.Unlock()

	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, 0, "/", "", s.opts.Secure, true)
	return nil
}

func (s *CookieStore) Remove(key string) error {
	s.mu.Lock()
	s.pending[key] = nil
	s.mu.Unlock()

	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, "", -1, "/", "", s.opts.Secure, true)
	return nil
}
