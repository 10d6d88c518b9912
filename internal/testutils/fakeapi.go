package testutils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Credentials and tokens accepted by the fake API
const (
	FakeUsername     = "admin"
	FakePassword     = "secret"
	FakeToken        = "fake-token"
	FakeRefreshToken = "fake-token-refreshed"
)

// RecordedRequest is one call received by the fake API
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type rejection struct {
	status int
	body   string
}

// FakeAPI is an in-memory stand-in for the remote management API. It keeps
// resources in collections keyed by their uuid field and records every call.
type FakeAPI struct {
	server *httptest.Server

	mu          sync.Mutex
	requests    []RecordedRequest
	tokens      map[string]bool
	password    string
	tenants     []map[string]interface{}
	collections map[string][]map[string]interface{}
	rejections  map[string]rejection
}

// idFields maps each collection to the field holding its identifier
var idFields = map[string]string{
	"domains":            "domain_uuid",
	"contacts":           "contact_uuid",
	"users":              "user_uuid",
	"extensions":         "extension_uuid",
	"extension-settings": "extension_setting_uuid",
	"voicemails":         "voicemail_uuid",
	"dialplans":          "dialplan_uuid",
	"registrations":      "reg_uuid",
}

// NewFakeAPI starts a fake API that is shut down with the test
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeAPI{
		tokens:      map[string]bool{FakeToken: true},
		password:    FakePassword,
		collections: make(map[string][]map[string]interface{}),
		rejections:  make(map[string]rejection),
		tenants: []map[string]interface{}{
			{"tenant_id": 1, "tenant_name": "Acme"},
			{"tenant_id": 2, "tenant_name": "Globex", "description": "EU region"},
		},
	}
	for name := range idFields {
		f.collections[name] = []map[string]interface{}{}
	}

	router := gin.New()
	router.Use(f.record, f.reject)
	router.POST("/auth/login", f.login)
	router.POST("/auth/logout", f.logout)
	router.POST("/auth/refresh", f.authorized(f.refresh))
	router.POST("/auth/change-password", f.authorized(f.changePassword))
	router.GET("/auth/user-details", f.authorized(f.userDetails))
	router.GET("/api/tenants/", f.authorized(f.listTenants))
	router.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "Welcome to the XML Handler API!"}) })
	router.Any("/api/freeswitch/*rest", f.authorized(f.resource))

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake API
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Close stops the server before the test ends
func (f *FakeAPI) Close() {
	f.server.Close()
}

// Requests returns every call received so far
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// LastRequest returns the most recent call, or a zero value
func (f *FakeAPI) LastRequest() RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{Header: http.Header{}}
	}
	return f.requests[len(f.requests)-1]
}

// Seed adds a record to collection and returns its id
func (f *FakeAPI) Seed(collection string, record map[string]interface{}) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	idField := idFields[collection]
	id, _ := record[idField].(string)
	if id == "" {
		id = uuid.NewString()
		record[idField] = id
	}
	f.collections[collection] = append(f.collections[collection], record)
	return id
}

// Records returns a copy of collection
func (f *FakeAPI) Records(collection string) []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]interface{}, len(f.collections[collection]))
	copy(out, f.collections[collection])
	return out
}

// Reject makes the next call to method+path answer with status and body
func (f *FakeAPI) Reject(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejections[method+" "+path] = rejection{status: status, body: body}
}

func (f *FakeAPI) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(body)))

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	f.mu.Unlock()
	c.Next()
}

func (f *FakeAPI) reject(c *gin.Context) {
	key := c.Request.Method + " " + c.Request.URL.Path
	f.mu.Lock()
	r, ok := f.rejections[key]
	delete(f.rejections, key)
	f.mu.Unlock()

	if ok {
		c.Data(r.status, "application/json", []byte(r.body))
		c.Abort()
		return
	}
	c.Next()
}

func (f *FakeAPI) authorized(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		f.mu.Lock()
		ok := f.tokens[token]
		f.mu.Unlock()
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}
		next(c)
	}
}

func (f *FakeAPI) profile() gin.H {
	return gin.H{
		"username":     FakeUsername,
		"user_email":   "admin@example.com",
		"user_status":  "active",
		"user_type":    "admin",
		"user_enabled": true,
		"extension":    "1000",
	}
}

func (f *FakeAPI) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	f.mu.Lock()
	password := f.password
	f.mu.Unlock()
	if req.Username != FakeUsername || req.Password != password {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Incorrect username or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": FakeToken,
		"token_type":   "bearer",
		"expires_in":   3600,
		"user":         f.profile(),
	})
}

func (f *FakeAPI) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (f *FakeAPI) refresh(c *gin.Context) {
	f.mu.Lock()
	f.tokens[FakeRefreshToken] = true
	f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"access_token": FakeRefreshToken, "token_type": "bearer", "expires_in": 3600})
}

func (f *FakeAPI) changePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	_ = c.ShouldBindJSON(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if req.CurrentPassword != f.password {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Current password is incorrect"})
		return
	}
	f.password = req.NewPassword
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (f *FakeAPI) userDetails(c *gin.Context) {
	c.JSON(http.StatusOK, f.profile())
}

func (f *FakeAPI) listTenants(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.JSON(http.StatusOK, f.tenants)
}

func (f *FakeAPI) resource(c *gin.Context) {
	parts := strings.Split(strings.Trim(c.Param("rest"), "/"), "/")
	collection := parts[0]
	idField, ok := idFields[collection]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case len(parts) == 3 && collection == "extension-settings" && parts[1] == "extension" && c.Request.Method == http.MethodGet:
		out := []map[string]interface{}{}
		for _, rec := range f.collections[collection] {
			if rec["extension_uuid"] == parts[2] {
				out = append(out, rec)
			}
		}
		c.JSON(http.StatusOK, out)

	case len(parts) == 1 && c.Request.Method == http.MethodGet:
		c.JSON(http.StatusOK, f.collections[collection])

	case len(parts) == 1 && c.Request.Method == http.MethodPost:
		var rec map[string]interface{}
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		rec[idField] = uuid.NewString()
		rec["created_at"] = time.Now().UTC().Format(time.RFC3339)
		f.collections[collection] = append(f.collections[collection], rec)
		c.JSON(http.StatusCreated, rec)

	case len(parts) == 2:
		idx := -1
		for i, rec := range f.collections[collection] {
			if rec[idField] == parts[1] {
				idx = i
				break
			}
		}
		if idx < 0 {
			c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("%s not found", collection)})
			return
		}

		switch c.Request.Method {
		case http.MethodGet:
			c.JSON(http.StatusOK, f.collections[collection][idx])
		case http.MethodPut, http.MethodPatch:
			var patch map[string]interface{}
			if err := c.ShouldBindJSON(&patch); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
				return
			}
			rec := f.collections[collection][idx]
			for k, v := range patch {
				rec[k] = v
			}
			c.JSON(http.StatusOK, rec)
		case http.MethodDelete:
			f.collections[collection] = append(f.collections[collection][:idx], f.collections[collection][idx+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "deleted"})
		default:
			c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method Not Allowed"})
		}

	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method Not Allowed"})
	}
}
