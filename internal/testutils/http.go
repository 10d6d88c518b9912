package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestSuite drives a router the way a browser would: cookies set by one
// response are sent with every following request.
type HTTPTestSuite struct {
	Router  *gin.Engine
	cookies map[string]*http.Cookie
}

// SetupHTTPTest initializes Gin for testing
func SetupHTTPTest() *HTTPTestSuite {
	gin.SetMode(gin.TestMode)
	return NewHTTPTestSuite(gin.New())
}

// NewHTTPTestSuite wraps an already configured router
func NewHTTPTestSuite(router *gin.Engine) *HTTPTestSuite {
	return &HTTPTestSuite{Router: router, cookies: make(map[string]*http.Cookie)}
}

// MakeRequest creates and executes an HTTP request with a JSON body
func (suite *HTTPTestSuite) MakeRequest(method, url string, body interface{}) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return suite.serve(req)
}

// MakeRequestWithHeaders creates and executes an HTTP request with custom headers
func (suite *HTTPTestSuite) MakeRequestWithHeaders(method, url string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return suite.serve(req)
}

// Get executes a GET request
func (suite *HTTPTestSuite) Get(url string) *httptest.ResponseRecorder {
	return suite.MakeRequest(http.MethodGet, url, nil)
}

// PostForm submits form values the way an HTML form does
func (suite *HTTPTestSuite) PostForm(target string, values url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return suite.serve(req)
}

// Cookie returns the current value of a cookie, unescaped
func (suite *HTTPTestSuite) Cookie(name string) (string, bool) {
	c, ok := suite.cookies[name]
	if !ok {
		return "", false
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return c.Value, true
	}
	return v, true
}

// SetCookie stores a persistent cookie as if a previous response had set it
func (suite *HTTPTestSuite) SetCookie(name, value string) {
	suite.cookies[name] = &http.Cookie{Name: name, Value: url.QueryEscape(value), Path: "/", MaxAge: 3600}
}

// EndBrowserSession drops session cookies, the ones set without a max age or
// expiry, the way a browser does when it is closed
func (suite *HTTPTestSuite) EndBrowserSession() {
	for name, c := range suite.cookies {
		if c.MaxAge == 0 && c.Expires.IsZero() {
			delete(suite.cookies, name)
		}
	}
}

// ClearCookies forgets every cookie
func (suite *HTTPTestSuite) ClearCookies() {
	suite.cookies = make(map[string]*http.Cookie)
}

func (suite *HTTPTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range suite.cookies {
		req.AddCookie(c)
	}

	recorder := httptest.NewRecorder()
	suite.Router.ServeHTTP(recorder, req)

	for _, c := range recorder.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(suite.cookies, c.Name)
			continue
		}
		suite.cookies[c.Name] = c
	}
	return recorder
}

// AssertJSONResponse asserts the response status and unmarshals JSON response
func AssertJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(recorder.Body.Bytes(), target)
		require.NoError(t, err)
	}
}

// AssertRedirect asserts a redirect to location
func AssertRedirect(t *testing.T, recorder *httptest.ResponseRecorder, expectedStatus int, location string) {
	assert.Equal(t, expectedStatus, recorder.Code)
	assert.Equal(t, location, recorder.Header().Get("Location"))
}

// AssertPage asserts an HTML response containing every fragment
func AssertPage(t *testing.T, recorder *httptest.ResponseRecorder, expectedStatus int, fragments ...string) {
	assert.Equal(t, expectedStatus, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	for _, f := range fragments {
		assert.Contains(t, recorder.Body.String(), f)
	}
}
