package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"freeswitch-admin-console/internal/api/handlers"
	"freeswitch-admin-console/internal/api/routes"
	"freeswitch-admin-console/internal/client"
	"freeswitch-admin-console/internal/config"
	"freeswitch-admin-console/internal/storage"
	"freeswitch-admin-console/internal/testutils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

// ConsoleTestSuite drives the web console against the fake API the way a
// browser would, cookies included.
type ConsoleTestSuite struct {
	suite.Suite
	fake      *testutils.FakeAPI
	httpSuite *testutils.HTTPTestSuite
}

// SetupTest sets up the test suite
func (suite *ConsoleTestSuite) SetupTest() {
	suite.fake = testutils.NewFakeAPI(suite.T())

	cfg := &config.Config{
		Environment:       "test",
		Port:              "0",
		LogLevel:          "error",
		APIBaseURL:        suite.fake.URL(),
		RequestTimeoutSec: 5,
		CookieMaxAgeSec:   3600,
		MetricsEnabled:    true,
	}
	router, err := routes.SetupRoutes(cfg, prometheus.NewRegistry())
	suite.Require().NoError(err)
	suite.httpSuite = testutils.NewHTTPTestSuite(router)
}

func (suite *ConsoleTestSuite) login() {
	recorder := suite.httpSuite.PostForm("/login", url.Values{
		"username": {testutils.FakeUsername},
		"password": {testutils.FakePassword},
	})
	suite.Require().Equal(http.StatusSeeOther, recorder.Code)
}

// lastWrite decodes the body of the last method+path call received by the fake API
func (suite *ConsoleTestSuite) lastWrite(method, path string) map[string]interface{} {
	var found *testutils.RecordedRequest
	for _, r := range suite.fake.Requests() {
		r := r
		if r.Method == method && r.Path == path {
			found = &r
		}
	}
	suite.Require().NotNil(found, "no %s %s received", method, path)

	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(found.Body, &body))
	return body
}

func (suite *ConsoleTestSuite) userDetailsCalls() int {
	n := 0
	for _, r := range suite.fake.Requests() {
		if r.Path == "/auth/user-details" {
			n++
		}
	}
	return n
}

func (suite *ConsoleTestSuite) TestRequireSession_RedirectsToLogin() {
	for _, path := range []string{"/", "/domains", "/extensions", "/voicemails", "/tenants", "/profile"} {
		recorder := suite.httpSuite.Get(path)
		testutils.AssertRedirect(suite.T(), recorder, http.StatusFound, routes.LoginPath)
	}
	suite.Empty(suite.fake.Requests())
}

func (suite *ConsoleTestSuite) TestLogin_Success() {
	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/login"), http.StatusOK, "Sign in")

	suite.login()

	token, ok := suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.True(ok)
	suite.Equal(testutils.FakeToken, token)
	profile, ok := suite.httpSuite.Cookie(storage.KeyAuthUser)
	suite.True(ok)
	suite.Contains(profile, `"username":"admin"`)

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/"), http.StatusOK, "Dashboard", "admin")

	// signed-in visitors skip the login page
	testutils.AssertRedirect(suite.T(), suite.httpSuite.Get("/login"), http.StatusSeeOther, "/")
}

func (suite *ConsoleTestSuite) TestLogin_BadCredentials() {
	recorder := suite.httpSuite.PostForm("/login", url.Values{
		"username": {testutils.FakeUsername},
		"password": {"wrong"},
	})

	testutils.AssertPage(suite.T(), recorder, http.StatusBadRequest, "Incorrect username or password", `value="admin"`)
	_, ok := suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.False(ok)
}

func (suite *ConsoleTestSuite) TestLogin_MissingFields() {
	recorder := suite.httpSuite.PostForm("/login", url.Values{"username": {"admin"}})

	testutils.AssertPage(suite.T(), recorder, http.StatusBadRequest, handlers.MsgCredentialsRequired)
	suite.Empty(suite.fake.Requests())
}

func (suite *ConsoleTestSuite) TestLogin_SendsOptionalDomainOnlyWhenGiven() {
	suite.login()
	suite.NotContains(suite.lastWrite(http.MethodPost, "/auth/login"), "domain")

	suite.httpSuite.ClearCookies()
	suite.httpSuite.PostForm("/login", url.Values{
		"username": {testutils.FakeUsername},
		"password": {testutils.FakePassword},
		"domain":   {"pbx.example.com"},
	})
	suite.Equal("pbx.example.com", suite.lastWrite(http.MethodPost, "/auth/login")["domain"])
}

func (suite *ConsoleTestSuite) TestLogout_ClearsSession() {
	suite.login()

	recorder := suite.httpSuite.PostForm("/logout", nil)

	testutils.AssertRedirect(suite.T(), recorder, http.StatusSeeOther, routes.LoginPath)
	_, ok := suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.False(ok)
	_, ok = suite.httpSuite.Cookie(storage.KeyAuthUser)
	suite.False(ok)
	testutils.AssertRedirect(suite.T(), suite.httpSuite.Get("/"), http.StatusFound, routes.LoginPath)
}

func (suite *ConsoleTestSuite) TestRestore_ValidToken() {
	suite.httpSuite.SetCookie(storage.KeyAuthToken, testutils.FakeToken)

	recorder := suite.httpSuite.Get("/profile")

	testutils.AssertPage(suite.T(), recorder, http.StatusOK, "admin@example.com", "1000")
	profile, ok := suite.httpSuite.Cookie(storage.KeyAuthUser)
	suite.True(ok)
	suite.Contains(profile, "admin@example.com")
}

func (suite *ConsoleTestSuite) TestRestore_RejectedToken() {
	suite.httpSuite.SetCookie(storage.KeyAuthToken, "stale-token")

	recorder := suite.httpSuite.Get("/")

	testutils.AssertRedirect(suite.T(), recorder, http.StatusFound, routes.LoginPath)
	_, ok := suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.False(ok)
}

func (suite *ConsoleTestSuite) TestRestore_RevokedTokenWithStoredProfile() {
	suite.login()
	_, ok := suite.httpSuite.Cookie(storage.KeyAuthUser)
	suite.Require().True(ok)

	// the API revoked the token while the profile cookie survived
	suite.httpSuite.SetCookie(storage.KeyAuthToken, "revoked-token")

	recorder := suite.httpSuite.Get("/")

	testutils.AssertRedirect(suite.T(), recorder, http.StatusFound, routes.LoginPath)
	suite.Equal(1, suite.userDetailsCalls())
	_, ok = suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.False(ok)
	_, ok = suite.httpSuite.Cookie(storage.KeyAuthUser)
	suite.False(ok)
}

func (suite *ConsoleTestSuite) TestLoginPage_RevokedTokenShowsForm() {
	suite.login()
	suite.httpSuite.SetCookie(storage.KeyAuthToken, "revoked-token")

	recorder := suite.httpSuite.Get(routes.LoginPath)

	testutils.AssertPage(suite.T(), recorder, http.StatusOK, "Sign in")
	suite.Equal(1, suite.userDetailsCalls())
	_, ok := suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.False(ok)
}

func (suite *ConsoleTestSuite) TestRestore_OncePerBrowserSession() {
	suite.login()

	// the login response already proved the token
	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/"), http.StatusOK, "Dashboard")
	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/profile"), http.StatusOK)
	suite.Equal(0, suite.userDetailsCalls())

	suite.httpSuite.EndBrowserSession()
	_, ok := suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.Require().True(ok)

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/"), http.StatusOK, "Dashboard")
	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/domains"), http.StatusOK)
	suite.Equal(1, suite.userDetailsCalls())
}

func (suite *ConsoleTestSuite) TestProfile_RefreshToken() {
	suite.login()

	recorder := suite.httpSuite.PostForm("/profile/refresh", nil)

	testutils.AssertPage(suite.T(), recorder, http.StatusOK, handlers.MsgTokenRefreshed)
	token, _ := suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.Equal(testutils.FakeRefreshToken, token)
	// the refreshed token keeps working
	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/domains"), http.StatusOK)
	suite.Equal("Bearer "+testutils.FakeRefreshToken, suite.fake.LastRequest().Header.Get("Authorization"))
}

func (suite *ConsoleTestSuite) TestProfile_ChangePassword() {
	suite.login()

	recorder := suite.httpSuite.PostForm("/profile/password", url.Values{"current_password": {"nope"}, "new_password": {"n3w"}})
	testutils.AssertPage(suite.T(), recorder, http.StatusBadRequest, "Current password is incorrect")

	recorder = suite.httpSuite.PostForm("/profile/password", url.Values{"current_password": {"x"}})
	testutils.AssertPage(suite.T(), recorder, http.StatusBadRequest, handlers.MsgPasswordsRequired)

	recorder = suite.httpSuite.PostForm("/profile/password", url.Values{
		"current_password": {testutils.FakePassword},
		"new_password":     {"n3w"},
	})
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, handlers.MsgPasswordChanged)

	// the session survives the change
	token, _ := suite.httpSuite.Cookie(storage.KeyAuthToken)
	suite.Equal(testutils.FakeToken, token)
}

func (suite *ConsoleTestSuite) TestTenants_SelectScopesCalls() {
	suite.login()
	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/tenants"), http.StatusOK, "Acme", "Globex", "EU region")

	recorder := suite.httpSuite.PostForm("/tenants/select", url.Values{"tenant_id": {"2"}})
	testutils.AssertRedirect(suite.T(), recorder, http.StatusSeeOther, "/")

	id, ok := suite.httpSuite.Cookie(storage.KeySelectedTenantID)
	suite.True(ok)
	suite.Equal("2", id)

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/domains"), http.StatusOK, "Tenant: Globex")
	suite.Equal("2", suite.fake.LastRequest().Header.Get(client.HeaderTenantID))

	recorder = suite.httpSuite.PostForm("/tenants/clear", nil)
	testutils.AssertRedirect(suite.T(), recorder, http.StatusSeeOther, "/")
	_, ok = suite.httpSuite.Cookie(storage.KeySelectedTenantID)
	suite.False(ok)

	suite.httpSuite.Get("/domains")
	suite.Empty(suite.fake.LastRequest().Header.Get(client.HeaderTenantID))
}

func (suite *ConsoleTestSuite) TestTenants_SelectRejected() {
	suite.login()

	recorder := suite.httpSuite.PostForm("/tenants/select", url.Values{"tenant_id": {"99"}})
	testutils.AssertPage(suite.T(), recorder, http.StatusNotFound, "tenant not found")

	recorder = suite.httpSuite.PostForm("/tenants/select", url.Values{"tenant_id": {"abc"}})
	testutils.AssertPage(suite.T(), recorder, http.StatusBadRequest, "must be a positive integer")

	_, ok := suite.httpSuite.Cookie(storage.KeySelectedTenantID)
	suite.False(ok)
}

func (suite *ConsoleTestSuite) TestDashboard_Counts() {
	suite.login()
	domainID := suite.fake.Seed("domains", testutils.NewDomainFactory().Create())
	extensions := testutils.NewExtensionFactory()
	suite.fake.Seed("extensions", extensions.WithNumber(domainID, "1001"))
	suite.fake.Seed("extensions", extensions.WithNumber(domainID, "1002"))
	suite.fake.Seed("registrations", testutils.NewRegistrationFactory().Create("1001", "pbx.example.com"))

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/"), http.StatusOK,
		`Domains</a></td><td>1</td>`,
		`Extensions</a></td><td>2</td>`,
		`Voicemail boxes</a></td><td>0</td>`,
		`Active registrations</td><td>1</td>`,
		"No tenant selected",
	)
}

func (suite *ConsoleTestSuite) TestDashboard_PartialFailure() {
	suite.login()
	suite.fake.Reject(http.MethodGet, "/api/freeswitch/registrations", http.StatusInternalServerError, `{}`)

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/"), http.StatusOK,
		`Domains</a></td><td>0</td>`,
		`Active registrations</td><td>unavailable</td>`,
		client.MsgServerError,
		"Failed to fetch registrations",
	)
}

func (suite *ConsoleTestSuite) TestDomains_CRUD() {
	suite.login()

	recorder := suite.httpSuite.PostForm("/domains", url.Values{
		"domain_name":    {"example.com"},
		"domain_enabled": {"true"},
	})
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, "example.com", client.MsgCreated)
	suite.Equal(map[string]interface{}{"domain_name": "example.com", "domain_enabled": "true"},
		suite.lastWrite(http.MethodPost, "/api/freeswitch/domains"))

	records := suite.fake.Records("domains")
	suite.Require().Len(records, 1)
	id := records[0]["domain_uuid"].(string)

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/domains?edit="+id), http.StatusOK,
		"Edit domain", `action="/domains/`+id+`"`)

	recorder = suite.httpSuite.PostForm("/domains/"+id, url.Values{
		"domain_name":    {"renamed.example.com"},
		"domain_enabled": {"false"},
	})
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, "renamed.example.com", client.MsgUpdated, "New domain")
	suite.Equal("false", suite.fake.Records("domains")[0]["domain_enabled"])

	recorder = suite.httpSuite.PostForm("/domains/"+id+"/delete", nil)
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, client.MsgDeleted, "No domains")
	suite.Empty(suite.fake.Records("domains"))
}

func (suite *ConsoleTestSuite) TestDomains_CreateRejected() {
	suite.login()
	suite.fake.Reject(http.MethodPost, "/api/freeswitch/domains", http.StatusUnprocessableEntity,
		`{"detail":[{"field":"domain_name","msg":"field required"}]}`)

	recorder := suite.httpSuite.PostForm("/domains", url.Values{"domain_name": {""}})

	testutils.AssertPage(suite.T(), recorder, http.StatusUnprocessableEntity,
		"domain_name: field required", "Failed to create domain")
	suite.Empty(suite.fake.Records("domains"))
}

func (suite *ConsoleTestSuite) TestDomains_UpdateMissing() {
	suite.login()

	recorder := suite.httpSuite.PostForm("/domains/gone", url.Values{"domain_name": {"x"}})

	testutils.AssertPage(suite.T(), recorder, http.StatusNotFound, client.MsgNotFound, "Failed to update domain")
}

func (suite *ConsoleTestSuite) TestExtensions_CreatePrunesBlankFields() {
	suite.login()
	domainID := suite.fake.Seed("domains", testutils.NewDomainFactory().WithName("pbx.example.com"))

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/extensions"), http.StatusOK,
		"New extension", `<option value="`+domainID+`"`)

	recorder := suite.httpSuite.PostForm("/extensions", url.Values{
		"domain_uuid":              {domainID},
		"extension":                {"1001"},
		"enabled":                  {"true"},
		"password":                 {""},
		"number_alias":             {""},
		"effective_caller_id_name": {"Alice"},
		"forward_all_enabled":      {"false"},
		"forward_all_destination":  {""},
	})
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, client.MsgCreated, "pbx.example.com")

	suite.Equal(map[string]interface{}{
		"domain_uuid":              domainID,
		"extension":                "1001",
		"enabled":                  "true",
		"effective_caller_id_name": "Alice",
		"forward_all_enabled":      "false",
	}, suite.lastWrite(http.MethodPost, "/api/freeswitch/extensions"))
}

func (suite *ConsoleTestSuite) TestExtensions_EditShowsSettings() {
	suite.login()
	domainID := suite.fake.Seed("domains", testutils.NewDomainFactory().Create())
	extID := suite.fake.Seed("extensions", testutils.NewExtensionFactory().Create(domainID))
	suite.fake.Seed("extension-settings", testutils.NewSettingFactory().Create(extID, "sip-force-contact", "NDLB-connectile-dysfunction"))

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/extensions?edit="+extID), http.StatusOK,
		"Edit extension 1001", "sip-force-contact", "NDLB-connectile-dysfunction")
	suite.Equal("/api/freeswitch/extension-settings/extension/"+extID, suite.fake.LastRequest().Path)

	recorder := suite.httpSuite.PostForm("/extensions/"+extID, url.Values{
		"domain_uuid":  {domainID},
		"extension":    {"1001"},
		"enabled":      {"false"},
		"password":     {""},
		"user_context": {"internal"},
	})
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, client.MsgUpdated)
	suite.Equal(map[string]interface{}{
		"domain_uuid":  domainID,
		"extension":    "1001",
		"enabled":      "false",
		"user_context": "internal",
	}, suite.lastWrite(http.MethodPut, "/api/freeswitch/extensions/"+extID))
}

func (suite *ConsoleTestSuite) TestVoicemails_CRUD() {
	suite.login()
	domainID := suite.fake.Seed("domains", testutils.NewDomainFactory().Create())

	recorder := suite.httpSuite.PostForm("/voicemails", url.Values{
		"domain_uuid":                 {domainID},
		"voicemail_id":                {"1001"},
		"voicemail_password":          {""},
		"voicemail_mail_to":           {"alice@example.com"},
		"voicemail_enabled":           {"true"},
		"voicemail_attach_file":       {"true"},
		"voicemail_local_after_email": {"false"},
	})
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, client.MsgCreated, "alice@example.com")
	suite.NotContains(suite.lastWrite(http.MethodPost, "/api/freeswitch/voicemails"), "voicemail_password")

	id := suite.fake.Records("voicemails")[0]["voicemail_uuid"].(string)
	recorder = suite.httpSuite.PostForm("/voicemails/"+id, url.Values{
		"voicemail_id":       {"1001"},
		"voicemail_password": {"4321"},
		"voicemail_enabled":  {"false"},
	})
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, client.MsgUpdated)
	suite.Equal("4321", suite.lastWrite(http.MethodPut, "/api/freeswitch/voicemails/"+id)["voicemail_password"])

	recorder = suite.httpSuite.PostForm("/voicemails/"+id+"/delete", nil)
	testutils.AssertPage(suite.T(), recorder, http.StatusOK, client.MsgDeleted, "No voicemail boxes")
}

func (suite *ConsoleTestSuite) TestNetworkFailure() {
	suite.login()
	suite.fake.Close()

	testutils.AssertPage(suite.T(), suite.httpSuite.Get("/domains"), http.StatusBadGateway,
		client.MsgNetworkError, "Failed to fetch domains")
}

func (suite *ConsoleTestSuite) TestHealth() {
	var health handlers.HealthResponse
	testutils.AssertJSONResponse(suite.T(), suite.httpSuite.Get("/health"), http.StatusOK, &health)
	suite.Equal("healthy", health.Status)
	suite.Equal("healthy", health.Services["api"])

	testutils.AssertJSONResponse(suite.T(), suite.httpSuite.Get("/health/live"), http.StatusOK, nil)
	testutils.AssertJSONResponse(suite.T(), suite.httpSuite.Get("/health/ready"), http.StatusOK, nil)
	suite.Equal("/", suite.fake.LastRequest().Path)

	// an API that answers with an error status is still reachable
	suite.fake.Reject(http.MethodGet, "/", http.StatusNotFound, `{"detail":"Not Found"}`)
	testutils.AssertJSONResponse(suite.T(), suite.httpSuite.Get("/health"), http.StatusOK, &health)
	suite.Equal("healthy", health.Status)
	suite.fake.Reject(http.MethodGet, "/", http.StatusInternalServerError, `{"detail":"boom"}`)
	testutils.AssertJSONResponse(suite.T(), suite.httpSuite.Get("/health/ready"), http.StatusOK, nil)

	suite.fake.Close()
	testutils.AssertJSONResponse(suite.T(), suite.httpSuite.Get("/health"), http.StatusServiceUnavailable, &health)
	suite.Equal("unhealthy", health.Status)
	testutils.AssertJSONResponse(suite.T(), suite.httpSuite.Get("/health/ready"), http.StatusServiceUnavailable, nil)
	testutils.AssertJSONResponse(suite.T(), suite.httpSuite.Get("/health/live"), http.StatusOK, nil)
}

func (suite *ConsoleTestSuite) TestMetrics() {
	suite.login()
	suite.httpSuite.Get("/domains")

	recorder := suite.httpSuite.Get("/metrics")
	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), `pbx_console_api_requests_total{method="GET",status="200"}`)
	suite.Contains(recorder.Body.String(), `pbx_console_api_requests_total{method="POST",status="200"}`)
}

func (suite *ConsoleTestSuite) TestRequestID_Forwarded() {
	suite.login()

	recorder := suite.httpSuite.MakeRequestWithHeaders(http.MethodGet, "/domains", nil,
		map[string]string{"X-Request-Id": "req-123"})

	suite.Equal("req-123", recorder.Header().Get("X-Request-Id"))
	suite.Equal("req-123", suite.fake.LastRequest().Header.Get(client.HeaderRequestID))
}

func TestConsoleTestSuite(t *testing.T) {
	suite.Run(t, new(ConsoleTestSuite))
}
