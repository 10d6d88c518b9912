package main

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"freeswitch-admin-console/internal/client"
	"freeswitch-admin-console/internal/config"
	apperrors "freeswitch-admin-console/internal/errors"
	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/storage"
	"freeswitch-admin-console/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

func TestPayloadFlags_Decode(t *testing.T) {
	p := payloadFlags{
		data: `{"dialplan_name":"inbound","dialplan_order":100}`,
		sets: []string{"dialplan_order=200", "dialplan_context=public"},
	}

	var d freeswitch.DialplanCreate
	require.NoError(t, p.decode(&d))
	require.NotNil(t, d.DialplanName)
	require.NotNil(t, d.DialplanOrder)
	require.NotNil(t, d.DialplanContext)
	assert.Equal(t, "inbound", *d.DialplanName)
	assert.Equal(t, 200, *d.DialplanOrder)
	assert.Equal(t, "public", *d.DialplanContext)
}

func TestPayloadFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		flags   payloadFlags
		target  interface{}
		wantErr string
	}{
		{"set without value", payloadFlags{sets: []string{"domain_name"}}, &freeswitch.DomainCreate{}, "invalid --set"},
		{"set without key", payloadFlags{sets: []string{"=pbx"}}, &freeswitch.DomainCreate{}, "invalid --set"},
		{"malformed data", payloadFlags{data: `{"domain_name":`}, &freeswitch.DomainCreate{}, "invalid --data"},
		{"unknown field", payloadFlags{sets: []string{"domain_nmae=pbx"}}, &freeswitch.DomainCreate{}, "invalid payload"},
		{"non-numeric order", payloadFlags{sets: []string{"dialplan_order=first"}}, &freeswitch.DialplanCreate{}, "invalid payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.flags.decode(tt.target)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 10, coerce("dialplan_order", "10"))
	assert.Equal(t, "ten", coerce("dialplan_order", "ten"))
	assert.Equal(t, "10", coerce("extension", "10"))
}

// PbxctlTestSuite runs the command tree against a fake API with a state file
// in a temporary directory.
type PbxctlTestSuite struct {
	suite.Suite
	api       *testutils.FakeAPI
	stateFile string
}

func (suite *PbxctlTestSuite) SetupTest() {
	suite.api = testutils.NewFakeAPI(suite.T())
	suite.stateFile = filepath.Join(suite.T().TempDir(), "state.yaml")
}

func (suite *PbxctlTestSuite) loader() (*config.Config, error) {
	return &config.Config{
		Environment:       "test",
		LogLevel:          "error",
		APIBaseURL:        suite.api.URL(),
		RequestTimeoutSec: 5,
		StateFile:         suite.stateFile,
	}, nil
}

// run executes one invocation and returns what it wrote to stdout and stderr
func (suite *PbxctlTestSuite) run(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := NewRootCMD(&out, &errOut, suite.loader)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (suite *PbxctlTestSuite) login() {
	out, _, err := suite.run("login", "-u", testutils.FakeUsername, "-p", testutils.FakePassword)
	suite.Require().NoError(err)
	suite.Require().Contains(out, "Signed in as admin")
}

// lastWrite returns the most recent call with method to the fake API
func (suite *PbxctlTestSuite) lastWrite(method string) testutils.RecordedRequest {
	requests := suite.api.Requests()
	for i := len(requests) - 1; i >= 0; i-- {
		if requests[i].Method == method {
			return requests[i]
		}
	}
	suite.FailNow("no " + method + " request recorded")
	return testutils.RecordedRequest{}
}

func (suite *PbxctlTestSuite) TestWhoami_WithoutSession() {
	_, _, err := suite.run("whoami")

	suite.ErrorIs(err, apperrors.ErrNotAuthenticated)
}

func (suite *PbxctlTestSuite) TestLogin_PersistsSession() {
	suite.login()

	store, err := storage.OpenFileStore(suite.stateFile)
	suite.Require().NoError(err)
	token, ok := store.Get(storage.KeyAuthToken)
	suite.True(ok)
	suite.Equal(testutils.FakeToken, token)

	out, _, err := suite.run("whoami", "-o", "json")
	suite.Require().NoError(err)
	suite.Equal("admin@example.com", gjson.Get(out, "user_email").String())
}

func (suite *PbxctlTestSuite) TestLogin_BadPassword() {
	_, errOut, err := suite.run("login", "-u", testutils.FakeUsername, "-p", "wrong")

	suite.Require().Error(err)
	suite.Contains(err.Error(), "Incorrect username or password")
	suite.Contains(errOut, "ERROR Incorrect username or password")

	_, _, err = suite.run("whoami")
	suite.ErrorIs(err, apperrors.ErrNotAuthenticated)
}

func (suite *PbxctlTestSuite) TestWhoami_RejectedTokenSignsOut() {
	store, err := storage.OpenFileStore(suite.stateFile)
	suite.Require().NoError(err)
	suite.Require().NoError(store.Set(storage.KeyAuthToken, "stale"))

	_, errOut, err := suite.run("whoami")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "session rejected")
	// 401 is inert: nothing is shown for it
	suite.NotContains(errOut, "ERROR")

	store, err = storage.OpenFileStore(suite.stateFile)
	suite.Require().NoError(err)
	_, ok := store.Get(storage.KeyAuthToken)
	suite.False(ok)
}

func (suite *PbxctlTestSuite) TestLogout() {
	suite.login()

	out, _, err := suite.run("logout")
	suite.Require().NoError(err)
	suite.Contains(out, "Signed out")

	_, _, err = suite.run("domains", "list")
	suite.ErrorIs(err, apperrors.ErrNotAuthenticated)
}

func (suite *PbxctlTestSuite) TestDomains_CRUD() {
	suite.login()

	out, errOut, err := suite.run("domains", "create", "--set", "domain_name=pbx.example.com", "-o", "json")
	suite.Require().NoError(err)
	suite.Contains(errOut, client.MsgCreated)
	id := gjson.Get(out, "domain_uuid").String()
	suite.Require().NotEmpty(id)
	suite.Equal(`{"domain_name":"pbx.example.com"}`, string(suite.lastWrite("POST").Body))

	out, _, err = suite.run("domains", "list")
	suite.Require().NoError(err)
	suite.Contains(out, "NAME")
	suite.Contains(out, "pbx.example.com")

	out, errOut, err = suite.run("domains", "update", id, "--data", `{"domain_enabled":"false"}`, "-o", "yaml")
	suite.Require().NoError(err)
	suite.Contains(errOut, client.MsgUpdated)
	suite.Contains(out, "domain_enabled: \"false\"")

	_, errOut, err = suite.run("domains", "delete", id)
	suite.Require().NoError(err)
	suite.Contains(errOut, client.MsgDeleted)
	suite.Empty(suite.api.Records("domains"))
}

func (suite *PbxctlTestSuite) TestDomains_GetMissing() {
	suite.login()

	_, errOut, err := suite.run("domains", "get", "nope")

	var apiErr *apperrors.APIError
	suite.Require().ErrorAs(err, &apiErr)
	suite.Equal(404, apiErr.StatusCode)
	suite.Contains(errOut, client.MsgNotFound)
}

func (suite *PbxctlTestSuite) TestTenants_SelectScopesLaterCommands() {
	suite.login()

	out, _, err := suite.run("tenants", "select", "2")
	suite.Require().NoError(err)
	suite.Contains(out, "Selected tenant 2 (Globex)")

	_, _, err = suite.run("domains", "list")
	suite.Require().NoError(err)
	suite.Equal("2", suite.api.LastRequest().Header.Get(client.HeaderTenantID))

	out, _, err = suite.run("tenants", "list", "-o", "json")
	suite.Require().NoError(err)
	suite.Equal("Globex", gjson.Get(out, `#(selected==true).tenant_name`).String())

	_, _, err = suite.run("tenants", "clear")
	suite.Require().NoError(err)
	_, _, err = suite.run("domains", "list")
	suite.Require().NoError(err)
	suite.Empty(suite.api.LastRequest().Header.Get(client.HeaderTenantID))
}

func (suite *PbxctlTestSuite) TestTenants_SelectUnknown() {
	suite.login()

	_, _, err := suite.run("tenants", "select", "99")
	suite.ErrorIs(err, apperrors.ErrTenantNotFound)

	_, _, err = suite.run("tenants", "select", "abc")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "invalid tenant id")
}

func (suite *PbxctlTestSuite) TestExtensions_CreatePrunesBlankFields() {
	domainID := suite.api.Seed("domains", testutils.NewDomainFactory().Create())
	suite.login()

	_, _, err := suite.run("extensions", "create",
		"--set", "domain_uuid="+domainID,
		"--set", "extension=1001",
		"--set", "effective_caller_id_name=",
		"--set", "user_context=default",
	)
	suite.Require().NoError(err)

	body := suite.lastWrite("POST").Body
	suite.Equal("1001", gjson.GetBytes(body, "extension").String())
	suite.Equal("default", gjson.GetBytes(body, "user_context").String())
	suite.False(gjson.GetBytes(body, "effective_caller_id_name").Exists())
}

func (suite *PbxctlTestSuite) TestExtensionSettings_ByExtension() {
	domainID := suite.api.Seed("domains", testutils.NewDomainFactory().Create())
	extID := suite.api.Seed("extensions", testutils.NewExtensionFactory().Create(domainID))
	suite.api.Seed("extension-settings", testutils.NewSettingFactory().Create(extID, "record_stereo", "true"))
	suite.api.Seed("extension-settings", testutils.NewSettingFactory().Create("other", "hold_music", "local_stream://moh"))
	suite.login()

	out, _, err := suite.run("extension-settings", "by-extension", extID, "-o", "json")
	suite.Require().NoError(err)
	suite.Equal(int64(1), gjson.Get(out, "#").Int())
	suite.Equal("record_stereo", gjson.Get(out, "0.extension_setting_name").String())
}

func (suite *PbxctlTestSuite) TestDialplans_OrderSentAsNumber() {
	suite.login()

	_, _, err := suite.run("dialplans", "create", "--set", "dialplan_name=inbound", "--set", "dialplan_order=200")
	suite.Require().NoError(err)

	order := gjson.GetBytes(suite.lastWrite("POST").Body, "dialplan_order")
	suite.Equal(gjson.Number, order.Type)
	suite.Equal(int64(200), order.Int())
}

func (suite *PbxctlTestSuite) TestRegistrations_ReadOnly() {
	suite.api.Seed("registrations", testutils.NewRegistrationFactory().Create("1001", "pbx.example.com"))
	suite.login()

	out, _, err := suite.run("registrations", "list")
	suite.Require().NoError(err)
	suite.Contains(out, "REALM")
	suite.Contains(out, "pbx.example.com")

	_, _, err = suite.run("registrations", "create", "--set", "reg_user=1002")
	suite.Error(err)
}

func (suite *PbxctlTestSuite) TestFailuresNameTheOperation() {
	suite.login()

	suite.api.Reject(http.MethodPost, "/api/freeswitch/contacts", http.StatusBadRequest, `{"detail":"Contact exists"}`)
	_, errOut, err := suite.run("contacts", "create", "--set", "contact_name=Alice")
	suite.Error(err)
	suite.Contains(errOut, "ERROR Contact exists")
	suite.Contains(errOut, "ERROR Failed to create contact")

	suite.api.Reject(http.MethodGet, "/api/freeswitch/users", http.StatusInternalServerError, `{"detail":"boom"}`)
	_, errOut, err = suite.run("users", "list")
	suite.Error(err)
	suite.Contains(errOut, "ERROR Failed to fetch users")

	_, errOut, err = suite.run("dialplans", "delete", "nope")
	suite.Error(err)
	suite.Contains(errOut, "ERROR Failed to delete dialplan")
}

func (suite *PbxctlTestSuite) TestUnknownOutputFormat() {
	_, _, err := suite.run("domains", "list", "-o", "xml")

	suite.Require().Error(err)
	suite.Contains(err.Error(), `unknown output format "xml"`)
}

func (suite *PbxctlTestSuite) TestNetworkFailure() {
	suite.login()
	suite.api.Close()

	_, errOut, err := suite.run("domains", "list")

	var netErr *apperrors.NetworkError
	suite.ErrorAs(err, &netErr)
	suite.Contains(errOut, client.MsgNetworkError)
}

func TestPbxctlTestSuite(t *testing.T) {
	suite.Run(t, new(PbxctlTestSuite))
}
