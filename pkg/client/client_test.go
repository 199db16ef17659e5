package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vera-byte/eauth-console/pkg/model"
)

type captured struct {
	Method  string
	Path    string
	Query   string
	Body    string
	Headers http.Header
}

// fakeBackend 记录收到的请求并返回预设响应
type fakeBackend struct {
	mu       sync.Mutex
	requests []captured
	status   int
	body     string
	delay    time.Duration
	server   *httptest.Server
}

func newFakeBackend(t *testing.T, status int, body string) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &fakeBackend{status: status, body: body}
	router := gin.New()
	router.NoRoute(func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, captured{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Query:   c.Request.URL.RawQuery,
			Body:    string(data),
			Headers: c.Request.Header.Clone(),
		})
		fb.mu.Unlock()
		if fb.delay > 0 {
			time.Sleep(fb.delay)
		}
		c.Data(fb.status, "application/json", []byte(fb.body))
	})
	fb.server = httptest.NewServer(router)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) last(t *testing.T) captured {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.requests, "no request reached the backend")
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.requests)
}

type fakeSession struct {
	token   string
	cleared int
}

func (s *fakeSession) Token() string { return s.token }

func (s *fakeSession) Clear(context.Context) error {
	s.token = ""
	s.cleared++
	return nil
}

type recorder struct {
	mu        sync.Mutex
	messages  []string
	redirects []string
}

func (r *recorder) Error(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recorder) Redirect(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, path)
}

func newTestClient(t *testing.T, fb *fakeBackend, sess *fakeSession, cfg Config) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	cfg.BaseURL = fb.server.URL + "/api"
	c, err := New(cfg, sess, WithNotifier(rec), WithNavigator(rec))
	require.NoError(t, err)
	return c, rec
}

const okList = `{"success":true,"data":[],"pagination":{"page":2,"pages":3,"per_page":10,"total":25}}`

func TestNewRequiresDomain(t *testing.T) {
	_, err := New(Config{}, &fakeSession{})
	assert.Error(t, err)

	c, err := New(Config{Domain: "https://eauth.example.com/"}, &fakeSession{})
	require.NoError(t, err)
	assert.Equal(t, "https://eauth.example.com/api", c.BaseURL())
	assert.Equal(t, "/login", c.LoginPath())
}

func TestListRolesOmitsEmptySearch(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, okList)
	c, rec := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	env, err := c.ListRoles(context.Background(), model.RoleQuery{PageQuery: model.PageQuery{Page: 2}, Search: ""})
	require.NoError(t, err)
	assert.True(t, env.Success)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 25, env.Pagination.Total)

	got := fb.last(t)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/config/role", got.Path)
	assert.Equal(t, "page=2", got.Query)
	assert.Empty(t, rec.messages)
}

func TestApiBindRolesSendsIdList(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true,"data":null}`)
	c, _ := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	_, err := c.ApiBindRoles(context.Background(), 7, model.IdList{Ids: []int{1, 2}})
	require.NoError(t, err)

	got := fb.last(t)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/config/api/7/role", got.Path)
	assert.JSONEq(t, `{"ids":[1,2]}`, got.Body)
	assert.Equal(t, "application/json", got.Headers.Get("Content-Type"))
}

func TestUnbindSendsBodyWithDelete(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true,"data":null}`)
	c, _ := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	_, err := c.ApiUnbindRoles(context.Background(), 3, model.IdList{Ids: []int{9}})
	require.NoError(t, err)
	got := fb.last(t)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/api/config/api/3/role", got.Path)
	assert.JSONEq(t, `{"ids":[9]}`, got.Body)

	_, err = c.RoleUnbindApis(context.Background(), 4, model.IdList{Ids: []int{1}})
	require.NoError(t, err)
	got = fb.last(t)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/api/config/role/4/api", got.Path)
}

func TestAuthorizationHeader(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, okList)

	c, _ := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})
	_, err := c.ListUsers(context.Background(), model.UserQuery{})
	require.NoError(t, err)
	got := fb.last(t)
	assert.Equal(t, "Bearer tok", got.Headers.Get("Authorization"))
	assert.NotEmpty(t, got.Headers.Get(RequestIDHeader))

	c, _ = newTestClient(t, fb, &fakeSession{token: "JWT abc"}, Config{})
	_, err = c.ListUsers(context.Background(), model.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, "JWT abc", fb.last(t).Headers.Get("Authorization"))

	c, _ = newTestClient(t, fb, &fakeSession{token: "tok"}, Config{AuthScheme: RawAuthScheme})
	_, err = c.ListUsers(context.Background(), model.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, "tok", fb.last(t).Headers.Get("Authorization"))
}

func TestMissingTokenRedirectsBeforeDispatch(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, okList)
	c, rec := newTestClient(t, fb, &fakeSession{}, Config{})

	env, err := c.ListApis(context.Background(), model.ApiQuery{})
	assert.Nil(t, env)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, []string{"/login"}, rec.redirects)
	assert.Zero(t, fb.count())
}

func TestLoginIsPublic(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true,"data":{"token":"abc"}}`)
	c, rec := newTestClient(t, fb, &fakeSession{}, Config{})

	env, err := c.Login(context.Background(), model.Login{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "abc", env.Data.Value)
	assert.Empty(t, rec.redirects)

	got := fb.last(t)
	assert.Equal(t, "/api/auth/login", got.Path)
	assert.Empty(t, got.Headers.Get("Authorization"))
}

func TestEnvelopeFailureNotifies(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":false,"data":null,"error_message":"X","detail":{"field": "name"}}`)
	c, rec := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	env, err := c.CreateRole(context.Background(), model.RoleInput{Name: "ops"})
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.False(t, env.Success)

	var envErr *model.EnvelopeError
	assert.True(t, errors.As(env.Err(), &envErr))

	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "X")
	assert.Contains(t, rec.messages[0], `{"field":"name"}`)
	assert.Empty(t, rec.redirects)
}

func TestUnauthorizedRedirectsAndClearsSession(t *testing.T) {
	fb := newFakeBackend(t, http.StatusUnauthorized, `not json at all`)
	sess := &fakeSession{token: "expired"}
	c, rec := newTestClient(t, fb, sess, Config{})

	_, err := c.ListApis(context.Background(), model.ApiQuery{})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, []string{"/login"}, rec.redirects)
	assert.Equal(t, 1, sess.cleared)
	assert.Empty(t, sess.token)
	assert.Empty(t, rec.messages)
}

func TestForbiddenNotifiesWithoutRedirect(t *testing.T) {
	fb := newFakeBackend(t, http.StatusForbidden, `{"success":false,"error_message":"nope"}`)
	c, rec := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	_, err := c.DeleteRole(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
	assert.Equal(t, []string{PermissionDeniedMessage}, rec.messages)
	assert.Empty(t, rec.redirects)
}

func TestUnprocessableNotifiesFromBody(t *testing.T) {
	fb := newFakeBackend(t, http.StatusUnprocessableEntity, `{"success":false,"error_message":"invalid email","detail":[{"loc":["email"]}]}`)
	c, rec := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	_, err := c.UpdateUser(context.Background(), 1, model.UserUpdate{Email: "bad"})
	require.Error(t, err)
	assert.True(t, IsUnprocessable(err))

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	require.NotNil(t, respErr.Envelope)
	assert.Equal(t, "invalid email", respErr.Envelope.ErrorMessage)

	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "invalid email")
	assert.Contains(t, rec.messages[0], `[{"loc":["email"]}]`)
	assert.Empty(t, rec.redirects)
}

func TestOtherStatusPropagatesWithoutSideEffects(t *testing.T) {
	fb := newFakeBackend(t, http.StatusInternalServerError, `oops`)
	c, rec := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	_, err := c.OperateLogs(context.Background(), model.OperateLogQuery{})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Empty(t, rec.messages)
	assert.Empty(t, rec.redirects)
}

func TestTimeoutRejectsWithoutRetry(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, okList)
	fb.delay = 300 * time.Millisecond
	c, rec := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{Timeout: 50 * time.Millisecond})

	_, err := c.SecurityLogs(context.Background(), model.SecurityLogQuery{})
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
	assert.Equal(t, 1, fb.count())
	assert.Empty(t, rec.messages)
}

func TestWithOverridesCapabilities(t *testing.T) {
	fb := newFakeBackend(t, http.StatusForbidden, `{}`)
	c, base := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	scoped := &recorder{}
	_, err := c.With(WithNotifier(scoped)).LightRoles(context.Background())
	require.Error(t, err)
	assert.Len(t, scoped.messages, 1)
	assert.Empty(t, base.messages)
}

func TestEndpointPaths(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true,"data":null}`)
	c, _ := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})
	ctx := context.Background()

	cases := []struct {
		call   func() error
		method string
		path   string
	}{
		{func() error { _, err := c.CreateApi(ctx, model.ApiInput{URL: "/x", Method: "GET"}); return err }, http.MethodPost, "/api/config/api"},
		{func() error { _, err := c.UpdateApi(ctx, 2, model.ApiInput{}); return err }, http.MethodPut, "/api/config/api/2"},
		{func() error { _, err := c.DeleteApi(ctx, 2); return err }, http.MethodDelete, "/api/config/api/2"},
		{func() error { _, err := c.UpdateRole(ctx, 3, model.RoleInput{}); return err }, http.MethodPut, "/api/config/role/3"},
		{func() error { _, err := c.RoleUnboundApis(ctx, 3, model.ApiQuery{}); return err }, http.MethodGet, "/api/config/role/unbind/3"},
		{func() error { _, err := c.RoleBindApis(ctx, 3, model.IdList{}); return err }, http.MethodPut, "/api/config/role/3/api"},
		{func() error { _, err := c.RoleBoundUsers(ctx, 3, model.UserQuery{}); return err }, http.MethodGet, "/api/config/role/3/bound-users"},
		{func() error { _, err := c.GrantUserRoles(ctx, 4, model.IdList{}); return err }, http.MethodPost, "/api/config/user/4/role"},
		{func() error { _, err := c.RegisterUser(ctx, model.UserRegister{}); return err }, http.MethodPost, "/api/config/user/register"},
		{func() error { _, err := c.ResetUser(ctx, model.UserReset{}); return err }, http.MethodPost, "/api/config/user/reset"},
		{func() error { _, err := c.ChangePassword(ctx, model.ChangePassword{}); return err }, http.MethodPost, "/api/config/user/change-password"},
		{func() error { _, err := c.Logout(ctx); return err }, http.MethodPost, "/api/auth/logout"},
		{func() error { _, err := c.SecurityLogs(ctx, model.SecurityLogQuery{}); return err }, http.MethodGet, "/api/log/security-log"},
	}
	for _, tc := range cases {
		require.NoError(t, tc.call())
		got := fb.last(t)
		assert.Equal(t, tc.method, got.Method, tc.path)
		assert.Equal(t, tc.path, got.Path)
	}
}

func TestEmptySuccessBody(t *testing.T) {
	fb := newFakeBackend(t, http.StatusNoContent, "")
	c, _ := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	env, err := c.DeleteApi(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, json.RawMessage(nil), env.Data)
}

func TestEnvelopeFailureIgnoresUnexpectedData(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":false,"data":{},"error_message":"bad filter"}`)
	c, rec := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	env, err := c.ListRoles(context.Background(), model.RoleQuery{})
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Equal(t, "bad filter", env.ErrorMessage)

	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "bad filter")
}

func TestSuccessWithUnexpectedDataFails(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true,"data":{}}`)
	c, rec := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	env, err := c.ListRoles(context.Background(), model.RoleQuery{})
	require.Error(t, err)
	assert.Nil(t, env)
	assert.Contains(t, err.Error(), "decode response")
	assert.Empty(t, rec.messages)
}

func TestSecurityLogsAcceptZonelessTimestamps(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true,"data":[
		{"id":1,"username":"alice","ip_addr":"10.0.0.1","operate":"login","success":true,"operate_datetime":"2024-01-01T12:00:00"},
		{"id":2,"username":"bob","ip_addr":"10.0.0.2","operate":"login","success":false,"operate_datetime":"2024-01-02T08:30:00Z"}
	]}`)
	c, _ := newTestClient(t, fb, &fakeSession{token: "tok"}, Config{})

	env, err := c.SecurityLogs(context.Background(), model.SecurityLogQuery{})
	require.NoError(t, err)
	require.Len(t, env.Data, 2)
	assert.Equal(t, model.Datetime("2024-01-01T12:00:00"), env.Data[0].OperateDatetime)

	at, ok := env.Data[0].OperateDatetime.Time()
	require.True(t, ok)
	assert.Equal(t, 12, at.Hour())
}
