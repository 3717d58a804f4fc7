package http_server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/half-nothing/simple-schedule/internal/api"
	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/service"
	"github.com/half-nothing/simple-schedule/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, modify func(config *c.Config)) *testServer {
	t.Helper()
	app := testutil.NewApplication(t, modify)
	services, err := service.NewServices(app, nil)
	require.NoError(t, err)
	router, err := api.NewAppRouter(services)
	require.NoError(t, err)
	return &testServer{e: NewHttpServer(app, router, services)}
}

func (server *testServer) do(t *testing.T, method, target, token string, body []byte, contentType string) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.e.ServeHTTP(rec, req)
	res := &envelope{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), res))
	}
	return rec, res
}

func (server *testServer) query(t *testing.T, path, token string, input any) (*httptest.ResponseRecorder, *envelope) {
	target := "/api/rpc/" + path
	if input != nil {
		data, err := json.Marshal(input)
		require.NoError(t, err)
		target += "?input=" + url.QueryEscape(string(data))
	}
	return server.do(t, http.MethodGet, target, token, nil, "")
}

func (server *testServer) mutate(t *testing.T, path, token string, input any) (*httptest.ResponseRecorder, *envelope) {
	data, err := json.Marshal(input)
	require.NoError(t, err)
	return server.do(t, http.MethodPost, "/api/rpc/"+path, token, data, echo.MIMEApplicationJSON)
}

func (server *testServer) setup(t *testing.T) string {
	t.Helper()
	rec, res := server.mutate(t, "init.setup", "", map[string]any{
		"username":  "admin",
		"email":     "admin@example.com",
		"password":  "password",
		"site_name": "Test Board",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	return data.Token
}

func TestShapeEndpoint(t *testing.T) {
	server := newTestServer(t)
	rec, res := server.do(t, http.MethodGet, "/api/rpc", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var shape struct {
		Routers map[string]struct {
			Procedures map[string]struct {
				Kind string `json:"kind"`
			} `json:"procedures"`
		} `json:"routers"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &shape))
	assert.Len(t, shape.Routers, 4)
	assert.Equal(t, "mutation", shape.Routers["user"].Procedures["login"].Kind)
	assert.Equal(t, "query", shape.Routers["notice"].Procedures["list"].Kind)
}

func TestRpcErrorMapping(t *testing.T) {
	server := newTestServer(t)

	rec, res := server.query(t, "init.status", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUCCESS", res.Code)

	rec, res = server.query(t, "init.setup", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_SUPPORTED", res.Code)

	rec, res = server.query(t, "missing.procedure", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PROCEDURE_NOT_FOUND", res.Code)

	rec, res = server.mutate(t, "user.register", "", map[string]any{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INPUT_INVALID", res.Code)

	rec, res = server.do(t, http.MethodPost, "/api/rpc/user.login", "", []byte("{not json"), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INPUT_INVALID", res.Code)

	rec, res = server.query(t, "user.profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", res.Code)

	rec, res = server.query(t, "user.profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_OR_EXPIRED_JWT", res.Code)
}

func TestRpcAuthenticatedCalls(t *testing.T) {
	server := newTestServer(t)
	token := server.setup(t)

	rec, res := server.query(t, "user.profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &profile))
	assert.Equal(t, "admin", profile.Username)

	rec, res = server.mutate(t, "notice.create", token, map[string]any{
		"title":   "Welcome",
		"content": "Hello everyone",
		"publish": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, res = server.query(t, "notice.list", "", map[string]any{"page_number": 1, "page_size": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &page))
	assert.EqualValues(t, 1, page.Total)

	rec, res = server.mutate(t, "init.setup", "", map[string]any{
		"username":  "other",
		"email":     "other@example.com",
		"password":  "password",
		"site_name": "Again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_INITIALIZED", res.Code)
}

func TestRpcBatch(t *testing.T) {
	server := newTestServer(t)
	input := url.QueryEscape(`{"1":{"page_number":1}}`)
	rec, res := server.do(t, http.MethodGet, "/api/rpc/init.status,notice.list,user.profile,init.setup?batch=1&input="+input, "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []struct {
		Status int    `json:"status"`
		Code   string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &results))
	require.Len(t, results, 4)
	assert.Equal(t, http.StatusOK, results[0].Status)
	assert.Equal(t, http.StatusOK, results[1].Status)
	assert.Equal(t, "UNAUTHORIZED", results[2].Code)
	assert.Equal(t, http.StatusMethodNotAllowed, results[3].Status)

	rec, res = server.do(t, http.MethodGet, "/api/rpc/init.status?batch=1&input="+url.QueryEscape(`[1,2]`), "", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INPUT_INVALID", res.Code)
}

type batchItem struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
}

func TestRpcBatchChargesRateLimitPerItem(t *testing.T) {
	server := newTestServerWith(t, func(config *c.Config) {
		config.Server.HttpServer.Limits.RateLimit = 2
		config.Server.HttpServer.Limits.MaxBatchSize = 4
	})
	batch := func(paths ...string) (*httptest.ResponseRecorder, []batchItem) {
		inputs := make(map[string]any)
		for index := range paths {
			inputs[strconv.Itoa(index)] = map[string]any{"page_number": 1}
		}
		data, err := json.Marshal(inputs)
		require.NoError(t, err)
		rec, res := server.do(t, http.MethodGet, "/api/rpc/"+strings.Join(paths, ",")+"?batch=1&input="+url.QueryEscape(string(data)), "", nil, "")
		var items []batchItem
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(res.Data, &items))
		}
		return rec, items
	}

	for range 2 {
		rec, _ := server.query(t, "init.status", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, res := server.query(t, "init.status", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", res.Code)

	// 已用尽的过程不能通过批量调用绕过限制
	rec, items := batch("init.status", "init.status", "init.status")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, http.StatusTooManyRequests, item.Status)
		assert.Equal(t, "RATE_LIMITED", item.Code)
	}

	// 批量中的重复项逐项计数
	rec, items = batch("notice.list", "notice.list", "notice.list", "schedule.list")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, items, 4)
	assert.Equal(t, http.StatusOK, items[0].Status)
	assert.Equal(t, http.StatusOK, items[1].Status)
	assert.Equal(t, "RATE_LIMITED", items[2].Code)
	assert.NotEqual(t, "RATE_LIMITED", items[3].Code)

	rec, _ = batch("user.availability", "user.availability", "user.availability", "user.availability", "user.availability")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, res = server.query(t, "user.availability", "", map[string]any{"username": "nobody"})
	assert.NotEqual(t, "RATE_LIMITED", res.Code, "oversized batch must not be charged")
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)
	server.query(t, "init.status", "", nil)
	server.query(t, "does.not.exist", "", nil)

	rec, _ := server.do(t, http.MethodGet, "/metrics", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `schedule_rpc_calls_total{code="SUCCESS",procedure="init.status"} 1`)
	assert.Contains(t, body, `schedule_rpc_calls_total{code="PROCEDURE_NOT_FOUND",procedure="unknown"} 1`)
	assert.NotContains(t, body, "does.not.exist")
}

func TestUploadImage(t *testing.T) {
	server := newTestServer(t)

	upload := func(token, filename string) (*httptest.ResponseRecorder, *envelope) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image content"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())
		return server.do(t, http.MethodPost, "/api/files/images", token, body.Bytes(), writer.FormDataContentType())
	}

	rec, res := upload("", "avatar.png")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", res.Code)

	token := server.setup(t)
	rec, res = upload(token, "avatar.exe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, res = upload(token, "avatar.png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var file struct {
		AccessPath string `json:"access_path"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &file))
	require.NotEmpty(t, file.AccessPath)

	rec, _ = server.do(t, http.MethodGet, "/api/files/"+file.AccessPath, "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fake image content", rec.Body.String())
}
