package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nashikconnect/vyapaar/config"
	"github.com/nashikconnect/vyapaar/internal/app"
	"github.com/nashikconnect/vyapaar/internal/dbtest"
	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/webserver"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fakeTranslator mimics the Translator v3 endpoints: translations are the
// source text prefixed with the target language.
func fakeTranslator() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/translate", func(w http.ResponseWriter, r *http.Request) {
		var body []struct{ Text string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		to := r.URL.Query().Get("to")
		out := make([]map[string]interface{}, 0, len(body))
		for _, item := range body {
			out = append(out, map[string]interface{}{
				"translations": []map[string]string{{"text": "[" + to + "] " + item.Text, "to": to}},
			})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/detect", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"language":"mr","score":0.98}]`))
	})
	mux.HandleFunc("/languages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"translation":{` +
			`"hi":{"name":"Hindi","nativeName":"हिन्दी","dir":"ltr"},` +
			`"mr":{"name":"Marathi","nativeName":"मराठी","dir":"ltr"}}}`))
	})
	return mux
}

type testEnv struct {
	t   *testing.T
	app *app.Application
	e   *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := httptest.NewServer(fakeTranslator())
	t.Cleanup(srv.Close)

	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.Web.Secret = "test-secret"
	cfg.Translate.Endpoint = srv.URL
	cfg.Translate.Key = "test-key"
	cfg.Translate.Timeout = 5
	cfg.Translate.Persist = false
	cfg.Storage.Driver = "local"

	a := app.NewApplication(&cfg)
	a.OverrideDB(dbtest.Open(t))
	require.NoError(t, a.InitServices())
	require.NoError(t, a.SaveSettings(map[string]interface{}{
		"voice.PlaybackDelay":      1,
		"checkout.ProcessingDelay": 0,
	}))
	t.Cleanup(a.Release)

	webserver.ResetRoutes()
	Init()
	return &testEnv{t: t, app: a, e: webserver.NewServer(a).Echo()}
}

func (env *testEnv) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(env.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return env.send(req, token)
}

// upload posts data as the multipart field "file".
func (env *testEnv) upload(path, filename string, data []byte, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(env.t, err)
	_, _ = fw.Write(data)
	require.NoError(env.t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1"+path, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return env.send(req, token)
}

// signup creates an account through the API and returns its token.
func (env *testEnv) signup(email, role string) string {
	rec := env.do(http.MethodPost, "/auth/signup", map[string]string{
		"email": email, "password": "secret123", "full_name": "Test " + role, "role": role,
	}, "")
	require.Equal(env.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(env.t, rec)["token"].(string)
}

func (env *testEnv) adminToken() string {
	u := &domain.User{ID: common.UUID(), Email: "root@nashikconnect.com", FullName: "Root", Role: domain.RoleAdmin}
	require.NoError(env.t, env.app.Repos().Users.Create(context.Background(), u))
	token, err := env.app.Auth().IssueToken(u)
	require.NoError(env.t, err)
	return token
}

// openStore signs up a merchant with an active store and returns the token and store id.
func (env *testEnv) openStore(email string) (string, string) {
	token := env.signup(email, domain.RoleMerchant)
	rec := env.do(http.MethodPut, "/merchant/store", map[string]interface{}{
		"store_name": "Ramkund Prasad", "address": "Panchavati, Nashik", "category": "Food",
		"phone": "9876543210", "is_open": true, "is_active": true,
	}, token)
	require.Equal(env.t, http.StatusCreated, rec.Code, rec.Body.String())
	return token, decode(env.t, rec)["id"].(string)
}

func (env *testEnv) addProduct(token string, body map[string]interface{}) map[string]interface{} {
	rec := env.do(http.MethodPost, "/merchant/products", body, token)
	require.Equal(env.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(env.t, rec)
}

// decode returns the "data" object of a response.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Data
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) ([]interface{}, float64) {
	t.Helper()
	var body struct {
		Data  []interface{} `json:"data"`
		Total float64       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Data, body.Total
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func cookieHeader(rec *httptest.ResponseRecorder) string {
	var parts []string
	for _, c := range rec.Result().Cookies() {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

func newJSONRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1"+path, nil)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
