package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"acrn-configurator/api"
	"acrn-configurator/history"
	"acrn-configurator/window"
)

const testConfigPath = "/home/u/.config/.acrn-configurator/config.json"

type testEnv struct {
	srv     *httptest.Server
	fs      afero.Fs
	store   *history.Store
	windows *window.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testConfigPath, history.NewDocument().Marshal(), 0o644))

	log := zap.NewNop().Sugar()
	env := &testEnv{
		fs:      fs,
		store:   history.Load(fs, log, testConfigPath),
		windows: window.NewManager(),
	}
	staticFS := fstest.MapFS{
		"index.html": {Data: []byte("<html></html>")},
	}
	env.srv = httptest.NewServer(api.RegisterRoutes(api.Deps{
		Windows: env.windows,
		Store:   env.store,
		FS:      fs,
		Log:     log,
	}, staticFS))
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func errorText(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	return body.Error
}

func (e *testEnv) openWindow(t *testing.T) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/windows", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var w struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &w)
	require.NotEmpty(t, w.ID)
	return w.ID
}
