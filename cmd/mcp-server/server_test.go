package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/intbound"
	"github.com/njchilds90/intbound/internal/logging"
	"github.com/njchilds90/intbound/internal/metrics"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	tb := &intbound.Toolbox{
		Cache:    intbound.NewCache(),
		Searcher: &intbound.Searcher{Observer: metrics.New(reg)},
	}
	srv := httptest.NewServer(newRouter(tb, reg, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func postTool(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestTool_Search(t *testing.T) {
	srv := newTestServer(t)
	resp, out := postTool(t, srv, `{"tool":"search","params":{"family":"pi","a":14885392687,"b":"-4738167652"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, out["error"])

	result := out["result"].(map[string]any)
	assert.Equal(t, "pi", result["family"])
	assert.EqualValues(t, 23, result["shift"])
	assert.Equal(t, []any{"629602886415/653752", "-1184541913/256", "116946872953727/20920064"}, result["coefficients"])
	assert.Contains(t, out["string"], "Bounds   : 0, 1")
}

func TestTool_FailuresAreOK(t *testing.T) {
	srv := newTestServer(t)
	resp, out := postTool(t, srv, `{"tool":"search","params":{"family":"pi","a":"-1","b":"0","limit":2}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no_solution", out["class"])
	assert.NotEmpty(t, out["error"])

	_, out = postTool(t, srv, `{"tool":"zeta","params":{"n":3}}`)
	assert.Equal(t, "invalid_input", out["class"])
}

func TestTool_BadRequests(t *testing.T) {
	r := newRouter(intbound.NewToolbox(), prometheus.NewRegistry(), logging.Discard())
	for name, body := range map[string]string{
		"not json":      `{"tool":`,
		"unknown field": `{"tool":"families","extra":1}`,
		"trailing data": `{"tool":"families"} {"tool":"families"}`,
		"oversized":     `{"tool":"families","params":{"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var out map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	_, err = uuid.Parse(resp.Header.Get(requestIDHeader))
	assert.NoError(t, err, "a fresh id is issued")

	id := uuid.NewString()
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, id)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(requestIDHeader))

	req.Header.Set(requestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(requestIDHeader))
}

func TestHealthAndSchema(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var schema struct {
		Tools []map[string]any `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&schema))
	assert.Len(t, schema.Tools, 6)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	postTool(t, srv, `{"tool":"search","params":{"family":"e","a":"193","b":"-71"}}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `intbound_searches_total{family="e",result="certified"} 1`)
}

func TestRecovery(t *testing.T) {
	r := newRouter(intbound.NewToolbox(), prometheus.NewRegistry(), logging.Discard())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
