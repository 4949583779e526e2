package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResourceFromPath(t *testing.T) {
	tests := map[string]string{
		"/api/pools.json":                         "pools",
		"/api/pools/pool-00000001/volumes.json":   "pools",
		"api/vcontrollers/cache_stats.json":       "vcontrollers",
		"/api/consistency_groups/cg-1/clone.json": "consistency_groups",
		"/": "unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, ResourceFromPath(in), in)
	}
}

func TestNewIsIsolated(t *testing.T) {
	a, err := New(zap.NewNop())
	require.NoError(t, err)
	b, err := New(nil)
	require.NoError(t, err)

	a.RecordCommand("pools list", "success", 0.1)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.commandsTotal.WithLabelValues("pools list", "success")))
	assert.Equal(t, 0, testutil.CollectAndCount(b.commandsTotal))
}

func TestInstrumentRoundTripper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/missing.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m, err := New(zap.NewNop())
	require.NoError(t, err)
	hc := &http.Client{Transport: m.InstrumentRoundTripper(nil)}

	for _, p := range []string{"/api/pools.json", "/api/pools/pool-00000001.json", "/api/missing.json"} {
		resp, err := hc.Get(srv.URL + p)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("pools", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("missing", "GET", "404")))
}

func TestInstrumentRoundTripperError(t *testing.T) {
	m, err := New(zap.NewNop())
	require.NoError(t, err)

	failing := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	hc := &http.Client{Transport: m.InstrumentRoundTripper(failing)}
	_, err = hc.Get("http://vsa.invalid/api/drives.json")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("drives", "GET", "error")))
}

func TestWriteTextfile(t *testing.T) {
	m, err := New(zap.NewNop())
	require.NoError(t, err)
	m.RecordRequest("volumes", "POST", "200", 0.25)
	m.RecordCommand("volumes create", "success", 0.3)

	path := filepath.Join(t.TempDir(), "zadarapy.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `zadarapy_api_requests_total{method="POST",resource="volumes",status="200"} 1`)
	assert.Contains(t, string(data), `zadarapy_cli_commands_total{command="volumes create",result="success"} 1`)

	m.ResetMetrics()
	assert.Equal(t, 0, testutil.CollectAndCount(m.requestsTotal))
}
