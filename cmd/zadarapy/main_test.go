package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVPSA answers every request with a canned reply keyed by path.
type fakeVPSA struct {
	server *httptest.Server

	mu      sync.Mutex
	replies map[string]string
	status  int
	methods []string
	paths   []string
}

func newFakeVPSA(t *testing.T) *fakeVPSA {
	t.Helper()
	f := &fakeVPSA{replies: map[string]string{}, status: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.methods = append(f.methods, r.Method)
		f.paths = append(f.paths, r.URL.Path)
		reply, ok := f.replies[r.URL.Path]
		if !ok {
			reply = `{"response":{"status":0}}`
		}
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(f.server.Close)

	// Keep the user's real config and environment out of the tests.
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"ZADARA_HOST", "ZADARA_KEY", "ZADARA_PORT", "ZADARA_SECURE"} {
		t.Setenv(name, "")
	}
	return f
}

func (f *fakeVPSA) reply(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[path] = body
}

func (f *fakeVPSA) hits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paths)
}

// args returns the connection flags pointing at the fake server.
func (f *fakeVPSA) args(t *testing.T, extra ...string) []string {
	t.Helper()
	u, err := url.Parse(f.server.URL)
	require.NoError(t, err)
	conn := []string{"--api-host", u.Hostname(), "--api-port", u.Port(), "--api-key", "secret-key", "--insecure"}
	return append(extra, conn...)
}

func execute(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(""), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestMissingHostFailsBeforeRequest(t *testing.T) {
	f := newFakeVPSA(t)

	code, _, errOut := execute("pools", "list", "--api-key", "secret-key")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "There was an error with a parameter passed to the API:")
	assert.Contains(t, errOut, "the API hostname was not defined")
	assert.Equal(t, 0, f.hits())
}

func TestMissingKeyFailsBeforeRequest(t *testing.T) {
	f := newFakeVPSA(t)

	code, _, errOut := execute("pools", "list", "--api-host", "127.0.0.1")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "the API authentication key was not defined")
	assert.Equal(t, 0, f.hits())
}

func TestHostFromConfigFile(t *testing.T) {
	f := newFakeVPSA(t)
	u, err := url.Parse(f.server.URL)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vpsa.ini")
	ini := "[DEFAULT]\nhost = " + u.Hostname() + "\nport = " + u.Port() + "\nkey = file-key\nsecure = False\n"
	require.NoError(t, os.WriteFile(path, []byte(ini), 0600))

	code, out, errOut := execute("pools", "list", "--api-configfile", path)

	require.Equal(t, 0, code, errOut)
	assert.Equal(t, msgEmptyResult+"\n", out)
	assert.Equal(t, 1, f.hits())
}

func TestListPools(t *testing.T) {
	f := newFakeVPSA(t)
	f.reply("/api/pools.json", `{"response":{"pools":[
		{"name":"pool-00000001","display_name":"fast","capacity":100},
		{"name":"pool-00000002","display_name":"slow","capacity":200}],"status":0}}`)

	code, out, errOut := execute(f.args(t, "pools", "list", "--limit", "10")...)

	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Count: 2")
	assert.Contains(t, out, "pool-00000001")
	assert.Contains(t, out, "slow")
	assert.Equal(t, []string{"GET"}, f.methods)
}

func TestJSONOutput(t *testing.T) {
	f := newFakeVPSA(t)
	raw := `{"response":{"pool":{"name":"pool-00000001"},"status":0}}`
	f.reply("/api/pools/pool-00000001.json", raw)

	code, out, errOut := execute(f.args(t, "pools", "get", "--pool-id", "pool-00000001", "--json")...)

	require.Equal(t, 0, code, errOut)
	assert.Equal(t, raw+"\n", out)
}

func TestReturnFieldsAndVertical(t *testing.T) {
	f := newFakeVPSA(t)
	f.reply("/api/servers.json", `{"response":{"servers":[
		{"name":"srv-00000001","display_name":"web","iqn":"iqn.2024-01.com.example:web"}],"status":0}}`)

	code, out, errOut := execute(f.args(t, "servers", "list", "-r", "name,display_name", "-V")...)

	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "web")
	assert.Contains(t, out, "srv-00000001")
	assert.NotContains(t, out, "iqn")
	assert.NotContains(t, out, "Count:")
}

func TestCommandWithoutResult(t *testing.T) {
	f := newFakeVPSA(t)

	code, out, errOut := execute(f.args(t, "pools", "delete", "--pool-id", "pool-00000001")...)

	require.Equal(t, 0, code, errOut)
	assert.Equal(t, msgSuccess+"\n", out)
	assert.Equal(t, []string{"DELETE"}, f.methods)
	assert.Equal(t, []string{"/api/pools/pool-00000001.json"}, f.paths)
}

func TestInvalidIDFailsBeforeRequest(t *testing.T) {
	f := newFakeVPSA(t)

	code, _, errOut := execute(f.args(t, "pools", "get", "--pool-id", "bogus")...)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "There was an error with a parameter passed to the API:")
	assert.Equal(t, 0, f.hits())
}

func TestInvalidCapacity(t *testing.T) {
	f := newFakeVPSA(t)

	code, _, errOut := execute(f.args(t, "volumes", "expand", "--volume-id", "volume-00000001", "--capacity", "lots")...)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "There was an error with a parameter passed to the API:")
	assert.Equal(t, 0, f.hits())
}

func TestAPIErrorIsRuntimeError(t *testing.T) {
	f := newFakeVPSA(t)
	f.reply("/api/pools.json", `{"response":{"status":1,"message":"pool is busy"}}`)

	code, out, errOut := execute(f.args(t, "pools", "list")...)

	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "There was an error at runtime returned by the API:")
	assert.Contains(t, errOut, "pool is busy")
}

func TestHTTPStatusIsRuntimeError(t *testing.T) {
	f := newFakeVPSA(t)
	f.status = http.StatusInternalServerError

	code, _, errOut := execute(f.args(t, "drives", "list")...)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "There was an error at runtime returned by the API:")
	assert.Contains(t, errOut, "500")
}

func TestHostnameAlias(t *testing.T) {
	f := newFakeVPSA(t)
	u, err := url.Parse(f.server.URL)
	require.NoError(t, err)

	code, _, errOut := execute("logs", "list", "--api-hostname", u.Hostname(), "--api-port", u.Port(), "--api-key", "k", "--insecure")

	require.Equal(t, 0, code, errOut)
	assert.Equal(t, []string{"/api/messages.json"}, f.paths)
}

func TestTimeoutMustBePositive(t *testing.T) {
	f := newFakeVPSA(t)

	code, _, errOut := execute(f.args(t, "pools", "list", "--timeout", "0")...)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "timeout must be a positive number of seconds")
	assert.Equal(t, 0, f.hits())
}

func TestFailoverRequiresConfirm(t *testing.T) {
	f := newFakeVPSA(t)

	code, _, errOut := execute(f.args(t, "controllers", "failover")...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--confirm")
	assert.Equal(t, 0, f.hits())

	code, out, errOut := execute(f.args(t, "controllers", "failover", "--confirm")...)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, msgSuccess+"\n", out)
	assert.Equal(t, []string{"/api/vcontrollers/failover.json"}, f.paths)
}

func TestHistory(t *testing.T) {
	f := newFakeVPSA(t)
	f.reply("/api/pools.json", `{"response":{"pools":[],"status":0}}`)
	db := filepath.Join(t.TempDir(), "audit", "calls.db")

	code, _, errOut := execute(f.args(t, "pools", "list", "--audit-db", db)...)
	require.Equal(t, 0, code, errOut)
	code, _, errOut = execute(f.args(t, "pools", "rename", "--pool-id", "pool-00000001", "--display-name", "fast", "--audit-db", db)...)
	require.Equal(t, 0, code, errOut)

	code, out, errOut := execute("history", "list", "--json", "--audit-db", db)
	require.Equal(t, 0, code, errOut)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "POST", entries[0]["method"])
	assert.Equal(t, "/api/pools/pool-00000001/rename.json", entries[0]["path"])
	assert.NotEmpty(t, entries[0]["invocation"])

	code, out, errOut = execute("history", "clear", "--audit-db", db)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Removed 1 entries\n", out)

	code, out, errOut = execute("history", "list", "--audit-db", db)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, msgEmptyResult+"\n", out)
}

func TestHistoryRequiresAuditDB(t *testing.T) {
	newFakeVPSA(t)

	code, _, errOut := execute("history", "list")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--audit-db is required")
}

func TestMetricsTextfile(t *testing.T) {
	f := newFakeVPSA(t)
	path := filepath.Join(t.TempDir(), "zadarapy.prom")

	code, _, errOut := execute(f.args(t, "pools", "list", "--metrics-textfile", path)...)
	require.Equal(t, 0, code, errOut)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "zadarapy_cli_commands_total")
	assert.Contains(t, string(data), `zadarapy_api_requests_total{method="GET",resource="pools",status="200"} 1`)
}

func TestMetricsTextfileRecordsFailures(t *testing.T) {
	f := newFakeVPSA(t)
	path := filepath.Join(t.TempDir(), "zadarapy.prom")

	code, _, _ := execute(f.args(t, "pools", "get", "--pool-id", "bogus", "--metrics-textfile", path)...)
	require.Equal(t, 1, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `result="error"`)
}

func TestVerboseLogsToErrorOutput(t *testing.T) {
	f := newFakeVPSA(t)

	code, out, errOut := execute(f.args(t, "pools", "list", "--verbose")...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "Resolved VPSA endpoint")
	assert.Contains(t, errOut, "API response received")
	assert.NotContains(t, out, "API response received")

	code, _, errOut = execute(f.args(t, "pools", "list", "--verbose", "--log-format", "json")...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, `"msg":"API response received"`)

	code, _, errOut = execute(f.args(t, "pools", "list")...)
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, errOut)
}

func TestVersion(t *testing.T) {
	code, out, _ := execute("--version")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, version)
}
