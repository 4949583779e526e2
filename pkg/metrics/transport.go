package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// InstrumentRoundTripper returns a RoundTripper that records every request
// passing through next. A nil next uses http.DefaultTransport.
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()

		resp, err := next.RoundTrip(req)

		duration := time.Since(start).Seconds()

		status := "error"
		if err == nil {
			status = strconv.Itoa(resp.StatusCode)
		}

		m.RecordRequest(ResourceFromPath(req.URL.Path), req.Method, status, duration)

		return resp, err
	})
}

// ResourceFromPath returns the resource collection a REST path addresses,
// e.g. "pools" for /api/pools/pool-00000001/volumes.json.
func ResourceFromPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimPrefix(path, "api/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSuffix(path, ".json")
	if path == "" {
		return "unknown"
	}
	return path
}
