package metrics

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSite(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"standard http", "http://example.com/path", "example.com"},
		{"standard https", "https://Example.com/path", "example.com"},
		{"no scheme", "example.com/path", "example.com"},
		{"just host", "example.com", "example.com"},
		{"host with port", "example.com:8080", "example.com"},
		{"invalid url", "http://%", "unknown"},
		{"empty string", "", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeSite(tc.input); got != tc.expected {
				t.Errorf("SanitizeSite(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestObserversUpdateCollectors(t *testing.T) {
	Init()
	Init()

	ObserveTitleFetch("https://metrics.example.com/a", "static", "ok", 200*time.Millisecond)
	require.Equal(t, float64(1), testutil.ToFloat64(titlesTotal.WithLabelValues("metrics.example.com", "ok")))

	before := testutil.ToFloat64(sitemapFetchesTotal.WithLabelValues("418"))
	ObserveSitemapFetch(418)
	require.Equal(t, before+1, testutil.ToFloat64(sitemapFetchesTotal.WithLabelValues("418")))

	discovered := testutil.ToFloat64(sitemapURLsDiscovered)
	dispatched := testutil.ToFloat64(sitemapURLsDispatched)
	ObserveSitemapURLs(12, 10)
	require.Equal(t, discovered+12, testutil.ToFloat64(sitemapURLsDiscovered))
	require.Equal(t, dispatched+10, testutil.ToFloat64(sitemapURLsDispatched))

	active := testutil.ToFloat64(crawlerActiveWorkers)
	IncActiveWorkers()
	require.Equal(t, active+1, testutil.ToFloat64(crawlerActiveWorkers))
	DecActiveWorkers()
	require.Equal(t, active, testutil.ToFloat64(crawlerActiveWorkers))
}

func TestPushSkipsWithoutGateway(t *testing.T) {
	require.NoError(t, Push("", "job"))
}

func TestPushSendsToGateway(t *testing.T) {
	Init()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, Push(srv.URL, "sitemaptitles"))
	require.Equal(t, int32(1), hits.Load())
}

// Fuzz test for SanitizeSite.
func FuzzSanitizeSite(f *testing.F) {
	testcases := []string{"http://example.com", "https://google.com", "ftp://example.com"}
	for _, tc := range testcases {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, orig string) {
		sanitized := SanitizeSite(orig)
		if sanitized == "" {
			t.Errorf("SanitizeSite(%q) returned an empty string", orig)
		}
	})
}
