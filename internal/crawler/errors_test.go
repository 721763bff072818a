package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyFetchError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want FetchErrorKind
	}{
		{"deadline", fmt.Errorf("chromedp run: %w", context.DeadlineExceeded), KindNavigationTimeout},
		{"chromium timeout", errors.New("page load error net::ERR_TIMED_OUT"), KindNavigationTimeout},
		{"dns", errors.New("page load error net::ERR_NAME_NOT_RESOLVED"), KindConnectionFailure},
		{"refused", errors.New("page load error net::ERR_CONNECTION_REFUSED"), KindConnectionFailure},
		{"dns error type", &net.DNSError{Err: "server misbehaving", Name: "nope.invalid"}, KindConnectionFailure},
		{"missing binary", errors.New(`exec: "google-chrome": executable file not found in $PATH`), KindDriverCrash},
		{"closed channel", errors.New("channel closed"), KindDriverCrash},
		{"other", errors.New("could not read title"), KindUnexpectedPageState},
		{"nil", nil, KindUnexpectedPageState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ClassifyFetchError(tt.err))
		})
	}
}

func TestFetchErrorPreservesMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("page load error net::ERR_NAME_NOT_RESOLVED")
	err := NewFetchError("", "https://nope.invalid", cause)

	require.Equal(t, cause.Error(), err.Error())
	require.Equal(t, KindConnectionFailure, err.Kind)
	require.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("worker: %w", err)
	require.Equal(t, KindConnectionFailure, KindOf(wrapped))
	require.Equal(t, FetchErrorKind(""), KindOf(cause))
}

func TestNewFetchErrorKeepsExplicitKind(t *testing.T) {
	t.Parallel()

	err := NewFetchError(KindDriverCrash, "https://example.com", errors.New("boom"))
	require.Equal(t, KindDriverCrash, err.Kind)
}

func TestSitemapErrors(t *testing.T) {
	t.Parallel()

	statusErr := &StatusError{URL: "https://example.com/sitemap.xml", StatusCode: 404}
	require.Contains(t, statusErr.Error(), "404")

	cause := errors.New("XML syntax error on line 1: unexpected EOF")
	parseErr := &ParseError{URL: "https://example.com/sitemap.xml", Err: cause}
	require.Equal(t, cause.Error(), parseErr.Error())
	require.ErrorIs(t, parseErr, cause)
}
