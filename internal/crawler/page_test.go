package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type titleFunc func(ctx context.Context, url string) (string, error)

func (f titleFunc) FetchTitle(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

func TestFetchPageSuccess(t *testing.T) {
	t.Parallel()

	res := FetchPage(context.Background(), titleFunc(func(context.Context, string) (string, error) {
		return "Example Domain", nil
	}), "https://example.com")

	require.True(t, res.OK())
	require.Equal(t, "https://example.com", res.URL)
	require.Equal(t, "Example Domain", res.Title)
}

func TestFetchPageWrapsPlainErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("page load error net::ERR_NAME_NOT_RESOLVED")
	res := FetchPage(context.Background(), titleFunc(func(context.Context, string) (string, error) {
		return "", cause
	}), "https://nope.invalid")

	require.False(t, res.OK())
	require.ErrorIs(t, res.Err, cause)
	require.Equal(t, KindConnectionFailure, KindOf(res.Err))
	require.Equal(t, "Error fetching title: page load error net::ERR_NAME_NOT_RESOLVED", res.Text())
}

func TestFetchPageKeepsFetchErrorKind(t *testing.T) {
	t.Parallel()

	res := FetchPage(context.Background(), titleFunc(func(_ context.Context, url string) (string, error) {
		return "", NewFetchError(KindNavigationTimeout, url, errors.New("slow"))
	}), "https://slow.example.com")

	require.Equal(t, KindNavigationTimeout, KindOf(res.Err))
}

func TestFetchPageRecoversPanics(t *testing.T) {
	t.Parallel()

	res := FetchPage(context.Background(), titleFunc(func(context.Context, string) (string, error) {
		panic("browser exploded")
	}), "https://example.com")

	require.Equal(t, KindDriverCrash, KindOf(res.Err))
	require.Contains(t, res.Text(), "browser exploded")
}
