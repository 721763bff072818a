package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrQueueClosed is returned by Queue.Dequeue after Close once no jobs remain.
var ErrQueueClosed = errors.New("queue closed")

// FetchErrorKind narrows a page fetch failure to a small set of causes.
type FetchErrorKind string

// Fetch error kinds.
const (
	KindNavigationTimeout   FetchErrorKind = "navigation_timeout"
	KindConnectionFailure   FetchErrorKind = "connection_failure"
	KindDriverCrash         FetchErrorKind = "driver_crash"
	KindUnexpectedPageState FetchErrorKind = "unexpected_page_state"
)

// FetchError wraps a page fetch failure. Error returns the underlying message
// unchanged so it can be shown to the user as-is.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

// NewFetchError builds a FetchError, classifying err when kind is empty.
func NewFetchError(kind FetchErrorKind, url string, err error) *FetchError {
	if kind == "" {
		kind = ClassifyFetchError(err)
	}
	return &FetchError{Kind: kind, URL: url, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first FetchError in err's chain, or "" if none.
func KindOf(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Chromium network error codes that mean the page never answered in time.
var timeoutMarkers = []string{
	"net::ERR_TIMED_OUT",
	"net::ERR_CONNECTION_TIMED_OUT",
	"timeout",
}

var connectionMarkers = []string{
	"net::ERR_",
	"no such host",
	"connection refused",
	"connection reset",
	"network is unreachable",
}

var driverMarkers = []string{
	"executable file not found",
	"chrome failed to start",
	"websocket",
	"browser has been closed",
	"channel closed",
	"invalid context",
	"target closed",
}

// ClassifyFetchError maps an arbitrary driver or transport error onto a kind.
func ClassifyFetchError(err error) FetchErrorKind {
	if err == nil {
		return KindUnexpectedPageState
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindNavigationTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindNavigationTimeout
	}
	msg := err.Error()
	switch {
	case containsAny(msg, timeoutMarkers):
		return KindNavigationTimeout
	case containsAny(msg, driverMarkers):
		return KindDriverCrash
	case containsAny(msg, connectionMarkers):
		return KindConnectionFailure
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return KindConnectionFailure
	}
	return KindUnexpectedPageState
}

func containsAny(s string, markers []string) bool {
	lower := strings.ToLower(s)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// StatusError reports a non-2xx response while fetching a sitemap.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// ParseError reports a sitemap body that is not well-formed XML.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
