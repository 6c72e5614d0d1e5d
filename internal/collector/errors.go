package collector

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is matched by every *FetchError via errors.Is.
var ErrFetchFailed = errors.New("fetch failed")

// Kind classifies a fetch failure.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindHTTPStatus
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// FetchError describes why a fetch produced no sample.
type FetchError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("%s: %s failure (status %d): %v", ErrFetchFailed, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s failure: %v", ErrFetchFailed, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

func networkError(err error) error {
	return &FetchError{Kind: KindNetwork, Err: err}
}

func statusError(code int, body string) error {
	return &FetchError{Kind: KindHTTPStatus, StatusCode: code, Err: fmt.Errorf("body: %s", body)}
}

func parseError(format string, args ...any) error {
	return &FetchError{Kind: KindParse, Err: fmt.Errorf(format, args...)}
}
