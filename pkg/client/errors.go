package client

import (
	"errors"
	"fmt"
)

type DecodeErrorKind int

const (
	MalformedJSON DecodeErrorKind = iota + 1
	EmptyConditionList
)

func (k DecodeErrorKind) String() string {
	switch k {
	case MalformedJSON:
		return "malformed_json"
	case EmptyConditionList:
		return "empty_condition_list"
	default:
		return "unknown"
	}
}

// DecodeError reports a payload that does not have the current-weather shape.
type DecodeError struct {
	Kind  DecodeErrorKind
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode weather response: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("decode weather response: %s", e.Kind)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

type FetchErrorKind int

const (
	InvalidQuery FetchErrorKind = iota + 1
	TransportError
	HTTPError
	DecodeFailed
)

func (k FetchErrorKind) String() string {
	switch k {
	case InvalidQuery:
		return "invalid_query"
	case TransportError:
		return "transport_error"
	case HTTPError:
		return "http_error"
	case DecodeFailed:
		return "decode_failed"
	default:
		return "unknown"
	}
}

// FetchError is the only error type returned by the fetch operations.
// Status is set for HTTPError; Message carries the upstream "message" field when present.
type FetchError struct {
	Kind    FetchErrorKind
	Status  int
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case HTTPError:
		if e.Message != "" {
			return fmt.Sprintf("weather fetch: http status %d: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("weather fetch: http status %d", e.Status)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("weather fetch: %s: %v", e.Kind, e.Cause)
		}
		return fmt.Sprintf("weather fetch: %s", e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Cause }

// IsKind reports whether err wraps a FetchError of the given kind.
func IsKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// KindOf returns the FetchError kind wrapped by err, or 0.
func KindOf(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

func invalidQuery(cause error) *FetchError {
	return &FetchError{Kind: InvalidQuery, Cause: cause}
}

func transportError(cause error) *FetchError {
	return &FetchError{Kind: TransportError, Cause: cause}
}
