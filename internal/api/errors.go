package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrAborted is returned when a request was cancelled on purpose, callers
	// should drop it silently.
	ErrAborted = errors.New("request aborted")
	// ErrUnexpectedResponseFormat is returned for JSON that is not an
	// envelope, an array or an object.
	ErrUnexpectedResponseFormat = errors.New("unexpected response format")
)

type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d %s: %s", e.Status, http.StatusText(e.Status), e.URL)
}

// DatasetTooLargeError means a paginated response carried more rows than any
// page may hold, which points at a broken server side pagination.
type DatasetTooLargeError struct {
	Count int
	Limit int
}

func (e *DatasetTooLargeError) Error() string {
	return fmt.Sprintf("dataset too large: %d records (limit %d)", e.Count, e.Limit)
}

// NetworkError is a failure below HTTP: DNS, refused connections, TLS or a
// transport timeout.
type NetworkError struct {
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %s", e.Err)
	}
	return fmt.Sprintf("network error: %s", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is an error message sent by the server inside a 2xx response.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s", e.Message)
}

func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

// classifyTransportError maps an error from the http client, ctx is the
// context the request ran under.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Timeout: true, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &NetworkError{Timeout: true, Err: err}
	}
	return &NetworkError{Err: err}
}

// UserMessage turns an error from this package into text fit for the user.
// Aborted requests have no message.
func UserMessage(err error) string {
	if err == nil || IsAborted(err) {
		return ""
	}

	var httpErr *HTTPError
	var tooLarge *DatasetTooLargeError
	var netErr *NetworkError
	var apiErr *APIError

	switch {
	case errors.As(err, &httpErr):
		return httpMessage(httpErr.Status)
	case errors.As(err, &tooLarge):
		return fmt.Sprintf(
			"Dataset too large (%d records). Please narrow your filters and try again.",
			tooLarge.Count,
		)
	case errors.As(err, &netErr):
		if netErr.Timeout {
			return "Request timed out. Your connection may be slow."
		}
		return "Connection timeout or network error. Please check your internet connection."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Failed to load data: %s", apiErr.Message)
	case errors.Is(err, ErrUnexpectedResponseFormat):
		return "Failed to load data: the server sent an unexpected response."
	}
	return fmt.Sprintf("Failed to load data: %s", err)
}

func httpMessage(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "Data not found. The requested resource may not exist."
	case status == http.StatusForbidden:
		return "Access denied. You may not have permission to access this data."
	case status == http.StatusMethodNotAllowed:
		return "API endpoint not available (Method Not Allowed). Please try again later."
	case status == http.StatusTooManyRequests:
		return "Too many requests. Please wait a moment and try again."
	case status >= 500:
		return fmt.Sprintf("Server error (%d). Please try again later.", status)
	}
	return fmt.Sprintf("HTTP error %d. Please try again.", status)
}
