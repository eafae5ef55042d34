package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates the server did not accept the reader identity.
var ErrUnauthorized = errors.New("reader is not authorized")

// ErrNotFound indicates the requested version, book or chapter does not exist.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response from the reading server.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps well-known status codes onto the sentinel errors.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
