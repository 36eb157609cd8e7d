package transport

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError is a non-2xx HTTP response surfaced as an error.
type StatusError struct {
	code    int
	message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error %v: %v", e.code, e.message)
}

func (e *StatusError) Code() int       { return e.code }
func (e *StatusError) Message() string { return e.message }

func MakeStatusError(code int, message string) error {
	return &StatusError{code: code, message: message}
}

// ErrorFromResponse converts a non-2xx response into a *StatusError,
// consuming up to a small prefix of the body for the message. 2xx
// responses yield nil.
func ErrorFromResponse(rsp *http.Response) error {
	if 200 <= rsp.StatusCode && rsp.StatusCode <= 299 {
		return nil
	}
	var b strings.Builder
	_, err := io.Copy(&b, io.LimitReader(rsp.Body, 4096))
	if err != nil {
		return MakeStatusError(rsp.StatusCode, fmt.Sprintf("read body: %v", err))
	}
	return MakeStatusError(rsp.StatusCode, strings.TrimSpace(b.String()))
}
