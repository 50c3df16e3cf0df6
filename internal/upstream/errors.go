package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNotFound  = errors.New("upstream resource not found")
	ErrNoResults = errors.New("upstream returned no results")
	ErrTimeout   = errors.New("upstream timed out")
)

// Error describes a failed call to a third-party API. Status is zero for
// transport failures.
type Error struct {
	API    string
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: http %d: %s", e.API, e.Op, e.Status, e.Body)
	}

	return fmt.Sprintf("%s %s: %v", e.API, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func mapHTTPError(api, op string, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	body := truncateUTF8(strings.TrimSpace(string(resp.Body())), maxErrorBody)

	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	e := &Error{API: api, Op: op, Status: resp.StatusCode(), Body: body}

	if resp.StatusCode() == http.StatusNotFound {
		e.Err = ErrNotFound
	}

	return e
}

func mapTransportError(api, op string, err error) error {
	var netErr net.Error

	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{API: api, Op: op, Err: fmt.Errorf("%w: %w", ErrTimeout, err)}
	}

	return &Error{API: api, Op: op, Err: err}
}

const maxErrorBody = 512

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
