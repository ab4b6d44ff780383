package artsycli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrEmptyResponse is returned when an endpoint that must return a record
// answers with an empty body.
var ErrEmptyResponse = errors.New("artsycli: empty response body")

// APIError is returned when the server answers with a status of 400 or
// above.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func newAPIError(resp *resty.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode()}
	var body errorBody
	if json.Unmarshal(resp.Body(), &body) == nil {
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(resp.Body()))
	}
	if e.Message == "" || len(e.Message) > 200 {
		e.Message = http.StatusText(e.StatusCode)
	}
	return e
}

// IsRejected reports whether err is a 4xx answer, meaning the server
// understood the request and refused it. Retrying will not help.
func IsRejected(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
