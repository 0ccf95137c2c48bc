package sortapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

type statusRange int

const (
	statusUnknown statusRange = iota
	status1xx
	status2xx
	status3xx
	status4xx
	status5xx
)

func (sr statusRange) String() string {
	switch sr {
	case status1xx:
		return "informational response"
	case status2xx:
		return "success"
	case status3xx:
		return "redirect"
	case status4xx:
		return "client error"
	case status5xx:
		return "server error"
	default:
		return "unknown status"
	}
}

func statusRangeOf(code int) statusRange {
	switch {
	case code < 100:
		return statusUnknown
	case code < 200:
		return status1xx
	case code < 300:
		return status2xx
	case code < 400:
		return status3xx
	case code < 500:
		return status4xx
	case code < 600:
		return status5xx
	default:
		return statusUnknown
	}
}

// messageFor holds a title per status range for a given operation.
type messageFor map[statusRange]string

// StatusError is returned when the backend answers outside the 2xx range.
type StatusError struct {
	Code    int
	Message string
	Detail  string // server-provided message, if any
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

func newStatusError(code int, body []byte, titles messageFor) *StatusError {
	sr := statusRangeOf(code)
	title, ok := titles[sr]
	if !ok {
		title = fmt.Sprintf("%s (status code = %d)", sr, code)
	}
	return &StatusError{Code: code, Message: title, Detail: parseErrorMessage(body)}
}

// parseErrorMessage pulls a human message out of an error body.
// JSON bodies with "message" or "error" win; other bodies are trimmed and clamped.
func parseErrorMessage(body []byte) string {
	var payload struct {
		Message *string `json:"message"`
		Error   *string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != nil {
			return *payload.Message
		}
		if payload.Error != nil {
			return *payload.Error
		}
	}

	s := strings.TrimSpace(string(body))
	if strings.HasPrefix(s, "<") {
		// HTML error pages are noise in a terminal.
		return ""
	}
	const maxDetail = 200
	if len(s) > maxDetail {
		s = s[:maxDetail] + "…"
	}
	return s
}
