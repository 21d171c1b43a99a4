package controller

import (
	"encoding/json"
	"fmt"
)

// APIError represents a non-success response from the controller API.
// It carries the HTTP status plus the controller's own error code and message
// when the response body exposes them.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Method is the HTTP method of the failed request.
	Method string
	// URL is the full request URL.
	URL string
	// ErrCode is the controller-defined error code (errcode), if present.
	ErrCode string
	// Message is the controller-provided error message, if present.
	Message string
	// Body is the raw response body, kept for operator inspection.
	Body string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s -> HTTP %d", e.Method, e.URL, e.Status)
	switch {
	case e.Message != "" && e.ErrCode != "":
		msg += fmt.Sprintf(": %s (errcode=%s)", e.Message, e.ErrCode)
	case e.Message != "":
		msg += ": " + e.Message
	case e.ErrCode != "":
		msg += fmt.Sprintf(" (errcode=%s)", e.ErrCode)
	}
	return msg
}

// newAPIError builds an APIError from a response body, extracting the
// controller error details when the body is JSON.
func newAPIError(status int, method, url string, body []byte) *APIError {
	apiErr := &APIError{
		Status: status,
		Method: method,
		URL:    url,
		Body:   string(body),
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.ErrCode, apiErr.Message = extractErrDetails(parsed)
	}
	return apiErr
}

// extractErrDetails pulls (errcode, errmsg) out of a controller error body.
// It checks the flat errcode/errmsg pair first, then the usual fallback
// fields, then nested "error" objects and "errors" lists.
func extractErrDetails(body map[string]any) (code, msg string) {
	if v, ok := body["errcode"]; ok {
		code = fmt.Sprintf("%v", v)
	}

	for _, k := range []string{"errmsg", "message", "msg", "description", "desc"} {
		if v, ok := body[k]; ok {
			switch s := v.(type) {
			case string:
				return code, s
			case float64, int:
				return code, fmt.Sprintf("%v", s)
			}
		}
	}

	// Sometimes "error" is an object carrying the message.
	if inner, ok := body["error"].(map[string]any); ok {
		if _, m := extractErrDetails(inner); m != "" {
			return code, m
		}
	}

	// Sometimes "errors" is a list of objects with a message.
	if list, ok := body["errors"].([]any); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]any); ok {
			if _, m := extractErrDetails(first); m != "" {
				return code, m
			}
		}
	}

	return code, msg
}
