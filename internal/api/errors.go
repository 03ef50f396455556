package api

import "encoding/json"

// ErrorEnvelope is the uniform error body returned by every failing proxy
// path; the HTTP status carries the upstream code, 401 for credential
// problems, 400 for missing parameters, or 500 for transport and
// configuration failures.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Message resolves the single human-readable message for an envelope: if the
// details carry structured error data, its error or message field wins;
// otherwise raw details, then the outer error string. Malformed details never
// escape as a fault.
func (e ErrorEnvelope) Message() string {
	if e.Details != "" {
		var inner struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(e.Details), &inner); err == nil {
			if inner.Error != "" {
				return inner.Error
			}
			if inner.Message != "" {
				return inner.Message
			}
		}
		return e.Details
	}
	if e.Error != "" {
		return e.Error
	}
	return "request failed"
}
