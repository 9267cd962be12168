package supabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var constraintRegex = regexp.MustCompile(`constraint "([^"]+)"`)

// APIError is the error body PostgREST returns for failed requests
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("Supabase returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("Supabase returned status %d: %s", e.StatusCode, e.Message)
}

// IsUniqueViolation reports whether the request hit a unique constraint
func (e *APIError) IsUniqueViolation() bool {
	return e.Code == codeUniqueViolation
}

// IsNoRows reports whether a singular select matched zero rows
func (e *APIError) IsNoRows() bool {
	return e.StatusCode == http.StatusNotAcceptable &&
		e.Code == codeSingularMismatch &&
		strings.Contains(e.Details, "0 rows")
}

// Constraint extracts the violated constraint name from the message, if any
func (e *APIError) Constraint() string {
	m := constraintRegex.FindStringSubmatch(e.Message)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if len(body) == 0 || json.Unmarshal(body, apiErr) != nil {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
