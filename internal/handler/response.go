package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sih-portal/internal/domain"
	"sih-portal/internal/middleware"
	"sih-portal/internal/notify"
	apperrors "sih-portal/pkg/errors"
	"sih-portal/pkg/logger"
)

const maxBodyBytes = 1_048_576 // 1MB

// APIResponse is the envelope of every JSON API response
type APIResponse struct {
	Success       bool                   `json:"success"`
	Data          interface{}            `json:"data,omitempty"`
	Error         *apperrors.ErrorBody   `json:"error,omitempty"`
	Notifications []domain.Notification `json:"notifications"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondSuccess writes data together with the notifications raised for the request
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, status, APIResponse{
		Success:       true,
		Data:          data,
		Notifications: collected(r),
	})
}

// respondError classifies err and writes it. data, when non-nil, is echoed
// back so a client can keep the submitted form populated.
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, data interface{}) {
	appErr := apperrors.As(err)

	entry := log.WithFields(map[string]interface{}{
		"request_id": middleware.GetRequestID(r.Context()),
		"error_type": appErr.Type,
		"title":      appErr.Title,
	})
	if appErr.Internal != nil {
		entry = entry.WithError(appErr.Internal)
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Warn("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	body := appErr.Body()
	respondJSON(w, appErr.StatusCode, APIResponse{
		Success:       false,
		Data:          data,
		Error:         &body,
		Notifications: collected(r),
	})
}

func collected(r *http.Request) []domain.Notification {
	if c, ok := notify.FromContext(r.Context()); ok {
		return c.Items()
	}
	return []domain.Notification{}
}

// invalidRequest wraps a body decoding failure as a validation error
func invalidRequest(err error) *apperrors.AppError {
	return apperrors.NewValidationError("Invalid Request", err.Error(), nil)
}

// readJSON decodes a single JSON object from the request body into dst
func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}
