package handler

import (
	"context"
	"net/http"
	"time"

	"sih-portal/internal/domain"
	"sih-portal/internal/service/auth"
	"sih-portal/pkg/logger"
)

// Registrar submits individual registrations
type Registrar interface {
	Register(ctx context.Context, req *domain.RegistrationRequest) (*domain.RegistrationResult, error)
}

// CookieSettings controls the participant session cookie. A zero TTL
// disables the cookie.
type CookieSettings struct {
	TTL    time.Duration
	Secure bool
}

// RegistrationHandler handles registration HTTP requests
type RegistrationHandler struct {
	registrar Registrar
	cookie    CookieSettings
	logger    *logger.Logger
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrar Registrar, cookie CookieSettings, log *logger.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrar: registrar,
		cookie:    cookie,
		logger:    log.Named("registration"),
	}
}

// RegistrationResponse is the data of a registration response. Reset tells
// the client to clear the form; Form echoes the submission on failure.
type RegistrationResponse struct {
	Registration *domain.Registration       `json:"registration,omitempty"`
	SessionToken string                     `json:"session_token,omitempty"`
	Reset        bool                       `json:"reset"`
	Form         *domain.RegistrationRequest `json:"form,omitempty"`
}

// Register handles POST /api/v1/registrations
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegistrationRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, invalidRequest(err), RegistrationResponse{Reset: false})
		return
	}

	result, err := h.registrar.Register(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.logger, err, RegistrationResponse{Reset: false, Form: &req})
		return
	}

	setSessionCookie(w, h.cookie, result.SessionToken)

	respondSuccess(w, r, http.StatusCreated, RegistrationResponse{
		Registration: result.Registration,
		SessionToken: result.SessionToken,
		Reset:        true,
	})
}

func setSessionCookie(w http.ResponseWriter, settings CookieSettings, token string) {
	if token == "" || settings.TTL <= 0 {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(settings.TTL.Seconds()),
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
