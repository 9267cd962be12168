package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sih-portal/internal/service/auth"
	"sih-portal/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", incoming)

		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, incoming, seen)
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "<script>")

		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, "<script>", seen)
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("debug", &buf)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(log))
	r.Get("/api/v1/teams/open", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/teams/open", nil))

	out := buf.String()
	assert.Contains(t, out, "Request failed")
	assert.Contains(t, out, `"status_code":502`)
	assert.Contains(t, out, `"request_id"`)
}

func TestSession(t *testing.T) {
	sessions := auth.NewSessionService("secret", time.Hour, logger.NewNop())
	token, err := sessions.Issue("asha@example.com", "Asha")
	require.NoError(t, err)

	var identity *auth.Identity
	handler := Session(sessions, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ = auth.IdentityFromContext(r.Context())
	}))

	tests := []struct {
		name      string
		prepare   func(r *http.Request)
		wantEmail string
	}{
		{
			name:      "cookie",
			prepare:   func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token}) },
			wantEmail: "asha@example.com",
		},
		{
			name:      "bearer header",
			prepare:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantEmail: "asha@example.com",
		},
		{
			name:    "invalid token continues anonymously",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
		},
		{
			name:    "no token",
			prepare: func(r *http.Request) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity = nil
			req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/join", nil)
			tt.prepare(req)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			if tt.wantEmail == "" {
				assert.Nil(t, identity)
				return
			}
			require.NotNil(t, identity)
			assert.Equal(t, tt.wantEmail, identity.Email)
		})
	}
}

func TestSession_Disabled(t *testing.T) {
	called := false
	handler := Session(nil, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://sih.example.com"}

	handler := CORS(cfg, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/registrations", nil)
	req.Header.Set("Origin", "https://sih.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://sih.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
