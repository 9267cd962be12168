package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sih-portal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{URL: server.URL + "/", AnonKey: "test-key"}, logger.NewNop())
}

func assertAuthHeaders(t *testing.T, r *http.Request) {
	assert.Equal(t, "test-key", r.Header.Get("apikey"))
	assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
}

func TestClient_Insert(t *testing.T) {
	tests := []struct {
		name          string
		serverStatus  int
		serverBody    string
		wantErr       bool
		wantUnique    bool
		wantConstrain string
	}{
		{
			name:         "created with representation",
			serverStatus: http.StatusCreated,
			serverBody:   `[{"id":"r-1","email":"a@b.co"}]`,
		},
		{
			name:          "duplicate email",
			serverStatus:  http.StatusConflict,
			serverBody:    `{"code":"23505","details":"Key (email)=(a@b.co) already exists.","hint":null,"message":"duplicate key value violates unique constraint \"registrations_email_key\""}`,
			wantErr:       true,
			wantUnique:    true,
			wantConstrain: "registrations_email_key",
		},
		{
			name:         "server error with plain body",
			serverStatus: http.StatusInternalServerError,
			serverBody:   "Internal Server Error",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/rest/v1/registrations", r.URL.Path)
				assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assertAuthHeaders(t, r)

				body, _ := io.ReadAll(r.Body)
				var payload []map[string]string
				if assert.NoError(t, json.Unmarshal(body, &payload)) && assert.Len(t, payload, 1) {
					assert.Equal(t, "a@b.co", payload[0]["email"])
				}

				w.WriteHeader(tt.serverStatus)
				_, _ = w.Write([]byte(tt.serverBody))
			})

			var out []row
			err := client.Insert(context.Background(), "registrations",
				[]map[string]string{{"email": "a@b.co"}}, &out)

			if !tt.wantErr {
				require.NoError(t, err)
				require.Len(t, out, 1)
				assert.Equal(t, "r-1", out[0].ID)
				return
			}

			require.Error(t, err)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.serverStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantUnique, apiErr.IsUniqueViolation())
			assert.Equal(t, tt.wantConstrain, apiErr.Constraint())
		})
	}
}

func TestClient_InsertMinimal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.Insert(context.Background(), "team_members", []map[string]interface{}{{"is_leader": true}}, nil)
	assert.NoError(t, err)
}

func TestClient_Select(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/teams", r.URL.Path)
		assert.Equal(t, "eq.open", r.URL.Query().Get("status"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "id,email", r.URL.Query().Get("select"))
		assertAuthHeaders(t, r)

		_, _ = w.Write([]byte(`[{"id":"t-2"},{"id":"t-1"}]`))
	})

	var out []row
	err := client.Select(context.Background(), "teams",
		NewQuery().Select("id,email").Eq("status", "open").Order("created_at", false), &out)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "t-2", out[0].ID)
}

func TestClient_SelectSingle(t *testing.T) {
	tests := []struct {
		name         string
		serverStatus int
		serverBody   string
		wantNoRows   bool
		wantErr      bool
	}{
		{
			name:         "one row",
			serverStatus: http.StatusOK,
			serverBody:   `{"id":"t-1","email":"x@y.z"}`,
		},
		{
			name:         "zero rows",
			serverStatus: http.StatusNotAcceptable,
			serverBody:   `{"code":"PGRST116","details":"The result contains 0 rows","hint":null,"message":"JSON object requested, multiple (or no) rows returned"}`,
			wantNoRows:   true,
			wantErr:      true,
		},
		{
			name:         "multiple rows",
			serverStatus: http.StatusNotAcceptable,
			serverBody:   `{"code":"PGRST116","details":"The result contains 2 rows","hint":null,"message":"JSON object requested, multiple (or no) rows returned"}`,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
				assert.Equal(t, "eq.AB12CD", r.URL.Query().Get("team_code"))
				w.WriteHeader(tt.serverStatus)
				_, _ = w.Write([]byte(tt.serverBody))
			})

			var out row
			err := client.SelectSingle(context.Background(), "teams", NewQuery().Eq("team_code", "AB12CD"), &out)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "t-1", out.ID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantNoRows, errors.Is(err, ErrNoRows))
		})
	}
}

func TestClient_Count(t *testing.T) {
	tests := []struct {
		name         string
		contentRange string
		expected     int
		wantErr      bool
	}{
		{name: "some members", contentRange: "0-2/3", expected: 3},
		{name: "no members", contentRange: "*/0", expected: 0},
		{name: "count not computed", contentRange: "0-2/*", wantErr: true},
		{name: "missing header", contentRange: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
				assert.Equal(t, "eq.t-1", r.URL.Query().Get("team_id"))
				if tt.contentRange != "" {
					w.Header().Set("Content-Range", tt.contentRange)
				}
				w.WriteHeader(http.StatusOK)
			})

			n, err := client.Count(context.Background(), "team_members", NewQuery().Eq("team_id", "t-1"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestClient_RPC(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/rpc/generate_team_code", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{}`, string(body))
		_, _ = w.Write([]byte(`"K7Q2ZD"`))
	})

	var code string
	require.NoError(t, client.RPC(context.Background(), "generate_team_code", nil, &code))
	assert.Equal(t, "K7Q2ZD", code)
}

func TestClient_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a json"))
	})

	var out []row
	err := client.Select(context.Background(), "teams", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Supabase response")
}

func TestClient_NetworkError(t *testing.T) {
	client := NewClient(Config{URL: "http://invalid-url-that-does-not-exist.local", AnonKey: "k", Timeout: time.Second}, logger.NewNop())

	err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call Supabase")
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.RPC(ctx, "generate_team_code", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call Supabase")
}

func TestQuery_Encode(t *testing.T) {
	var nilQuery *Query
	assert.Equal(t, "", nilQuery.Encode())
	assert.Equal(t, "limit=1&order=created_at.desc",
		NewQuery().Order("created_at", false).Limit(1).Encode())
}
