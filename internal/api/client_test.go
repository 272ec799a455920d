package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Token:             func() string { return token },
		Logger:            zerolog.Nop(),
	})
}

func TestRequestCarriesCredentialAndCorrelationID(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]models.Project{})
	}), "tok-123")

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestNoCredentialHeaderWithoutSession(t *testing.T) {
	var sawAuth bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		json.NewEncoder(w).Encode([]models.Project{})
	}), "")

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestErrorResponsesCarryServerDetail(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		body       string
		wantDetail string
	}{
		{"structured detail", http.StatusForbidden, `{"detail":"Not authorized"}`, "Not authorized"},
		{"empty body", http.StatusInternalServerError, ``, ""},
		{"non-json body", http.StatusBadGateway, `upstream fell over`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}), "tok")

			_, err := client.ListProjects(context.Background())
			require.Error(t, err)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.code, statusErr.Code)
			assert.Equal(t, tt.wantDetail, statusErr.Detail)
		})
	}
}

func TestIsAuth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid token"}`))
	}), "expired")

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.False(t, IsForbidden(err))
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada@example.com", creds["email"])
		assert.Equal(t, "hunter2", creds["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"token_type":   "bearer",
			"user":         models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: "Manager"},
		})
	}), "")

	sess, err := client.Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", sess.Token)
	assert.Equal(t, "u1", sess.User.ID)
}

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server detail wins", &StatusError{Code: 403, Detail: "Not authorized"}, "Not authorized"},
		{"status without detail", &StatusError{Code: 500}, "server returned 500"},
		{"transport failure", &TransportError{Op: "GET /projects", Err: context.DeadlineExceeded}, "cannot reach the server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reason(tt.err))
		})
	}
}
