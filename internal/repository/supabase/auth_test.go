package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"groceryMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{URL: srv.URL + "/", AnonKey: "anon", ServiceRoleKey: "service"})
	require.NoError(t, err)
	return c
}

func TestCreateIdentity_UsesServiceKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "service", r.Header.Get("apikey"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["email_confirm"])

		_, _ = w.Write([]byte(`{"id":"u-1","email":"a@b.c"}`))
	})

	identity, err := c.CreateIdentity(context.Background(), "a@b.c", "pw", map[string]string{"role": "rider"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", identity.ID)
}

func TestCreateIdentity_ExistingEmailIsConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"email_exists","msg":"A user with this email address has already been registered"}`))
	})

	_, err := c.CreateIdentity(context.Background(), "a@b.c", "pw", nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "right" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","user":{"id":"u-9","email":"x@y.z"}}`))
	})

	identity, err := c.SignInWithPassword(context.Background(), "x@y.z", "right")
	require.NoError(t, err)
	assert.Equal(t, "u-9", identity.ID)

	_, err = c.SignInWithPassword(context.Background(), "x@y.z", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestDeleteIdentity_ReportsServiceError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/u-1", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"error_code":"user_not_found","msg":"User not found"}`))
	})

	err := c.DeleteIdentity(context.Background(), "u-1")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "user_not_found", apiErr.Code)
}

func TestParseError_NonJSONBody(t *testing.T) {
	err := parseError([]byte("bad gateway"), http.StatusBadGateway)
	assert.EqualError(t, err, "supabase 502 unknown: bad gateway")
}

func TestNew_RequiresURLAndAnonKey(t *testing.T) {
	_, err := New(Config{AnonKey: "k"})
	assert.Error(t, err)
	_, err = New(Config{URL: "http://localhost"})
	assert.Error(t, err)
}
