package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"groceryMarket/pkg/config"

	"github.com/pobyzaarif/goshortcute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail(t *testing.T) {
	var got payloadSendEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3.1/send", r.URL.Path)
		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "Basic "))
		assert.Equal(t, "key:secret", goshortcute.StringtoBase64Decode(strings.TrimPrefix(auth, "Basic ")))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(config.MailjetConfig{
		MailjetBaseUrl:           srv.URL,
		MailjetBasicAuthUsername: "key",
		MailjetBasicAuthPassword: "secret",
		MailjetSenderEmail:       "hello@grocery.test",
		MailjetSenderName:        "Grocery Market",
	})

	require.NoError(t, repo.SendEmail(context.Background(), "Dewi", "dewi@example.com", "Welcome", "hi"))
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "dewi@example.com", got.Messages[0].To[0].Email)
	assert.Equal(t, "hello@grocery.test", got.Messages[0].From.Email)
}

func TestSendEmail_NegativeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ErrorMessage":"bad key"}`))
	}))
	defer srv.Close()

	repo := NewMailjetRepository(config.MailjetConfig{MailjetBaseUrl: srv.URL})
	assert.Error(t, repo.SendEmail(context.Background(), "a", "a@b.c", "s", "m"))
}
