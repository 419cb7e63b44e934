package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(secret string) *WebhookServer {
	// An empty update carries neither message nor callback, so the nil
	// dependencies inside the bot are never touched.
	return NewWebhookServer(New(nil, nil, nil, nil, nil), ":0", secret)
}

func TestWebhook_Health(t *testing.T) {
	s := newTestServer("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestWebhook_SecretToken(t *testing.T) {
	s := newTestServer("s3cret")

	t.Run("missing secret rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1}`))
		rec := httptest.NewRecorder()
		s.srv.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1}`))
		req.Header.Set(secretTokenHeader, "wrong")
		rec := httptest.NewRecorder()
		s.srv.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("correct secret accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1}`))
		req.Header.Set(secretTokenHeader, "s3cret")
		rec := httptest.NewRecorder()
		s.srv.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestWebhook_MalformedBody(t *testing.T) {
	s := newTestServer("")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
