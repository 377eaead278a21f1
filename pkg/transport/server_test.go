package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-common-scoring/pkg/api"
	"katydid-common-scoring/pkg/store"
)

// memConn 内存连接桩
type memConn struct {
	data map[string]string
}

func (c *memConn) Get(_ context.Context, key string) (string, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *memConn) Set(_ context.Context, key, value string, _ time.Duration) bool {
	c.data[key] = value
	return true
}

func newTestServer() *Server {
	st := store.New(&memConn{data: map[string]string{}}, 1, nil)
	return New(st, nil)
}

func post(t *testing.T, s *Server, path string, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestServer_AdminScore(t *testing.T) {
	body := fmt.Sprintf(`{
		"account": "",
		"login": %q,
		"token": %q,
		"method": "online_score",
		"arguments": {"phone": "79175002040", "email": "stupnikov@otus.ru"}
	}`, api.AdminLogin, api.AdminToken(time.Now()))

	w, decoded := post(t, newTestServer(), "/method", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(200), decoded["code"])
	response := decoded["response"].(map[string]any)
	assert.Equal(t, float64(42), response["score"])
}

func TestServer_EmptyBody(t *testing.T) {
	w, decoded := post(t, newTestServer(), "/method", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, float64(422), decoded["code"])
	assert.NotEmpty(t, decoded["error"])
}

func TestServer_BadJSON(t *testing.T) {
	w, decoded := post(t, newTestServer(), "/method", `{"login": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bad Request", decoded["error"])
}

func TestServer_UnknownPath(t *testing.T) {
	w, decoded := post(t, newTestServer(), "/unknown", `{}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", decoded["error"])
}

func TestServer_Forbidden(t *testing.T) {
	body := `{
		"account": "horns&hoofs",
		"login": "h&f",
		"token": "bad",
		"method": "online_score",
		"arguments": {"phone": "79175002040", "email": "stupnikov@otus.ru"}
	}`
	w, decoded := post(t, newTestServer(), "/method", body)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decoded["error"])
}

func TestServer_UnknownMethodGenericBody(t *testing.T) {
	body := fmt.Sprintf(`{
		"account": "horns&hoofs",
		"login": "h&f",
		"token": %q,
		"method": "no_such_method",
		"arguments": {"phone": "79175002040", "email": "stupnikov@otus.ru"}
	}`, api.UserToken("horns&hoofs", "h&f"))

	w, decoded := post(t, newTestServer(), "/method", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decoded["error"], "响应体只给通用文案，不泄露方法名")
}

func TestServer_ClientsInterests(t *testing.T) {
	conn := &memConn{data: map[string]string{
		"i:1": `["books"]`,
		"i:2": `["travel"]`,
	}}
	s := New(store.New(conn, 1, nil), nil)

	body := fmt.Sprintf(`{
		"account": "horns&hoofs",
		"login": "h&f",
		"token": %q,
		"method": "clients_interests",
		"arguments": {"client_ids": [1, 2]}
	}`, api.UserToken("horns&hoofs", "h&f"))

	w, decoded := post(t, s, "/method", body)

	require.Equal(t, http.StatusOK, w.Code)
	response := decoded["response"].(map[string]any)
	assert.Len(t, response, 2)
	assert.Equal(t, []any{"books"}, response["1"])
}
