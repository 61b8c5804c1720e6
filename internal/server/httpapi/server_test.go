package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hvlab/settlement/internal/logging"
	"github.com/hvlab/settlement/internal/server/config"
	"github.com/hvlab/settlement/internal/server/documents"
)

func newTestServer(t *testing.T, accessKey string) (*Server, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{TokenSecret: "test-secret", TokenValidity: time.Hour}
	if accessKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(accessKey), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.AccessKeyHash = string(hash)
	}

	s := NewServer(cfg, documents.NewService(documents.NewInMemoryRepository()), logging.NewDefault())
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func login(t *testing.T, ts *httptest.Server, accessKey string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"access_key": accessKey})
	resp, err := http.Post(ts.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func doReq(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestLoginRejectsWrongKey(t *testing.T) {
	_, ts := newTestServer(t, "correct-key")

	body, _ := json.Marshal(map[string]string{"access_key": "wrong"})
	resp, err := http.Post(ts.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDocumentRequiresToken(t *testing.T) {
	_, ts := newTestServer(t, "key")

	resp := doReq(t, http.MethodGet, ts.URL+"/api/document", "", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doReq(t, http.MethodGet, ts.URL+"/api/document", "garbage.token.here", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDocumentRoundTrip(t *testing.T) {
	_, ts := newTestServer(t, "key")
	token := login(t, ts, "key")

	// nothing stored yet
	resp := doReq(t, http.MethodGet, ts.URL+"/api/document", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	doc := `{"Riverside 101":[],"_metadata":{"session_id":"s1"}}`
	resp = doReq(t, http.MethodPut, ts.URL+"/api/document", token, []byte(doc))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doReq(t, http.MethodGet, ts.URL+"/api/document", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Contains(t, got, "Riverside 101")
	require.Contains(t, got, "_metadata")
}

func TestPutRejectsNonObject(t *testing.T) {
	_, ts := newTestServer(t, "key")
	token := login(t, ts, "key")

	resp := doReq(t, http.MethodPut, ts.URL+"/api/document", token, []byte(`[1,2]`))
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPing(t *testing.T) {
	_, ts := newTestServer(t, "")
	resp, err := http.Get(ts.URL + "/api/ping")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPutBroadcastsToAllSubscribers(t *testing.T) {
	srv, ts := newTestServer(t, "key")
	writerToken := login(t, ts, "key")
	readerToken := login(t, ts, "key")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	dial := func(token string) *websocket.Conn {
		header := http.Header{"Authorization": {"Bearer " + token}}
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
		require.NoError(t, err)
		if resp != nil {
			resp.Body.Close()
		}
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	writerConn := dial(writerToken)
	readerConn := dial(readerToken)
	require.Eventually(t, func() bool { return srv.hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	doc := `{"Riverside 101":[],"_metadata":{"session_id":"writer"}}`
	resp := doReq(t, http.MethodPut, ts.URL+"/api/document", writerToken, []byte(doc))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// both subscribers receive the update, including the writer's own
	// connection; echo suppression is the client's job
	for _, conn := range []*websocket.Conn{writerConn, readerConn} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		require.JSONEq(t, doc, string(msg))
	}
}

func TestWsRequiresToken(t *testing.T) {
	_, ts := newTestServer(t, "key")
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if resp != nil {
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
