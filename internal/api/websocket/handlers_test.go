package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/service/extraction"
)

type testFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     *FrameError     `json:"error"`
}

func newTestServer(t *testing.T, origins ...string) (*Handler, *httptest.Server) {
	t.Helper()
	svc := extraction.NewService(config.IngestConfig{MaxInputBytes: 1 << 12, DefaultSource: "ws"}, nil, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewHandler(svc, zap.NewNop(), origins)
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) testFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f testFrame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestHandler_StreamsExtractions(t *testing.T) {
	h, srv := newTestServer(t)
	conn := dial(t, srv, nil)

	hello := readFrame(t, conn)
	assert.Equal(t, "connected", hello.Type)
	assert.Equal(t, 1, h.Clients())

	t.Run("plain text", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Call 206-858-9310 or (800) 576-4377 today")))
		f := readFrame(t, conn)
		require.Equal(t, "result", f.Type)

		var resp extraction.ExtractResponse
		require.NoError(t, json.Unmarshal(f.Data, &resp))
		assert.Equal(t, []string{"2068589310", "8005764377"}, resp.DialedNumbers)
		assert.Equal(t, "ws", resp.Source)
	})

	t.Run("json request", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"id":     "req-1",
			"text":   "206.858.9310",
			"source": "chat",
		}))
		f := readFrame(t, conn)
		require.Equal(t, "result", f.Type)
		assert.Equal(t, "req-1", f.RequestID)

		var resp extraction.ExtractResponse
		require.NoError(t, json.Unmarshal(f.Data, &resp))
		assert.Equal(t, "chat", resp.Source)
		assert.Equal(t, []string{"2068589310"}, resp.DialedNumbers)
	})

	t.Run("persist without storage", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(map[string]interface{}{"text": "206-858-9310", "persist": true}))
		f := readFrame(t, conn)
		require.Equal(t, "error", f.Type)
		require.NotNil(t, f.Error)
		assert.Equal(t, errors.CodeStorageDisabled, f.Error.Code)
	})

	t.Run("binary frame", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01}))
		f := readFrame(t, conn)
		require.Equal(t, "error", f.Type)
		assert.Equal(t, errors.CodeInvalidInput, f.Error.Code)
	})

	t.Run("oversized text", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("9", 5000))))
		f := readFrame(t, conn)
		require.Equal(t, "error", f.Type)
		assert.Equal(t, errors.CodeInvalidInput, f.Error.Code)
	})
}

func TestHandler_UnregistersOnClose(t *testing.T) {
	h, srv := newTestServer(t)
	conn := dial(t, srv, nil)
	readFrame(t, conn)
	require.Equal(t, 1, h.Clients())

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_CheckOrigin(t *testing.T) {
	_, srv := newTestServer(t, "https://app.example.com")
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.test"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Nil(t, conn)

	ok := dial(t, srv, http.Header{"Origin": []string{"https://app.example.com"}})
	assert.Equal(t, "connected", readFrame(t, ok).Type)
}

func TestDecodeInbound(t *testing.T) {
	assert.Equal(t, inbound{Text: "call 2068589310"}, decodeInbound([]byte("call 2068589310")))
	assert.Equal(t, inbound{Text: "{not json"}, decodeInbound([]byte("{not json")))
	assert.Equal(t, inbound{ID: "a", Text: "x", Persist: true}, decodeInbound([]byte(`{"id":"a","text":"x","persist":true}`)))
}

type ctxKey struct{}

// recordingService captures the context each Extract call receives.
type recordingService struct {
	extraction.Service
	got chan context.Context
}

func (s *recordingService) Extract(ctx context.Context, req *extraction.ExtractRequest) (*extraction.ExtractResponse, error) {
	s.got <- ctx
	return s.Service.Extract(ctx, req)
}

func TestHandler_KeepsUpgradeRequestContext(t *testing.T) {
	base := extraction.NewService(config.IngestConfig{MaxInputBytes: 1 << 12}, nil, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := &recordingService{Service: base, got: make(chan context.Context, 1)}
	h := NewHandler(svc, zap.NewNop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, "req-42")))
	}))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})

	conn := dial(t, srv, nil)
	readFrame(t, conn)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("206-858-9310")))
	assert.Equal(t, "result", readFrame(t, conn).Type)

	select {
	case ctx := <-svc.got:
		assert.Equal(t, "req-42", ctx.Value(ctxKey{}))
		assert.NoError(t, ctx.Err(), "the request context must outlive ServeHTTP")
	case <-time.After(5 * time.Second):
		t.Fatal("extraction was not called")
	}
}
