package websocket

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/service/extraction"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 16
)

// Frame types written to clients.
const (
	FrameTypeConnected = "connected"
	FrameTypeResult    = "result"
	FrameTypeError     = "error"
)

// Frame is one server-to-client message.
type Frame struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *FrameError `json:"error,omitempty"`
}

// FrameError carries an AppError code to the client.
type FrameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// inbound is the JSON form of a client message. Plain text frames are scanned as-is.
type inbound struct {
	ID      string `json:"id,omitempty"`
	Text    string `json:"text"`
	Source  string `json:"source,omitempty"`
	Persist bool   `json:"persist,omitempty"`
}

// Handler streams extraction results over a WebSocket connection.
type Handler struct {
	svc      extraction.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
	timeout  time.Duration

	mu      sync.Mutex
	clients map[uuid.UUID]*Client
}

// NewHandler builds a handler. An empty allowedOrigins list accepts same-origin
// requests only; "*" accepts any origin.
func NewHandler(svc extraction.Service, logger *zap.Logger, allowedOrigins []string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		svc:     svc,
		logger:  logger,
		timeout: 5 * time.Second,
		clients: make(map[uuid.UUID]*Client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// ServeHTTP upgrades the connection and starts the client pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade WebSocket connection",
			zap.Error(err),
			zap.String("remote_addr", r.RemoteAddr),
		)
		return
	}

	client := &Client{
		ID:      uuid.New(),
		ctx:     context.WithoutCancel(r.Context()),
		conn:    conn,
		send:    make(chan *Frame, sendBuffer),
		handler: h,
	}
	h.register(client)

	client.enqueue(&Frame{
		ID:        uuid.NewString(),
		Type:      FrameTypeConnected,
		Timestamp: time.Now().UTC(),
		Data:      map[string]string{"client_id": client.ID.String()},
	})

	go client.WritePump()
	go client.ReadPump()
}

// Clients reports the number of open connections.
func (h *Handler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
}

func (h *Handler) register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.logger.Info("WebSocket client registered", zap.String("client_id", c.ID.String()))
}

func (h *Handler) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	delete(h.clients, c.ID)
	h.mu.Unlock()
	if ok {
		h.logger.Info("WebSocket client unregistered", zap.String("client_id", c.ID.String()))
	}
}

// process turns one inbound message into a result or error frame.
func (h *Handler) process(ctx context.Context, message []byte) *Frame {
	req := decodeInbound(message)
	frame := &Frame{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		RequestID: req.ID,
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp, err := h.svc.Extract(ctx, &extraction.ExtractRequest{
		Text:    req.Text,
		Source:  req.Source,
		Persist: req.Persist,
	})
	if err != nil {
		frame.Type = FrameTypeError
		frame.Error = toFrameError(err)
		return frame
	}
	frame.Type = FrameTypeResult
	frame.Data = resp
	return frame
}

func decodeInbound(message []byte) inbound {
	trimmed := strings.TrimSpace(string(message))
	if strings.HasPrefix(trimmed, "{") {
		var req inbound
		if err := json.Unmarshal(message, &req); err == nil {
			return req
		}
	}
	return inbound{Text: string(message)}
}

func toFrameError(err error) *FrameError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return &FrameError{Code: appErr.Code, Message: appErr.Message}
	}
	return &FrameError{Code: "INTERNAL_ERROR", Message: "extraction failed"}
}

// Client is one connected WebSocket peer.
type Client struct {
	ID uuid.UUID
	// ctx carries the upgrade request's values (trace span, request ID)
	// past the end of ServeHTTP.
	ctx     context.Context
	conn    *websocket.Conn
	send    chan *Frame
	handler *Handler

	closeOnce sync.Once
}

func (c *Client) enqueue(f *Frame) bool {
	select {
	case c.send <- f:
		return true
	default:
		c.handler.logger.Warn("Client send channel full, dropping frame",
			zap.String("client_id", c.ID.String()),
		)
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ReadPump reads client messages and queues a frame for each.
func (c *Client) ReadPump() {
	defer func() {
		c.handler.unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.handler.logger.Warn("WebSocket read error",
					zap.String("client_id", c.ID.String()),
					zap.Error(err),
				)
			}
			return
		}
		if kind != websocket.TextMessage {
			c.enqueue(&Frame{
				ID:        uuid.NewString(),
				Type:      FrameTypeError,
				Timestamp: time.Now().UTC(),
				Error:     &FrameError{Code: errors.CodeInvalidInput, Message: "only text frames are accepted"},
			})
			continue
		}
		c.enqueue(c.handler.process(c.ctx, message))
	}
}

// WritePump writes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				c.handler.logger.Error("Failed to encode frame", zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
