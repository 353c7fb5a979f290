package api

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/JuniperParallel/core/ir"
	"github.com/FocuswithJustin/JuniperParallel/core/parallel"
	"github.com/FocuswithJustin/JuniperParallel/internal/logging"
	"github.com/FocuswithJustin/JuniperParallel/internal/reader"
)

const (
	maxMessageSize = 4096
	writeWait      = 10 * time.Second
)

var (
	// pongWait is how long a connection may stay silent, pongs included.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var activeStreams atomic.Int64

// StreamRequest is a client message asking for a range.
type StreamRequest struct {
	Range        string   `json:"range"`
	Translations []string `json:"translations"`
	// Canonical defaults to true when omitted.
	Canonical *bool `json:"canonical,omitempty"`
}

// StreamMessage is sent to the client: one "record" per verse, then
// "complete", or a single "error".
type StreamMessage struct {
	Type      string           `json:"type"`
	Record    *parallel.Record `json:"record,omitempty"`
	Names     []string         `json:"names,omitempty"`
	Range     *ir.VerseRange   `json:"range,omitempty"`
	Total     int              `json:"total,omitempty"`
	Failed    []string         `json:"failed,omitempty"`
	Message   string           `json:"message,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// wsConn serializes writes to a websocket connection.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(websocket.PingMessage, nil)
}

// keepAlive pings the client every pingPeriod until done is closed or a
// ping cannot be written.
func keepAlive(c *wsConn, period time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

func (s *Server) upgrader() *websocket.Upgrader {
	allowed := s.opts.Config.AllowedOrigins
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(allowed) == 0 || origin == "" {
				return true
			}
			if slices.Contains(allowed, origin) {
				return true
			}
			logging.SecurityEvent("websocket_origin_rejected", "api", "origin", origin)
			return false
		},
	}
}

// handleWebSocket streams parallel records. A range in the query string is
// answered immediately; after that every JSON StreamRequest received is
// answered in turn until the client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		logging.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()
	conn := &wsConn{Conn: ws}

	logging.WebSocketEvent("client_connected", int(activeStreams.Add(1)))
	defer func() {
		logging.WebSocketEvent("client_disconnected", int(activeStreams.Add(-1)))
	}()

	wait := pongWait
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, pingPeriod, done)

	if r.URL.Query().Get("range") != "" {
		req, err := s.parseRequest(r)
		if !s.stream(conn, r, req, err) {
			return
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.WarnContext(r.Context(), "websocket unexpected close", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wait))

		var msg StreamRequest
		if err := json.Unmarshal(data, &msg); err != nil {
			if !s.send(conn, StreamMessage{Type: "error", Message: "invalid request message"}) {
				return
			}
			continue
		}
		req, err := s.streamRequest(msg)
		if !s.stream(conn, r, req, err) {
			return
		}
	}
}

func (s *Server) streamRequest(msg StreamRequest) (reader.Request, error) {
	rng, err := ir.ParseRange(s.opts.Reader.Versification(), msg.Range)
	if err != nil {
		return reader.Request{}, err
	}
	canonical := true
	if msg.Canonical != nil {
		canonical = *msg.Canonical
	}
	return reader.Request{Range: rng, Canonical: canonical, Translations: msg.Translations}, nil
}

// stream answers one request. It returns false once the connection is
// no longer writable.
func (s *Server) stream(conn *wsConn, r *http.Request, req reader.Request, parseErr error) bool {
	if parseErr != nil {
		return s.send(conn, StreamMessage{Type: "error", Message: parseErr.Error()})
	}
	res, err := s.opts.Reader.Verses(r.Context(), req)
	if err != nil {
		status, _ := classify(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			logging.ErrorContext(r.Context(), "websocket request failed", "error", err)
			msg = "internal error"
		}
		return s.send(conn, StreamMessage{Type: "error", Message: msg})
	}

	for i := range res.Records {
		if !s.send(conn, StreamMessage{Type: "record", Record: &res.Records[i]}) {
			return false
		}
	}
	return s.send(conn, StreamMessage{
		Type:   "complete",
		Names:  res.Names,
		Range:  &res.Range,
		Total:  len(res.Records),
		Failed: res.Failed,
	})
}

func (s *Server) send(conn *wsConn, msg StreamMessage) bool {
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if err := conn.writeJSON(msg); err != nil {
		logging.Warn("websocket write failed", "error", err)
		return false
	}
	return true
}
