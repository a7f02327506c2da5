package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"lack-chat/domain"
	"lack-chat/domain/event"
	"lack-chat/errors"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// FrameHandler processes one inbound frame on a session.
type FrameHandler func(sess *Session, frame Frame)

// Session binds one websocket connection to one authenticated user. All
// writes go through the send channel so the write pump is the only
// goroutine touching the connection for output.
type Session struct {
	ID   string
	User domain.User

	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

func NewSession(id string, user domain.User, conn *websocket.Conn,
	bufferSize int, log *slog.Logger) *Session {
	return &Session{
		ID:     id,
		User:   user,
		conn:   conn,
		send:   make(chan []byte, bufferSize),
		log:    log.With(slog.String("session", id), slog.String("user", user.Nickname)),
		closed: make(chan struct{}),
	}
}

// Consume delivers a broadcast event to this connection. When the send
// buffer is full it blocks until the fan-out's per-sink deadline expires.
func (s *Session) Consume(ctx context.Context, e event.Event) error {
	frame, err := EventFrame(e)
	if err != nil {
		return err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	select {
	case s.send <- data:
		return nil
	case <-s.closed:
		return errors.ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send queues an acknowledgement or any other server-initiated frame.
func (s *Session) Send(frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	select {
	case s.send <- data:
		return nil
	case <-s.closed:
		return errors.ErrConnectionClosed
	}
}

// Close tears the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		_ = s.conn.Close()
	})
}

// ReadPump decodes inbound frames and hands them to the handler until the
// connection dies or the context is cancelled. Runs on the request
// goroutine; returns when the connection is gone.
func (s *Session) ReadPump(ctx context.Context, handle FrameHandler) {
	defer s.Close()
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("unexpected close", slog.Any("error", err))
			}
			return
		}
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.log.Warn("discarding malformed frame", slog.Any("error", err))
			continue
		}
		handle(s, frame)
	}
}

// WritePump drains the send channel onto the connection and keeps the
// peer alive with pings. Must run in its own goroutine.
func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()
	for {
		select {
		case data := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.closed:
			return
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(writeWait))
			return
		}
	}
}
