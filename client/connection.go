// Package client manages the terminal client's websocket connections, its
// local reactive state and the slash-command layer on top of both.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lack-chat/domain"
	"lack-chat/errors"
	"lack-chat/transport"
)

// RemoteError is an {error} acknowledgement from the server, already
// phrased for display.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// wsConn is the slice of *websocket.Conn the connection needs. Tests swap
// in an in-memory pipe.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ClientChannelConnection owns one websocket scoped to one channel (or the
// global presence scope). Requests correlate to acks by generated ids;
// everything else the socket pushes surfaces on Events.
type ClientChannelConnection struct {
	Channel string

	conn   wsConn
	log    *slog.Logger
	events chan transport.Frame

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan transport.Frame

	closeOnce sync.Once
	closed    chan struct{}
}

func NewClientChannelConnection(channel string, conn wsConn, log *slog.Logger) *ClientChannelConnection {
	c := &ClientChannelConnection{
		Channel: channel,
		conn:    conn,
		log:     log.With(slog.String("channel", channel)),
		events:  make(chan transport.Frame, 64),
		pending: make(map[string]chan transport.Frame),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Events streams the server-pushed frames of this scope. The channel closes
// when the connection dies.
func (c *ClientChannelConnection) Events() <-chan transport.Frame {
	return c.events
}

func (c *ClientChannelConnection) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

func (c *ClientChannelConnection) readLoop() {
	defer func() {
		c.Close()
		close(c.events)
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame transport.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Warn("discarding malformed frame", slog.Any("error", err))
			continue
		}
		if frame.Event == transport.AckEvent {
			c.resolve(frame)
			continue
		}
		select {
		case c.events <- frame:
		default:
			c.log.Warn("event buffer full, dropping", slog.String("event", frame.Event))
		}
	}
}

func (c *ClientChannelConnection) resolve(frame transport.Frame) {
	c.mu.Lock()
	waiter, ok := c.pending[frame.ID]
	delete(c.pending, frame.ID)
	c.mu.Unlock()
	if !ok {
		c.log.Warn("ack without a waiter", slog.String("id", frame.ID))
		return
	}
	waiter <- frame
}

// request performs one request/ack round trip. The context bounds the wait;
// expiry maps to ErrAckTimeout.
func (c *ClientChannelConnection) request(ctx context.Context, event string, payload any) (json.RawMessage, error) {
	frame := transport.Frame{ID: uuid.NewString(), Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		frame.Payload = data
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}

	waiter := make(chan transport.Frame, 1)
	c.mu.Lock()
	c.pending[frame.ID] = waiter
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, frame.ID)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", event, err)
	}

	select {
	case ack := <-waiter:
		if ack.Error != "" {
			return nil, &RemoteError{Message: ack.Error}
		}
		return ack.Payload, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s", errors.ErrAckTimeout, event)
	case <-c.closed:
		return nil, errors.ErrConnectionClosed
	}
}

// JoinChannel asks the server to add the viewer to this channel.
func (c *ClientChannelConnection) JoinChannel(ctx context.Context) (domain.Channel, error) {
	payload, err := c.request(ctx, transport.AddUserEvent, nil)
	if err != nil {
		return domain.Channel{}, err
	}
	var channel domain.Channel
	if err := json.Unmarshal(payload, &channel); err != nil {
		return domain.Channel{}, fmt.Errorf("decode channel: %w", err)
	}
	return channel, nil
}

// LeaveChannel removes the viewer; the bool reports whether the whole
// channel was deleted because the viewer was its admin.
func (c *ClientChannelConnection) LeaveChannel(ctx context.Context) (bool, error) {
	payload, err := c.request(ctx, transport.RemoveUserEvent, nil)
	if err != nil {
		return false, err
	}
	var result struct {
		Deleted bool `json:"deleted"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return false, fmt.Errorf("decode leave result: %w", err)
	}
	return result.Deleted, nil
}

func (c *ClientChannelConnection) DeleteChannel(ctx context.Context) error {
	_, err := c.request(ctx, transport.DeleteChannelEvent, nil)
	return err
}

func (c *ClientChannelConnection) InviteUser(ctx context.Context, nickname string) error {
	_, err := c.request(ctx, transport.InviteUserEvent,
		transport.InviteUserRequest{Name: c.Channel, Nickname: nickname})
	return err
}

func (c *ClientChannelConnection) KickUser(ctx context.Context, nickname string, isRevoke bool) error {
	_, err := c.request(ctx, transport.KickUserEvent,
		transport.KickUserRequest{Nickname: nickname, IsRevoke: isRevoke})
	return err
}

func (c *ClientChannelConnection) Typing(ctx context.Context, content string) error {
	_, err := c.request(ctx, transport.TypingEvent, transport.TypingRequest{Content: content})
	return err
}

// AddMessage posts content and returns the stored message as the server
// recorded it.
func (c *ClientChannelConnection) AddMessage(ctx context.Context, content string) (domain.Message, error) {
	payload, err := c.request(ctx, transport.AddMessageEvent,
		transport.AddMessageRequest{Content: content})
	if err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	if err := json.Unmarshal(payload, &message); err != nil {
		return domain.Message{}, fmt.Errorf("decode message: %w", err)
	}
	return message, nil
}

// GetMessages pulls one page of history for hydration, newest first.
func (c *ClientChannelConnection) GetMessages(ctx context.Context, cursor *string) (transport.MessagePage, error) {
	payload, err := c.request(ctx, transport.GetMessagesEvent,
		transport.GetMessagesRequest{Cursor: cursor})
	if err != nil {
		return transport.MessagePage{}, err
	}
	var page transport.MessagePage
	if err := json.Unmarshal(payload, &page); err != nil {
		return transport.MessagePage{}, fmt.Errorf("decode history page: %w", err)
	}
	return page, nil
}

// SetStatus sends the voluntary status signal on the global scope.
func (c *ClientChannelConnection) SetStatus(ctx context.Context, status string) error {
	_, err := c.request(ctx, transport.SetStatusEvent,
		transport.SetStatusRequest{Status: status})
	return err
}
