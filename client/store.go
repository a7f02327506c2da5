package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"lack-chat/domain"
	"lack-chat/transport"
)

// ChannelState is the viewer's local picture of one joined channel.
type ChannelState struct {
	Members  map[string]domain.User
	Messages []domain.Message
	Typing   map[string]string
}

// State is the whole client-side view. Reducers never mutate maps in place,
// so a value copy of State is a consistent snapshot.
type State struct {
	Viewer       domain.User
	ViewerStatus string
	Online       map[string]domain.User
	Statuses     map[string]string
	Channels     map[string]ChannelState
}

// Notification asks the surrounding UI to draw attention to a message.
type Notification struct {
	Channel string
	Message domain.Message
}

// StoreOptions configures the side effects a reduction may request.
type StoreOptions struct {
	// MentionOnly suppresses notifications unless the content contains the
	// viewer's nickname.
	MentionOnly bool
	Notify      func(Notification)
	// OnLocalLeave tears down the channel connection without sending a
	// removeUser request, the server already evicted the viewer.
	OnLocalLeave func(channel string)
	OnChange     func(State)
}

// Store folds server-pushed frames into State on a single dispatch
// goroutine. All mutation goes through reduce, a pure function.
type Store struct {
	opts   StoreOptions
	log    *slog.Logger
	frames chan scopedFrame

	mu    sync.RWMutex
	state State
}

type scopedFrame struct {
	scope string // channel name, or "" for the global scope
	frame transport.Frame
}

func NewStore(viewer domain.User, opts StoreOptions, log *slog.Logger) *Store {
	return &Store{
		opts:   opts,
		log:    log,
		frames: make(chan scopedFrame, 256),
		state: State{
			Viewer:       viewer,
			ViewerStatus: "ONLINE",
			Online:       map[string]domain.User{},
			Statuses:     map[string]string{},
			Channels:     map[string]ChannelState{},
		},
	}
}

// Run consumes dispatched frames until the context ends.
func (s *Store) Run(ctx context.Context) error {
	for {
		select {
		case sf := <-s.frames:
			s.apply(sf)
		case <-ctx.Done():
			return nil
		}
	}
}

// Dispatch queues one frame for reduction. A full queue drops the frame,
// stalling the socket readers would be worse.
func (s *Store) Dispatch(scope string, frame transport.Frame) {
	select {
	case s.frames <- scopedFrame{scope: scope, frame: frame}:
	default:
		s.log.Warn("store queue full, dropping frame", slog.String("event", frame.Event))
	}
}

// Snapshot returns the current state by value.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetViewerStatus records the viewer's own voluntary status, which gates
// message notifications.
func (s *Store) SetViewerStatus(status string) {
	s.mu.Lock()
	s.state.ViewerStatus = status
	s.mu.Unlock()
}

// Hydrate seeds a channel from the join ack and the first history page.
func (s *Store) Hydrate(channel string, members []domain.User, messages []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := ChannelState{
		Members:  map[string]domain.User{},
		Messages: messages,
		Typing:   map[string]string{},
	}
	for _, member := range members {
		cs.Members[member.Nickname] = member
	}
	channels := cloneChannels(s.state.Channels)
	channels[channel] = cs
	s.state.Channels = channels
}

func (s *Store) apply(sf scopedFrame) {
	s.mu.Lock()
	next, effects := reduce(s.state, sf, s.opts.MentionOnly)
	s.state = next
	s.mu.Unlock()

	for _, effect := range effects {
		switch e := effect.(type) {
		case notifyEffect:
			if s.opts.Notify != nil {
				s.opts.Notify(Notification{Channel: e.channel, Message: e.message})
			}
		case localLeaveEffect:
			if s.opts.OnLocalLeave != nil {
				s.opts.OnLocalLeave(e.channel)
			}
		}
	}
	if s.opts.OnChange != nil {
		s.opts.OnChange(next)
	}
}

type notifyEffect struct {
	channel string
	message domain.Message
}

type localLeaveEffect struct {
	channel string
}

// reduce folds one frame into the state. Pure: inputs untouched, effects
// returned instead of performed.
func reduce(state State, sf scopedFrame, mentionOnly bool) (State, []any) {
	if sf.scope == "" {
		return reduceGlobal(state, sf.frame), nil
	}
	return reduceChannel(state, sf.scope, sf.frame, mentionOnly)
}

func reduceGlobal(state State, frame transport.Frame) State {
	switch frame.Event {
	case "user:list":
		var users []domain.User
		if json.Unmarshal(frame.Payload, &users) != nil {
			return state
		}
		online := map[string]domain.User{}
		for _, user := range users {
			online[user.Nickname] = user
		}
		state.Online = online
	case "user:ONLINE":
		var user domain.User
		if json.Unmarshal(frame.Payload, &user) != nil {
			return state
		}
		online := cloneUsers(state.Online)
		online[user.Nickname] = user
		state.Online = online
		statuses := cloneStrings(state.Statuses)
		delete(statuses, user.Nickname)
		state.Statuses = statuses
	case "user:OFFLINE":
		var user domain.User
		if json.Unmarshal(frame.Payload, &user) != nil {
			return state
		}
		online := cloneUsers(state.Online)
		delete(online, user.Nickname)
		state.Online = online
		statuses := cloneStrings(state.Statuses)
		delete(statuses, user.Nickname)
		state.Statuses = statuses
	default:
		// user:<STATUS> family, a voluntary signal
		status, ok := strings.CutPrefix(frame.Event, "user:")
		if !ok {
			return state
		}
		var user domain.User
		if json.Unmarshal(frame.Payload, &user) != nil {
			return state
		}
		statuses := cloneStrings(state.Statuses)
		statuses[user.Nickname] = status
		state.Statuses = statuses
	}
	return state
}

func reduceChannel(state State, channel string, frame transport.Frame, mentionOnly bool) (State, []any) {
	cs, known := state.Channels[channel]
	if !known {
		cs = ChannelState{Members: map[string]domain.User{}, Typing: map[string]string{}}
	}

	switch frame.Event {
	case "message":
		var message domain.Message
		if json.Unmarshal(frame.Payload, &message) != nil {
			return state, nil
		}
		cs.Messages = append(append([]domain.Message{}, cs.Messages...), message)
		typing := cloneStrings(cs.Typing)
		delete(typing, message.Author.Nickname)
		cs.Typing = typing
		state = withChannel(state, channel, cs)
		if shouldNotify(state, message, mentionOnly) {
			return state, []any{notifyEffect{channel: channel, message: message}}
		}
		return state, nil
	case "userJoined", "invitedUserJoined", "newInvite":
		user, ok := memberPayload(frame)
		if !ok {
			return state, nil
		}
		members := cloneUsers(cs.Members)
		members[user.Nickname] = user
		cs.Members = members
		return withChannel(state, channel, cs), nil
	case "userLeft":
		var user domain.User
		if json.Unmarshal(frame.Payload, &user) != nil {
			return state, nil
		}
		members := cloneUsers(cs.Members)
		delete(members, user.Nickname)
		cs.Members = members
		typing := cloneStrings(cs.Typing)
		delete(typing, user.Nickname)
		cs.Typing = typing
		return withChannel(state, channel, cs), nil
	case "userKick":
		var user domain.User
		if json.Unmarshal(frame.Payload, &user) != nil {
			return state, nil
		}
		if user.ID == state.Viewer.ID {
			return dropChannel(state, channel), []any{localLeaveEffect{channel: channel}}
		}
		members := cloneUsers(cs.Members)
		delete(members, user.Nickname)
		cs.Members = members
		return withChannel(state, channel, cs), nil
	case "channelDeleted":
		return dropChannel(state, channel), []any{localLeaveEffect{channel: channel}}
	case "typing":
		var payload struct {
			User    string `json:"user"`
			Content string `json:"content"`
		}
		if json.Unmarshal(frame.Payload, &payload) != nil {
			return state, nil
		}
		typing := cloneStrings(cs.Typing)
		if payload.Content == "" {
			delete(typing, payload.User)
		} else {
			typing[payload.User] = payload.Content
		}
		cs.Typing = typing
		return withChannel(state, channel, cs), nil
	}
	return state, nil
}

// memberPayload handles both the bare user shape and the {user, channel}
// invite shapes.
func memberPayload(frame transport.Frame) (domain.User, bool) {
	if frame.Event == "userJoined" {
		var user domain.User
		if json.Unmarshal(frame.Payload, &user) != nil {
			return domain.User{}, false
		}
		return user, true
	}
	var payload struct {
		User domain.User `json:"user"`
	}
	if json.Unmarshal(frame.Payload, &payload) != nil {
		return domain.User{}, false
	}
	return payload.User, true
}

func shouldNotify(state State, message domain.Message, mentionOnly bool) bool {
	if state.ViewerStatus == "OFFLINE" {
		return false
	}
	if message.Author.ID == state.Viewer.ID {
		return false
	}
	if mentionOnly && !strings.Contains(message.Content, state.Viewer.Nickname) {
		return false
	}
	return true
}

func withChannel(state State, channel string, cs ChannelState) State {
	channels := cloneChannels(state.Channels)
	channels[channel] = cs
	state.Channels = channels
	return state
}

func dropChannel(state State, channel string) State {
	channels := cloneChannels(state.Channels)
	delete(channels, channel)
	state.Channels = channels
	return state
}

func cloneChannels(in map[string]ChannelState) map[string]ChannelState {
	out := make(map[string]ChannelState, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneUsers(in map[string]domain.User) map[string]domain.User {
	out := make(map[string]domain.User, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
