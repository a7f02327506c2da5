package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"lack-chat/auth"
	"lack-chat/client"
	"lack-chat/domain"
	"lack-chat/presence"
	"lack-chat/repositories"
	"lack-chat/runtime"
	"lack-chat/runtime/workers"
	"lack-chat/services"
	"lack-chat/transport"
)

// BaseChatSuite boots the full stack for every test: a badger store in a
// temp dir, the fanout worker under its supervisor, and the websocket
// server behind an httptest listener. Actors talk to it through the real
// client package, the same code path the terminal client uses.
type BaseChatSuite struct {
	suite.Suite
	Config Config

	server *httptest.Server
	db     *badger.DB
	sup    *workers.Supervisor
	cancel context.CancelFunc
}

func (s *BaseChatSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseChatSuite) SetupTest() {
	log := logs.GetLoggerFromString(s.Config.LogLevel)

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.db = db

	users := repositories.NewUserRepository(db)
	channels := repositories.NewChannelRepository(db)
	kicks := repositories.NewKickRepository(db)
	messages := repositories.NewMessageRepository(db, log, nil)

	rooms := runtime.NewRooms()
	hub := runtime.NewHub(log, 64)
	fanout := workers.NewEventFanout(log, rooms, hub.Queue(), 2*time.Second)
	s.sup = workers.NewSupervisor(log, time.Second)
	s.sup.Add(fanout)

	presenceService := services.NewPresenceService(presence.NewRegistry(), users, hub, log)
	membership := services.NewMembershipService(channels, users, kicks, hub, log)
	relay := services.NewMessageRelay(messages, hub, nil, log)
	tokens := auth.NewTokenManager("e2e-secret", time.Hour)

	server := transport.NewServer(rooms, presenceService, membership, relay,
		users, tokens, 64, log)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.sup.Run(ctx)

	s.server = httptest.NewServer(server.Handler())
}

func (s *BaseChatSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
	s.sup.Stop()
	s.Require().NoError(s.db.Close())
}

// Step prints a colorized header so failures point at the scenario phase.
func (s *BaseChatSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Ctx bounds one request/ack round trip.
func (s *BaseChatSuite) Ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.Config.Wait)
}

// Actor is one logged-in user holding the global presence connection plus
// any channel connections opened during the scenario.
type Actor struct {
	suite *BaseChatSuite

	User   domain.User
	Token  string
	Global *client.ClientChannelConnection

	channels []*client.ClientChannelConnection
}

// Connect logs a nickname in and opens its global presence scope.
func (s *BaseChatSuite) Connect(nickname string) *Actor {
	body, err := json.Marshal(transport.LoginRequest{Nickname: nickname})
	s.Require().NoError(err)
	response, err := http.Post(s.server.URL+"/login", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer response.Body.Close()
	s.Require().Equal(http.StatusOK, response.StatusCode)

	var login transport.LoginResponse
	s.Require().NoError(json.NewDecoder(response.Body).Decode(&login))

	log := logs.GetLoggerFromString(s.Config.LogLevel)
	actor := &Actor{suite: s, User: login.User, Token: login.Token}
	actor.Global = client.NewClientChannelConnection("", s.dial("/ws", login.Token), log)
	return actor
}

// JoinChannel opens a connection scoped to the channel and sends the join
// request over it, returning both the connection and the server's view of
// the channel.
func (a *Actor) JoinChannel(name string) (*client.ClientChannelConnection, domain.Channel) {
	log := logs.GetLoggerFromString(a.suite.Config.LogLevel)
	conn := client.NewClientChannelConnection(name,
		a.suite.dial("/ws/channels/"+name, a.Token), log)
	a.channels = append(a.channels, conn)

	ctx, cancel := a.suite.Ctx()
	defer cancel()
	channel, err := conn.JoinChannel(ctx)
	a.suite.Require().NoError(err)
	return conn, channel
}

func (a *Actor) Close() {
	for _, conn := range a.channels {
		conn.Close()
	}
	a.Global.Close()
}

func (s *BaseChatSuite) dial(path, token string) *websocket.Conn {
	endpoint := "ws" + strings.TrimPrefix(s.server.URL, "http") + path + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	s.Require().NoError(err)
	return conn
}

// WaitEvent pulls pushed frames off the connection until the wanted event
// shows up, skipping unrelated ones.
func (s *BaseChatSuite) WaitEvent(conn *client.ClientChannelConnection, event string) transport.Frame {
	deadline := time.After(s.Config.Wait)
	for {
		select {
		case frame, ok := <-conn.Events():
			if !ok {
				s.Require().FailNowf("connection closed", "while waiting for %s", event)
			}
			if frame.Event == event {
				return frame
			}
			s.T().Logf("skipping %s while waiting for %s", frame.Event, event)
		case <-deadline:
			s.Require().FailNowf("timed out", "no %s event within %v", event, s.Config.Wait)
		}
	}
}

// DecodeEvent unmarshals the frame payload into dst.
func (s *BaseChatSuite) DecodeEvent(frame transport.Frame, dst any) {
	s.Require().NoError(json.Unmarshal(frame.Payload, dst))
}
