package transport

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"lack-chat/auth"
	"lack-chat/contract"
	"lack-chat/domain"
	apperrors "lack-chat/errors"
	"lack-chat/repositories"
	"lack-chat/services"
)

// Server exposes the chat over HTTP: a login endpoint issuing tokens and
// two websocket scopes, the global namespace and one per channel.
type Server struct {
	echo     *echo.Echo
	rooms    contract.IRoomRegistry
	presence services.IPresenceService
	users    repositories.IUserRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
	log      *slog.Logger

	presenceController *PresenceController
	channelController  *ChannelController
	messageController  *MessageController

	upgrader          websocket.Upgrader
	sessionBufferSize int

	ctx context.Context
}

func NewServer(rooms contract.IRoomRegistry, presence services.IPresenceService,
	membership services.IMembershipService, relay services.IMessageRelay,
	users repositories.IUserRepository, tokens *auth.TokenManager,
	sessionBufferSize int, log *slog.Logger) *Server {
	validate := validator.New()
	server := &Server{
		echo:               echo.New(),
		rooms:              rooms,
		presence:           presence,
		users:              users,
		tokens:             tokens,
		validate:           validate,
		log:                log,
		presenceController: NewPresenceController(presence, validate, log),
		channelController:  NewChannelController(membership, validate, log),
		messageController:  NewMessageController(relay, validate, log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessionBufferSize: sessionBufferSize,
		ctx:               context.Background(),
	}
	server.echo.HideBanner = true
	server.echo.HidePort = true
	server.routes()
	return server
}

func (s *Server) routes() {
	s.echo.POST("/login", s.handleLogin)
	s.echo.GET("/ws", s.handleGlobal)
	s.echo.GET("/ws/channels/:name", s.handleChannel)
}

// Handler exposes the HTTP handler, for tests serving over httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	s.ctx = ctx
	errs := make(chan error, 1)
	go func() {
		errs <- s.echo.Start(address)
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

type LoginRequest struct {
	Nickname string `json:"nickname" validate:"required,max=64"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// handleLogin resolves the nickname to a user, creating it on first sight,
// and returns a signed token for the websocket endpoints.
func (s *Server) handleLogin(c echo.Context) error {
	var request LoginRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := s.validate.Struct(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, err := s.users.GetByNickname(request.Nickname)
	if stderrors.Is(err, apperrors.ErrUserNotFound) {
		user = domain.User{ID: domain.UserID(uuid.NewString()), Nickname: request.Nickname}
		err = s.users.Create(user)
	}
	if err != nil {
		s.log.Error("login failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		s.log.Error("token generation failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// authenticate accepts the token either as a Bearer header or as a query
// parameter, browsers cannot set headers on websocket dials.
func (s *Server) authenticate(c echo.Context) (domain.User, error) {
	token := c.QueryParam("token")
	if token == "" {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	user, err := s.tokens.Validate(token)
	if err != nil {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return user, nil
}

// handleGlobal serves the presence scope. The socket lifecycle drives
// connect/disconnect; the only inbound frame is the status signal.
func (s *Server) handleGlobal(c echo.Context) error {
	user, err := s.authenticate(c)
	if err != nil {
		return err
	}
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	sess := NewSession(uuid.NewString(), user, conn, s.sessionBufferSize, s.log)
	go sess.WritePump(s.ctx)

	s.rooms.Subscribe(sess.ID, contract.GlobalRoom, sess)
	defer func() {
		s.rooms.Unsubscribe(sess.ID, contract.GlobalRoom)
		s.presence.OnDisconnect(sess.ID, user)
		sess.Close()
	}()
	if _, err := s.presence.OnConnect(sess.ID, user); err != nil {
		s.log.Error("presence connect failed", slog.Any("error", err))
		return nil
	}

	sess.ReadPump(s.ctx, func(sess *Session, frame Frame) {
		if s.presenceController.Handle(sess, frame) {
			return
		}
		s.rejectUnknown(sess, frame)
	})
	return nil
}

// handleChannel serves one channel scope. Joining the channel is an
// explicit frame, the connection itself only scopes the room.
func (s *Server) handleChannel(c echo.Context) error {
	user, err := s.authenticate(c)
	if err != nil {
		return err
	}
	channel := c.Param("name")
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	sess := NewSession(uuid.NewString(), user, conn, s.sessionBufferSize, s.log)
	go sess.WritePump(s.ctx)

	room := contract.ChannelRoom(channel)
	s.rooms.Subscribe(sess.ID, room, sess)
	defer func() {
		s.rooms.Unsubscribe(sess.ID, room)
		sess.Close()
	}()

	sess.ReadPump(s.ctx, func(sess *Session, frame Frame) {
		if s.channelController.Handle(sess, channel, frame) {
			return
		}
		if s.messageController.Handle(sess, channel, frame) {
			return
		}
		s.rejectUnknown(sess, frame)
	})
	return nil
}

func (s *Server) rejectUnknown(sess *Session, frame Frame) {
	s.log.Warn("unknown event", slog.String("event", frame.Event))
	if frame.ID != "" {
		_ = sess.Send(AckFailure(frame.ID, apperrors.ErrUnknownCommand))
	}
}
