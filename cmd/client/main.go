package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"

	"lack-chat/client"
	"lack-chat/domain"
	apperrors "lack-chat/errors"
	"lack-chat/transport"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	ServerAddr  string        `envconfig:"CHAT_SERVER_ADDR" default:"localhost:8080"`
	Nickname    string        `envconfig:"CHAT_NICKNAME"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"error"`
	AckTimeout  time.Duration `envconfig:"ACK_TIMEOUT" default:"5s"`
	MentionOnly bool          `envconfig:"MENTION_ONLY" default:"false"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := bufio.NewScanner(os.Stdin)

	nickname := config.Nickname
	if nickname == "" {
		fmt.Print("nickname: ")
		if !scanner.Scan() {
			return exitOK, nil
		}
		nickname = strings.TrimSpace(scanner.Text())
	}
	if nickname == "" {
		return exitConfig, fmt.Errorf("a nickname is required")
	}

	login, err := loginRequest(ctx, config.ServerAddr, nickname)
	if err != nil {
		return exitRuntime, fmt.Errorf("login failed: %w", err)
	}
	viewer := login.User

	dial := func(path string) (*websocket.Conn, error) {
		endpoint := url.URL{
			Scheme:   "ws",
			Host:     config.ServerAddr,
			Path:     path,
			RawQuery: url.Values{"token": {login.Token}}.Encode(),
		}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
		return conn, err
	}

	globalConn, err := dial("/ws")
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerAddr, err)
	}
	global := client.NewClientChannelConnection("", globalConn, log)
	defer global.Close()

	registry := client.NewChannelConnectionRegistry(func(channel string) (*client.ClientChannelConnection, error) {
		conn, err := dial("/ws/channels/" + channel)
		if err != nil {
			return nil, err
		}
		return client.NewClientChannelConnection(channel, conn, log), nil
	})
	defer registry.CloseAll()

	store := client.NewStore(viewer, client.StoreOptions{
		MentionOnly: config.MentionOnly,
		Notify: func(n client.Notification) {
			printMessage(n.Channel, n.Message)
		},
		OnLocalLeave: func(channel string) {
			registry.Leave(channel)
			color.Yellow.Printf("you are no longer in #%s\n", channel)
		},
	}, log)
	go func() { _ = store.Run(ctx) }()

	// The global scope feeds presence events into the store
	go func() {
		for frame := range global.Events() {
			store.Dispatch("", frame)
			printPresence(frame)
		}
	}()

	// One goroutine owns stdin; the main loop and the confirmer both take
	// their lines from this channel.
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	confirm := func(prompt string) bool {
		color.Yellow.Printf("%s [y/N] ", prompt)
		select {
		case line, ok := <-lines:
			return ok && strings.EqualFold(strings.TrimSpace(line), "y")
		case <-ctx.Done():
			return false
		}
	}
	dispatcher := client.NewCommandDispatcher(registry, store, global,
		confirm, config.AckTimeout, log)

	color.Green.Printf("connected as %s, /join a channel to start\n", viewer.Nickname)

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			feedback, err := dispatcher.Dispatch(ctx, line)
			printOutcome(feedback, err)
		}
	}
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func loginRequest(ctx context.Context, addr, nickname string) (loginResponse, error) {
	body, err := json.Marshal(transport.LoginRequest{Nickname: nickname})
	if err != nil {
		return loginResponse{}, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("http://%s/login", addr), bytes.NewReader(body))
	if err != nil {
		return loginResponse{}, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return loginResponse{}, err
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode != http.StatusOK {
		return loginResponse{}, fmt.Errorf("unexpected status %s", response.Status)
	}
	var login loginResponse
	if err := json.NewDecoder(response.Body).Decode(&login); err != nil {
		return loginResponse{}, err
	}
	return login, nil
}

func printOutcome(feedback string, err error) {
	switch {
	case err == nil && feedback != "":
		color.Green.Println(feedback)
	case err == nil:
	case apperrors.IsDomain(err) || isRemote(err):
		color.Yellow.Println(err.Error())
	default:
		color.Red.Println("something went wrong")
	}
}

func isRemote(err error) bool {
	var remote *client.RemoteError
	return stderrors.As(err, &remote)
}

func printMessage(channel string, message domain.Message) {
	header := color.New(color.FgCyan).Render(
		fmt.Sprintf("[%s] %s:", channel, message.Author.Nickname))
	fmt.Printf("%s %s\n", header, message.Content)
}

// printPresence echoes the global events worth seeing in the terminal.
func printPresence(frame transport.Frame) {
	var user domain.User
	switch frame.Event {
	case "user:ONLINE":
		if json.Unmarshal(frame.Payload, &user) == nil {
			color.Gray.Printf("%s is online\n", user.Nickname)
		}
	case "user:OFFLINE":
		if json.Unmarshal(frame.Payload, &user) == nil {
			color.Gray.Printf("%s went offline\n", user.Nickname)
		}
	}
}
