package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"lack-chat/auth"
	"lack-chat/internal"
	"lack-chat/moderation"
	"lack-chat/presence"
	"lack-chat/repositories"
	"lack-chat/runtime"
	"lack-chat/runtime/workers"
	"lack-chat/services"
	"lack-chat/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires everything and owns the shutdown order, so that defers fire and
// badger closes cleanly whatever kills the process.
func run() error {
	// Optional .env for local development, real deployments set the vars
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	users := repositories.NewUserRepository(db)
	channels := repositories.NewChannelRepository(db)
	kicks := repositories.NewKickRepository(db)
	messages := repositories.NewMessageRepository(db, log, config.LimitMessages)

	rooms := runtime.NewRooms()
	hub := runtime.NewHub(log, config.BufferSize)
	fanout := workers.NewEventFanout(log, rooms, hub.Queue(), config.SinkTimeout)
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(fanout)

	censorChar, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(config.CensoredWords, censorChar)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	presenceService := services.NewPresenceService(presence.NewRegistry(), users, hub, log)
	membership := services.NewMembershipService(channels, users, kicks, hub, log)
	relay := services.NewMessageRelay(messages, hub, moderator, log)
	tokens := auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration)

	server := transport.NewServer(rooms, presenceService, membership, relay,
		users, tokens, config.SessionBufferSize, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	if config.DebugPort != 0 {
		internal.StartDebugServer(db, config.DebugPort)
	}

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Info("Starting chat server", "address", address)
	if err := server.Run(ctx, address); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	sup.Stop()
	log.Info("Program stopped cleanly")
	return nil
}
