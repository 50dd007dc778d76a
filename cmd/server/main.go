package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"guest-chat/httpapi"
	"guest-chat/internal"
	"guest-chat/joincode"
	"guest-chat/logs"
	"guest-chat/moderation"
	"guest-chat/repositories"
	"guest-chat/services"
	"guest-chat/sessions"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle, so
// every defer (database close included) executes before the process
// exits, whatever the shutdown path.
func run() error {
	// 1. Configuration & logger. The env file is optional: a containerized
	// deployment injects everything through the environment.
	envFile := os.Getenv("APP_ENV")
	if envFile == "" {
		envFile = "development"
	}
	_ = godotenv.Load(envFile + ".env")

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Moderation (optional)
	var moderator *moderation.Moderator
	if config.CensoredWordsPath != "" {
		words, err := moderation.LoadWords(config.CensoredWordsPath)
		if err != nil {
			return fmt.Errorf("loading censored words: %w", err)
		}
		replacement := []rune(config.CensoredChar)
		if len(replacement) != 1 {
			return fmt.Errorf("MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q", config.CensoredChar)
		}
		if moderator, err = moderation.NewModerator(words, replacement[0]); err != nil {
			return fmt.Errorf("building moderator: %w", err)
		}
		log.Info("Moderation enabled", "words", len(words))
	}

	// 4. Stores, session manager, coordinator
	manager := sessions.NewManager(log)
	service := services.NewMembershipService(
		repositories.NewIdentityRepository(db, log),
		repositories.NewRoomRepository(db, log, config.LimitMessages),
		joincode.NewGenerator(config.JoinCodeAttempts),
		manager,
		moderator,
		config.MaxContentLength,
		log,
	)

	// 5. Debug inspector (optional, never expose in production)
	if config.DebugPort != nil {
		internal.StartDebugServer(db, *config.DebugPort, func() map[string]any {
			return map[string]any{"active_sessions": manager.Active()}
		})
		log.Info("Debug inspector enabled", "port", *config.DebugPort)
	}

	// 6. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. HTTP server
	router := httpapi.NewRouter(service, manager, []byte(config.SessionSecret), log)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("Program stopped cleanly")
	return nil
}
