package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/flashcards-backend/internal/ai"
	"github.com/rocketscienceinc/flashcards-backend/internal/cardsource"
	"github.com/rocketscienceinc/flashcards-backend/internal/config"
	"github.com/rocketscienceinc/flashcards-backend/internal/matching"
	"github.com/rocketscienceinc/flashcards-backend/internal/pkg"
	"github.com/rocketscienceinc/flashcards-backend/internal/repository"
	"github.com/rocketscienceinc/flashcards-backend/internal/repository/storage"
	"github.com/rocketscienceinc/flashcards-backend/internal/usecase"
	"github.com/rocketscienceinc/flashcards-backend/transport/rest"
	"github.com/rocketscienceinc/flashcards-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLite(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	cardRepo := repository.NewCardRepository(redisStorage)
	resultRepo := repository.NewResultRepository(sqliteStorage.Connection)
	feed := cardsource.NewFeed(logger, redisStorage, cardRepo)

	httpClient := ai.NewHTTPClient(conf.ProxyTimeout)
	proxyService := ai.NewService(
		logger,
		ai.NewOpenAI(httpClient, conf.OpenAI.APIKey, conf.OpenAI.URL, conf.OpenAI.Model),
		ai.NewHuggingFace(httpClient, conf.HuggingFace.Token, conf.HuggingFace.RouterURL, conf.HuggingFace.LegacyURL),
		ai.NewLibreTranslate(httpClient, conf.LibreTranslate.URL, conf.LibreTranslate.APIKey),
	)
	if !proxyService.OpenAIConfigured() {
		log.Warn("OPENAI_API_KEY is not set, card generation is disabled")
	}

	delays := conf.Game.Delays()
	sessions := usecase.NewSessionManager(ctx, logger, func(ctx context.Context, userID string) *usecase.StudySession {
		engine := matching.NewEngine(logger, nil, pkg.DefaultSource, delays)

		return usecase.NewStudySession(ctx, logger, userID, feed, resultRepo, engine, pkg.DefaultSource)
	}, conf.Session.TTL)

	if err = sessions.Start(conf.Session.SweepInterval); err != nil {
		return fmt.Errorf("could not start session sweep: %w", err)
	}
	defer sessions.Stop()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, proxyService, resultRepo, cardRepo)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, sessions)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
