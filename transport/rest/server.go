package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger  *slog.Logger
	proxy   *proxyHandlers
	results *resultHandlers
	cards   *cardHandlers
}

func New(logger *slog.Logger, proxy proxyService, results resultService, cards cardService) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		proxy:   &proxyHandlers{logger: logger.With("component", "proxy"), service: proxy},
		results: &resultHandlers{service: results},
		cards:   &cardHandlers{logger: logger.With("component", "cards"), service: cards},
	}
}

// Handler routes every endpoint behind the CORS and request-logging middleware.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	ping := NewPingHandler()
	mux.HandleFunc("GET /ping", ping.PingHandler)
	mux.HandleFunc("GET /api/health", ping.HealthHandler)

	mux.HandleFunc("POST /api/translate", that.proxy.Translate)
	mux.HandleFunc("POST /api/generate", that.proxy.Generate)
	mux.HandleFunc("POST /api/chatgpt/generate-cards", that.proxy.GenerateCards)
	mux.HandleFunc("POST /api/chatgpt/generate-back", that.proxy.GenerateBack)
	mux.HandleFunc("POST /api/chatgpt/translate", that.proxy.TranslateText)

	mux.HandleFunc("GET /api/users/{userID}/results", that.results.BestByUser)

	mux.HandleFunc("POST /api/decks/{deckID}/cards", that.cards.Create)
	mux.HandleFunc("PUT /api/decks/{deckID}/cards/{cardID}", that.cards.Update)
	mux.HandleFunc("DELETE /api/decks/{deckID}/cards/{cardID}", that.cards.Delete)

	return withCORS(that.withRequestLog(mux))
}

// Start serves until ctx is done and then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
