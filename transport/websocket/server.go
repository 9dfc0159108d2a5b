package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/flashcards-backend/internal/usecase"
)

const (
	sendBufferSize  = 64
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type sessionStore interface {
	GetOrCreate(userID string) *usecase.StudySession
	Logout(userID string)
}

type handlerFunc func(ctx context.Context, client *client, payload RequestPayload) (ResponsePayload, error)

type Server struct {
	logger   *slog.Logger
	sessions sessionStore
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	ownersMutex sync.Mutex
	owners      map[string]*client
}

func New(logger *slog.Logger, sessions sessionStore) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),
		owners:   make(map[string]*client),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["study:decks"] = server.handleSelectDecks
	server.handlers["study:shuffle"] = server.handleAction(usecase.ActionShuffle)
	server.handlers["study:exit"] = server.handleAction(usecase.ActionExit)
	server.handlers["game:start"] = server.handleAction(usecase.ActionMatchGame)
	server.handlers["game:select"] = server.handleSelectTile
	server.handlers["game:reset"] = server.handleResetGame
	server.handlers["game:results"] = server.handleResults
	server.handlers["session:logout"] = server.handleLogout

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn)
	go c.writePump(log)

	log.Info("WebSocket connection established")

	that.readPump(ctx, c)

	that.release(c)
	c.close()

	log.Info("WebSocket connection closed")
}

// readPump - processes messages from the client until the connection drops.
func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump")

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			c.send(Message{Action: "error"}, ResponsePayload{Error: "invalid message"})
			continue
		}

		that.dispatch(ctx, c, &message)
	}
}

func (that *Server) dispatch(ctx context.Context, c *client, message *Message) {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		c.send(*message, ResponsePayload{Error: "unknown action"})
		return
	}

	var payload RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			c.send(*message, ResponsePayload{Error: "invalid payload"})
			return
		}
	}

	response, err := handler(ctx, c, payload)
	if err != nil {
		if warning, isWarning := warningMessage(err); isWarning {
			response.Warning = warning
		} else {
			log.Error("error processing message", "error", err)
			response.Error = errorMessage(err)
		}
	}

	c.send(*message, response)
}

// bind makes c the client that receives the pushed updates of session.
func (that *Server) bind(c *client, session *usecase.StudySession) {
	that.ownersMutex.Lock()
	defer that.ownersMutex.Unlock()

	c.session = session
	that.owners[session.UserID()] = c

	session.OnUpdate(func(update usecase.Update) {
		c.send(Message{Action: actionSessionUpdate}, ResponsePayload{View: update.View, Game: update.Game})
	})
}

func (that *Server) release(c *client) {
	if c.session == nil {
		return
	}

	that.ownersMutex.Lock()
	defer that.ownersMutex.Unlock()

	userID := c.session.UserID()
	if that.owners[userID] == c {
		delete(that.owners, userID)
		c.session.OnUpdate(nil)
	}
}
