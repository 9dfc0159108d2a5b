package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
	"github.com/rocketscienceinc/flashcards-backend/internal/usecase"
)

const defaultResultsLimit = 10

var errNotConnected = errors.New("connect first")

func (that *Server) handleConnect(_ context.Context, c *client, payload RequestPayload) (ResponsePayload, error) {
	if c.session != nil {
		that.release(c)
	}

	session := that.sessions.GetOrCreate(payload.UserID)
	that.bind(c, session)

	view := session.View()

	that.logger.Info("client connected", "user", session.UserID())

	return ResponsePayload{UserID: session.UserID(), View: &view}, nil
}

func (that *Server) handleSelectDecks(_ context.Context, c *client, payload RequestPayload) (ResponsePayload, error) {
	if c.session == nil {
		return ResponsePayload{}, errNotConnected
	}

	view, err := c.session.SelectDecks(payload.DeckIDs)

	return ResponsePayload{View: &view}, err
}

func (that *Server) handleAction(action usecase.Action) handlerFunc {
	return func(_ context.Context, c *client, _ RequestPayload) (ResponsePayload, error) {
		if c.session == nil {
			return ResponsePayload{}, errNotConnected
		}

		view, err := c.session.HandleAction(action)

		return ResponsePayload{View: &view, Game: view.Game}, err
	}
}

func (that *Server) handleSelectTile(_ context.Context, c *client, payload RequestPayload) (ResponsePayload, error) {
	if c.session == nil {
		return ResponsePayload{}, errNotConnected
	}

	game, outcome, err := c.session.SelectTile(payload.TileID)

	return ResponsePayload{Game: &game, Outcome: outcomeNames[outcome]}, err
}

func (that *Server) handleResetGame(_ context.Context, c *client, _ RequestPayload) (ResponsePayload, error) {
	if c.session == nil {
		return ResponsePayload{}, errNotConnected
	}

	game, err := c.session.ResetGame()

	return ResponsePayload{Game: &game}, err
}

func (that *Server) handleResults(ctx context.Context, c *client, payload RequestPayload) (ResponsePayload, error) {
	if c.session == nil {
		return ResponsePayload{}, errNotConnected
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = defaultResultsLimit
	}

	results, err := c.session.BestResults(ctx, limit)

	return ResponsePayload{Results: results}, err
}

func (that *Server) handleLogout(_ context.Context, c *client, _ RequestPayload) (ResponsePayload, error) {
	if c.session == nil {
		return ResponsePayload{}, errNotConnected
	}

	userID := c.session.UserID()
	that.release(c)
	c.session = nil

	that.sessions.Logout(userID)

	return ResponsePayload{UserID: userID}, nil
}

// warningMessage turns a refused action into the text shown to the user.
func warningMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, apperror.ErrNoDecksSelected):
		return "Please select at least one deck first.", true
	case errors.Is(err, apperror.ErrNoCardsInDecks):
		return "The selected decks have no cards yet.", true
	case errors.Is(err, apperror.ErrGameNotStarted):
		return "Start a match game first.", true
	default:
		return "", false
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, errNotConnected):
		return errNotConnected.Error()
	case errors.Is(err, apperror.ErrUnknownAction):
		return apperror.ErrUnknownAction.Error()
	default:
		return "internal error"
	}
}
