package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/flashcards-backend/internal/usecase"
)

// client owns one connection; only writePump writes to it.
type client struct {
	conn     *websocket.Conn
	outgoing chan []byte
	done     chan struct{}
	once     sync.Once

	session *usecase.StudySession
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:     conn,
		outgoing: make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// send queues a response to request; it is dropped when the client is gone or too slow.
func (that *client) send(request Message, payload ResponsePayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	frame, err := json.Marshal(Message{Action: request.Action, Payload: body})
	if err != nil {
		return
	}

	select {
	case <-that.done:
	case that.outgoing <- frame:
	default:
	}
}

func (that *client) writePump(log *slog.Logger) {
	defer that.conn.Close()

	for {
		select {
		case <-that.done:
			_ = that.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case frame := <-that.outgoing:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Error("failed to write message", "error", err)
				return
			}
		}
	}
}

func (that *client) close() {
	that.once.Do(func() {
		close(that.done)
	})
}
