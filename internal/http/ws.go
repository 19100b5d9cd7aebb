package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Identity comes from the authenticator, not the Origin header; browser
	// clients are served from other hosts in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsReply struct {
	UserMessage string `json:"userMessage"`
	AIMessage   string `json:"aiMessage,omitempty"`
	Error       string `json:"error,omitempty"`
}

// handleChatSocket runs a question/answer loop over a websocket. Each text
// frame is one question; each reply frame carries the answer or an error.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	slog.InfoContext(r.Context(), "Websocket chat opened", "user_id", userID)

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			slog.InfoContext(r.Context(), "Websocket chat closed", "user_id", userID, "reason", err)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		question := string(message)
		exchange, err := s.router.Handle(r.Context(), userID, question)

		reply := wsReply{UserMessage: question}
		if err != nil {
			reply.Error = shortDiagnostic(err)
		} else {
			reply.AIMessage = exchange.Reply
		}

		if err := conn.WriteJSON(reply); err != nil {
			slog.WarnContext(r.Context(), "Websocket write failed", "user_id", userID, "error", err)
			return
		}
	}
}
