package http

import (
	"encoding/json"
	"net/http"
)

type sendMessageRequest struct {
	UserMessage string `json:"userMessage"`
}

type sendMessageResponse struct {
	AIMessage string `json:"aiMessage"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, userID string) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	exchange, err := s.router.Handle(r.Context(), userID, req.UserMessage)
	if err != nil {
		writeChatError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{AIMessage: exchange.Reply})
}
