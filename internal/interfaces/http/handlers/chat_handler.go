package handlers

import (
	"net/http"

	chatapp "github.com/agreemshield/agreemshield/internal/application/chat"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

// ChatHandler exposes the templated agreement assistant.
type ChatHandler struct {
	service chatapp.Service
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(service chatapp.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// Chat handles POST /api/v1/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req agreement.ChatRequest
	if err := decodeJSON(r, &req, 0); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.Chat(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
