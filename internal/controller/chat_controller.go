// internal/controller/chat_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/experienceprogram/campaign-backend/internal/service"
)

type ChatController struct {
	ChatService *service.ChatService
}

func (c *ChatController) ListSessions(w http.ResponseWriter, r *http.Request) {
	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "page_size", 20)

	sessions, pagination, err := c.ChatService.GetChatSessions(page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       sessions,
		"pagination": pagination,
	})
}

func (c *ChatController) GetSession(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")

	session, err := c.ChatService.GetChatSessionDetails(conversationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

func (c *ChatController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")

	if err := c.ChatService.DeleteChatSession(conversationID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
