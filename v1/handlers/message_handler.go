package handlers

import (
	"net/http"

	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
)

// MessageHandler handles the staff-side support message surface
type MessageHandler struct {
	messages *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// ListThreads handles GET /api/v1/messages
func (h *MessageHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"

	threads, err := h.messages.ListThreads(r.Context(), unreadOnly)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(threads, int64(len(threads))))
}

// ViewThread handles GET /api/v1/messages/{messageId}
func (h *MessageHandler) ViewThread(w http.ResponseWriter, r *http.Request) {
	thread, err := h.messages.ViewThreadAsStaff(r.Context(), r.PathValue("messageId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, thread)
}

// ReplyMessage handles POST /api/v1/messages/{messageId}/reply
func (h *MessageHandler) ReplyMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	var req models.ReplyMessageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	reply, err := h.messages.ReplyAsStaff(r.Context(), principal, r.PathValue("messageId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, reply)
}
