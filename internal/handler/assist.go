package handler

import (
	"log/slog"
	"net/http"

	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/httputil"
)

// AssistHandler runs generative assist tasks on documents
type AssistHandler struct {
	assistService svc.AssistService
	logger        *slog.Logger
}

// NewAssistHandler creates a new assist handler
func NewAssistHandler(assistService svc.AssistService, logger *slog.Logger) *AssistHandler {
	return &AssistHandler{
		assistService: assistService,
		logger:        logger,
	}
}

// Assist runs one task against a document
// POST /api/projects/{id}/items/{itemId}/assist
func (h *AssistHandler) Assist(w http.ResponseWriter, r *http.Request) {
	projectID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	var req svc.AssistItemRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ProjectID = projectID
	req.ItemID = itemID

	outcome, err := h.assistService.Assist(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, outcome)
}
