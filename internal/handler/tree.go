package handler

import (
	"log/slog"
	"net/http"

	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/httputil"
)

// TreeHandler handles HTTP requests for whole-tree reads
type TreeHandler struct {
	itemService svc.ItemService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(itemService svc.ItemService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// GetTree returns the nested binder tree for a project
// GET /api/projects/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathValue(w, r, "id", "Project ID")
	if !ok {
		return
	}

	tree, err := h.itemService.GetTree(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// GetStats returns item and word counts for a project
// GET /api/projects/{id}/stats
func (h *TreeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathValue(w, r, "id", "Project ID")
	if !ok {
		return
	}

	stats, err := h.itemService.Stats(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stats)
}
