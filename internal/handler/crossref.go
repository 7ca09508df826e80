package handler

import (
	"log/slog"
	"net/http"

	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/httputil"
)

// CrossRefHandler serves the relationship matrix and continuity report
type CrossRefHandler struct {
	crossRefService svc.CrossRefService
	logger          *slog.Logger
}

// NewCrossRefHandler creates a new cross-reference handler
func NewCrossRefHandler(crossRefService svc.CrossRefService, logger *slog.Logger) *CrossRefHandler {
	return &CrossRefHandler{
		crossRefService: crossRefService,
		logger:          logger,
	}
}

// GetMatrix builds the grid over two dimensions
// GET /api/projects/{id}/matrix?x=documents&y=characters
func (h *CrossRefHandler) GetMatrix(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathValue(w, r, "id", "Project ID")
	if !ok {
		return
	}

	q := r.URL.Query()
	x := models.Dimension(q.Get("x"))
	y := models.Dimension(q.Get("y"))
	if x == "" {
		x = models.DimDocuments
	}
	if y == "" {
		y = models.DimCharacters
	}

	grid, err := h.crossRefService.Matrix(r.Context(), projectID, x, y)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, grid)
}

// GetConflicts lists participants placed in two locations on one date
// GET /api/projects/{id}/conflicts
func (h *CrossRefHandler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathValue(w, r, "id", "Project ID")
	if !ok {
		return
	}

	conflicts, err := h.crossRefService.Conflicts(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conflicts)
}
