package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/httputil"
)

// ViewportSource hands out the viewport manager of one user
type ViewportSource interface {
	For(userID string) svc.ViewportManager
}

// PaneHandler handles the caller's two viewports
type PaneHandler struct {
	viewports ViewportSource
	logger    *slog.Logger
}

// NewPaneHandler creates a new pane handler
func NewPaneHandler(viewports ViewportSource, logger *slog.Logger) *PaneHandler {
	return &PaneHandler{
		viewports: viewports,
		logger:    logger,
	}
}

func (h *PaneHandler) manager(r *http.Request) svc.ViewportManager {
	return h.viewports.For(httputil.GetUserID(r))
}

// paneID reads and checks the {pane} path parameter.
func paneID(w http.ResponseWriter, r *http.Request) (models.PaneID, bool) {
	id := models.PaneID(r.PathValue("pane"))
	if !id.Valid() {
		httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("unknown pane %q", id))
		return "", false
	}
	return id, true
}

// GetLayout returns both panes
// GET /api/panes
func (h *PaneHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.manager(r).Layout())
}

// SetLayout splits or merges the viewports
// POST /api/panes/layout
func (h *PaneHandler) SetLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Split bool `json:"split"`
	}
	if !parseBody(w, r, &req) {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.manager(r).SetLayout(req.Split))
}

// Focus moves focus to a pane
// POST /api/panes/{pane}/focus
func (h *PaneHandler) Focus(w http.ResponseWriter, r *http.Request) {
	id, ok := paneID(w, r)
	if !ok {
		return
	}

	layout, err := h.manager(r).Focus(id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, layout)
}

// OpenProject shows a project's first document in a pane
// POST /api/panes/{pane}/open
func (h *PaneHandler) OpenProject(w http.ResponseWriter, r *http.Request) {
	id, ok := paneID(w, r)
	if !ok {
		return
	}

	var req struct {
		ProjectID string `json:"projectId"`
	}
	if !parseBody(w, r, &req) {
		return
	}

	pane, err := h.manager(r).OpenProject(r.Context(), id, req.ProjectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pane)
}

// Select points a pane at an item; an empty itemId clears the selection
// POST /api/panes/{pane}/select
func (h *PaneHandler) Select(w http.ResponseWriter, r *http.Request) {
	id, ok := paneID(w, r)
	if !ok {
		return
	}

	var req struct {
		ItemID string `json:"itemId"`
	}
	if !parseBody(w, r, &req) {
		return
	}

	pane, err := h.manager(r).Select(r.Context(), id, req.ItemID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pane)
}

// SetMode changes a pane's presentation mode
// POST /api/panes/{pane}/mode
func (h *PaneHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	id, ok := paneID(w, r)
	if !ok {
		return
	}

	var req struct {
		Mode models.Mode `json:"mode"`
	}
	if !parseBody(w, r, &req) {
		return
	}

	pane, err := h.manager(r).SetMode(id, req.Mode)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pane)
}

// GetView resolves a pane against its own project
// GET /api/panes/{pane}/view
func (h *PaneHandler) GetView(w http.ResponseWriter, r *http.Request) {
	id, ok := paneID(w, r)
	if !ok {
		return
	}

	view, err := h.manager(r).View(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}
