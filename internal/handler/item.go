package handler

import (
	"log/slog"
	"net/http"

	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/httputil"
)

// ItemHandler handles binder item HTTP requests
type ItemHandler struct {
	itemService svc.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService svc.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// itemPath reads the project and item ids from the path.
func itemPath(w http.ResponseWriter, r *http.Request) (projectID, itemID string, ok bool) {
	if projectID, ok = pathValue(w, r, "id", "Project ID"); !ok {
		return "", "", false
	}
	if itemID, ok = pathValue(w, r, "itemId", "Item ID"); !ok {
		return "", "", false
	}
	return projectID, itemID, true
}

// CreateItem inserts a document or container
// POST /api/projects/{id}/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathValue(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req svc.CreateItemRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ProjectID = projectID

	item, err := h.itemService.CreateItem(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// GetItem retrieves one item
// GET /api/projects/{id}/items/{itemId}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	projectID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(r.Context(), projectID, itemID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// updateItemRequest is a JSON merge patch of an item. Schedule, setting and
// mechanics are cleared by sending null.
type updateItemRequest struct {
	Title        *string                                  `json:"title"`
	IsBookmarked *bool                                    `json:"isBookmarked"`
	IsExpanded   *bool                                    `json:"isExpanded"`
	Body         *string                                  `json:"body"`
	Schedule     httputil.Optional[models.Schedule]       `json:"schedule"`
	Setting      httputil.Optional[models.Setting]        `json:"setting"`
	Mechanics    httputil.Optional[models.SceneMechanics] `json:"mechanics"`
	ThreadNotes  map[string]string                        `json:"threadNotes"`
	Participants *[]models.Participant                    `json:"participants"`
	Notes        *[]models.Note                           `json:"notes"`
}

func (req *updateItemRequest) patch() models.ItemPatch {
	return models.ItemPatch{
		Title:        req.Title,
		IsBookmarked: req.IsBookmarked,
		IsExpanded:   req.IsExpanded,
		Body:         req.Body,
		Schedule:     req.Schedule.Patch(),
		Setting:      req.Setting.Patch(),
		Mechanics:    req.Mechanics.Patch(),
		ThreadNotes:  req.ThreadNotes,
		Participants: req.Participants,
		Notes:        req.Notes,
	}
}

// UpdateItem merges a patch into an item
// PATCH /api/projects/{id}/items/{itemId}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	projectID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if !parseBody(w, r, &req) {
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), projectID, itemID, req.patch())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// deleteItemResponse lists every id removed with the item
type deleteItemResponse struct {
	DeletedIDs []string `json:"deletedIds"`
}

// DeleteItem removes an item and its subtree
// DELETE /api/projects/{id}/items/{itemId}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	projectID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	ids, err := h.itemService.DeleteItem(r.Context(), projectID, itemID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, deleteItemResponse{DeletedIDs: ids})
}

// ToggleItem flips the expanded or bookmarked flag
// POST /api/projects/{id}/items/{itemId}/toggle
func (h *ItemHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	projectID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	var req struct {
		Flag svc.ToggleFlag `json:"flag"`
	}
	if !parseBody(w, r, &req) {
		return
	}

	item, err := h.itemService.ToggleItem(r.Context(), projectID, itemID, req.Flag)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// MoveItem reparents an item
// POST /api/projects/{id}/items/{itemId}/move
func (h *ItemHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	projectID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	var req struct {
		ParentID string `json:"parentId"`
		Index    *int   `json:"index"`
	}
	if !parseBody(w, r, &req) {
		return
	}
	index := -1
	if req.Index != nil {
		index = *req.Index
	}

	item, err := h.itemService.MoveItem(r.Context(), projectID, itemID, req.ParentID, index)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// TakeSnapshot saves a copy of a document's body
// POST /api/projects/{id}/items/{itemId}/snapshots
func (h *ItemHandler) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	projectID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	var req struct {
		Label string `json:"label"`
	}
	if r.ContentLength != 0 && !parseBody(w, r, &req) {
		return
	}

	snap, err := h.itemService.TakeSnapshot(r.Context(), projectID, itemID, req.Label)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, snap)
}

// RestoreSnapshot replaces a document's body with a snapshot
// POST /api/projects/{id}/items/{itemId}/snapshots/{snapshotId}/restore
func (h *ItemHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	projectID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}
	snapshotID, ok := pathValue(w, r, "snapshotId", "Snapshot ID")
	if !ok {
		return
	}

	item, err := h.itemService.RestoreSnapshot(r.Context(), projectID, itemID, snapshotID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// SetThreads replaces the project's narrative threads
// PUT /api/projects/{id}/threads
func (h *ItemHandler) SetThreads(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathValue(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var threads []models.Thread
	if !parseBody(w, r, &threads) {
		return
	}

	out, err := h.itemService.SetThreads(r.Context(), projectID, threads)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, out)
}

// SetNotes replaces the project-level notes
// PUT /api/projects/{id}/notes
func (h *ItemHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathValue(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var notes []models.Note
	if !parseBody(w, r, &notes) {
		return
	}

	out, err := h.itemService.SetNotes(r.Context(), projectID, notes)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, out)
}
