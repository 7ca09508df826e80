package handler

import "net/http"

// Handlers groups every HTTP handler the server registers
type Handlers struct {
	Projects *ProjectHandler
	Transfer *TransferHandler
	Tree     *TreeHandler
	Items    *ItemHandler
	CrossRef *CrossRefHandler
	Assist   *AssistHandler
	Panes    *PaneHandler
}

// Register adds all routes to mux (Go 1.22+ method and wildcard patterns)
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", HealthCheck)

	// Project routes
	mux.HandleFunc("GET /api/projects", h.Projects.ListProjects)
	mux.HandleFunc("POST /api/projects", h.Projects.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", h.Projects.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", h.Projects.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.Projects.DeleteProject)
	mux.HandleFunc("GET /api/projects/{id}/status", h.Projects.GetStatus)

	// Import / export
	mux.HandleFunc("GET /api/projects/{id}/export", h.Transfer.Export)
	mux.HandleFunc("POST /api/import", h.Transfer.Import)

	// Tree and items
	mux.HandleFunc("GET /api/projects/{id}/tree", h.Tree.GetTree)
	mux.HandleFunc("GET /api/projects/{id}/stats", h.Tree.GetStats)
	mux.HandleFunc("POST /api/projects/{id}/items", h.Items.CreateItem)
	mux.HandleFunc("GET /api/projects/{id}/items/{itemId}", h.Items.GetItem)
	mux.HandleFunc("PATCH /api/projects/{id}/items/{itemId}", h.Items.UpdateItem)
	mux.HandleFunc("DELETE /api/projects/{id}/items/{itemId}", h.Items.DeleteItem)
	mux.HandleFunc("POST /api/projects/{id}/items/{itemId}/toggle", h.Items.ToggleItem)
	mux.HandleFunc("POST /api/projects/{id}/items/{itemId}/move", h.Items.MoveItem)
	mux.HandleFunc("POST /api/projects/{id}/items/{itemId}/snapshots", h.Items.TakeSnapshot)
	mux.HandleFunc("POST /api/projects/{id}/items/{itemId}/snapshots/{snapshotId}/restore", h.Items.RestoreSnapshot)
	mux.HandleFunc("PUT /api/projects/{id}/threads", h.Items.SetThreads)
	mux.HandleFunc("PUT /api/projects/{id}/notes", h.Items.SetNotes)

	// Cross-reference
	mux.HandleFunc("GET /api/projects/{id}/matrix", h.CrossRef.GetMatrix)
	mux.HandleFunc("GET /api/projects/{id}/conflicts", h.CrossRef.GetConflicts)

	// Assist
	mux.HandleFunc("POST /api/projects/{id}/items/{itemId}/assist", h.Assist.Assist)

	// Viewports
	mux.HandleFunc("GET /api/panes", h.Panes.GetLayout)
	mux.HandleFunc("POST /api/panes/layout", h.Panes.SetLayout)
	mux.HandleFunc("POST /api/panes/{pane}/focus", h.Panes.Focus)
	mux.HandleFunc("POST /api/panes/{pane}/open", h.Panes.OpenProject)
	mux.HandleFunc("POST /api/panes/{pane}/select", h.Panes.Select)
	mux.HandleFunc("POST /api/panes/{pane}/mode", h.Panes.SetMode)
	mux.HandleFunc("GET /api/panes/{pane}/view", h.Panes.GetView)
}
