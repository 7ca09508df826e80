package binder

import (
	"context"

	models "inkwell/internal/domain/models/binder"
)

// ViewportManager tracks the two panes of one session.
type ViewportManager interface {
	Layout() models.Layout

	// Select points the pane at an item. Selecting a document while the pane
	// shows an aggregate mode switches the pane to the editor. An id absent
	// from the pane's project is ignored.
	Select(ctx context.Context, pane models.PaneID, itemID string) (models.Pane, error)

	// OpenProject loads the project, selects its first document and switches
	// the pane to the editor.
	OpenProject(ctx context.Context, pane models.PaneID, projectID string) (models.Pane, error)

	// SetLayout splits (secondary copies primary, focus moves to it) or merges.
	SetLayout(split bool) models.Layout

	Focus(pane models.PaneID) (models.Layout, error)
	SetMode(pane models.PaneID, mode models.Mode) (models.Pane, error)

	// View resolves the pane against its own project's content.
	View(ctx context.Context, pane models.PaneID) (*models.PaneView, error)

	DeletionListener
}
