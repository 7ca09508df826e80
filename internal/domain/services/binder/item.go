package binder

import (
	"context"

	models "inkwell/internal/domain/models/binder"
)

// ItemService is the mutation entry point for binder items, threads and notes.
type ItemService interface {
	// GetTree returns the project's tree, loading the project if needed.
	GetTree(ctx context.Context, projectID string) (models.Tree, error)

	// Stats counts the project's items and words.
	Stats(ctx context.Context, projectID string) (*models.ProjectStats, error)

	// GetItem returns one item.
	GetItem(ctx context.Context, projectID, itemID string) (*models.Item, error)

	// CreateItem inserts a new document or container with a fresh id.
	CreateItem(ctx context.Context, req *CreateItemRequest) (*models.Item, error)

	// UpdateItem merges a patch into an item.
	UpdateItem(ctx context.Context, projectID, itemID string, patch models.ItemPatch) (*models.Item, error)

	// DeleteItem removes the item and its subtree and returns every removed id.
	DeleteItem(ctx context.Context, projectID, itemID string) ([]string, error)

	// ToggleItem flips a boolean flag on an item.
	ToggleItem(ctx context.Context, projectID, itemID string, flag ToggleFlag) (*models.Item, error)

	// MoveItem reparents an item; parentID "" moves it to the top level.
	// index positions it among its new siblings; a negative index appends.
	MoveItem(ctx context.Context, projectID, itemID, parentID string, index int) (*models.Item, error)

	// TakeSnapshot saves a copy of a document's body.
	TakeSnapshot(ctx context.Context, projectID, itemID, label string) (*models.Snapshot, error)

	// RestoreSnapshot replaces the body with a snapshot's copy.
	RestoreSnapshot(ctx context.Context, projectID, itemID, snapshotID string) (*models.Item, error)

	// SetThreads replaces the project's narrative threads.
	SetThreads(ctx context.Context, projectID string, threads []models.Thread) ([]models.Thread, error)

	// SetNotes replaces the project-level notes.
	SetNotes(ctx context.Context, projectID string, notes []models.Note) ([]models.Note, error)
}

// ToggleFlag names a boolean item flag.
type ToggleFlag string

const (
	ToggleExpanded   ToggleFlag = "expanded"
	ToggleBookmarked ToggleFlag = "bookmarked"
)

// CreateItemRequest represents an item creation request
type CreateItemRequest struct {
	ProjectID string      `json:"-"`
	Kind      models.Kind `json:"kind"`
	Title     string      `json:"title"`
	// ParentID places the item inside a container. Empty with AfterID empty
	// means top level.
	ParentID string `json:"parentId,omitempty"`
	// AfterID is the currently selected item; when ParentID is empty the item
	// goes next to it (into it, if it is a container).
	AfterID string `json:"afterId,omitempty"`
	Body    string `json:"body,omitempty"`
}
