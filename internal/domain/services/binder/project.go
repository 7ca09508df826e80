package binder

import (
	"context"

	models "inkwell/internal/domain/models/binder"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Synopsis   string `json:"synopsis"`
	CoverStyle string `json:"coverStyle"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Title      *string `json:"title,omitempty"`
	Author     *string `json:"author,omitempty"`
	Synopsis   *string `json:"synopsis,omitempty"`
	CoverStyle *string `json:"coverStyle,omitempty"`
	IsFavorite *bool   `json:"isFavorite,omitempty"`
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	// ListProjects returns projects, favorites first, then most recently modified.
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error)
	// DeleteProject removes the metadata record and the content bundle together.
	DeleteProject(ctx context.Context, id string) error
	// Touch bumps LastModified after a content edit. The metadata write is debounced.
	Touch(ctx context.Context, id string)
	// Flush writes a pending debounced metadata save now.
	Flush(ctx context.Context) error

	ExportProject(ctx context.Context, id string) (*models.ProjectRecord, error)
	// ImportProject stores the record under a freshly minted project id.
	ImportProject(ctx context.Context, record *models.ProjectRecord) (*models.Project, error)
}
