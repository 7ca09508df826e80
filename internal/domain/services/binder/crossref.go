package binder

import (
	"context"

	models "inkwell/internal/domain/models/binder"
)

// CrossRefService derives the relationship matrix and continuity report.
type CrossRefService interface {
	Matrix(ctx context.Context, projectID string, x, y models.Dimension) (*models.Grid, error)
	Conflicts(ctx context.Context, projectID string) ([]models.Conflict, error)
}
