package binder

import (
	"context"

	models "inkwell/internal/domain/models/binder"
)

// ContentStore owns the resident content bundle of every opened project and
// funnels every mutation through Apply/Modify so saves are scheduled uniformly.
type ContentStore interface {
	// EnsureLoaded makes the project's bundle resident, loading it from the
	// KV store or synthesizing a default bundle. Idempotent. A project passed
	// to Remove yields ErrNotFound instead.
	EnsureLoaded(ctx context.Context, projectID string) (*models.Bundle, error)

	// Get returns the resident bundle without loading.
	Get(projectID string) (*models.Bundle, bool)

	// Apply merges the patch into the resident bundle and schedules a save.
	Apply(ctx context.Context, projectID string, patch models.BundlePatch) (*models.Bundle, error)

	// Modify runs fn against the current bundle under the store lock and applies
	// the patch it returns. fn returning ok=false leaves the bundle untouched.
	Modify(ctx context.Context, projectID string, fn func(b models.Bundle) (patch models.BundlePatch, ok bool)) (*models.Bundle, error)

	// Put replaces the bundle wholesale and writes it immediately.
	Put(ctx context.Context, projectID string, bundle models.Bundle) error

	// Remove cancels any pending save, drops the bundle and deletes its key.
	// The project's content cannot be loaded or modified afterwards.
	Remove(ctx context.Context, projectID string) error

	// Restore undoes the removal mark of a project whose deletion was rolled back.
	Restore(projectID string)

	// Status reports the save status of a project.
	Status(projectID string) models.SaveStatus

	// Flush writes every project with a pending save now.
	Flush(ctx context.Context) error
}

// Scheduler arms and cancels keyed one-shot timers. Arming a key that is
// already armed replaces the pending callback.
type Scheduler interface {
	Arm(key string, fn func())
	Cancel(key string)
}

// DeletionListener is told which item ids disappeared from a project.
type DeletionListener interface {
	OnItemDeleted(projectID string, deletedIDs []string)
}
