package binder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
	"inkwell/internal/domain/repositories"
	svc "inkwell/internal/domain/services/binder"

	"github.com/google/uuid"
)

// SeedDocumentTitle is the title of the document a new project starts with.
const SeedDocumentTitle = "Chapter 1"

// saveTimeout bounds a debounced write that runs without a caller context.
const saveTimeout = 30 * time.Second

// resident is one project's bundle held in memory.
type resident struct {
	bundle  models.Bundle
	status  models.SaveStatus
	pending bool
	// writeMu serializes writes of this project so a slow write can never
	// land after a newer one.
	writeMu sync.Mutex
}

// contentStore implements the ContentStore interface
type contentStore struct {
	kv        repositories.KVStore
	scheduler svc.Scheduler
	logger    *slog.Logger
	newID     func() string

	mu        sync.Mutex
	residents map[string]*resident
	// removed holds projects deleted through Remove; their content is never
	// synthesized again unless Put brings it back.
	removed map[string]struct{}
}

// NewContentStore creates a new content store
func NewContentStore(
	kv repositories.KVStore,
	scheduler svc.Scheduler,
	logger *slog.Logger,
) svc.ContentStore {
	return &contentStore{
		kv:        kv,
		scheduler: scheduler,
		logger:    logger,
		newID:     uuid.NewString,
		residents: make(map[string]*resident),
		removed:   make(map[string]struct{}),
	}
}

// DefaultBundle returns an empty project bundle holding one seed document.
func DefaultBundle(docID string) models.Bundle {
	return models.Bundle{
		Tree:    models.Tree{models.NewDocument(docID, SeedDocumentTitle)},
		Threads: []models.Thread{},
		Notes:   []models.Note{},
	}
}

func saveKey(projectID string) string {
	return "save:" + projectID
}

// EnsureLoaded makes the project's bundle resident
func (s *contentStore) EnsureLoaded(ctx context.Context, projectID string) (*models.Bundle, error) {
	r, err := s.acquire(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	b := r.bundle
	return &b, nil
}

// acquire returns the resident entry, loading or synthesizing it first. The
// store is read without holding s.mu. On success the caller holds s.mu.
func (s *contentStore) acquire(ctx context.Context, projectID string) (*resident, error) {
	s.mu.Lock()
	if r, ok := s.residents[projectID]; ok {
		return r, nil
	}
	if _, gone := s.removed[projectID]; gone {
		s.mu.Unlock()
		return nil, domain.NotFound("project", projectID)
	}
	s.mu.Unlock()

	bundle, fresh, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// Another caller may have loaded it, or Remove may have run, meanwhile.
	if r, ok := s.residents[projectID]; ok {
		return r, nil
	}
	if _, gone := s.removed[projectID]; gone {
		s.mu.Unlock()
		return nil, domain.NotFound("project", projectID)
	}

	r := &resident{bundle: bundle, status: models.StatusSaved}
	s.residents[projectID] = r
	if fresh {
		s.markDirtyLocked(projectID, r)
		s.logger.Debug("project content initialized", "project_id", projectID)
	} else {
		s.logger.Debug("project content loaded", "project_id", projectID, "items", countItems(bundle.Tree))
	}
	return r, nil
}

// load reads the persisted bundle. fresh is set when the default bundle was
// synthesized because nothing usable was stored.
func (s *contentStore) load(ctx context.Context, projectID string) (bundle models.Bundle, fresh bool, err error) {
	data, found, err := s.kv.Load(ctx, repositories.ProjectKey(projectID))
	if err != nil {
		return models.Bundle{}, false, fmt.Errorf("load project %s: %w", projectID, err)
	}

	if found {
		decoded, derr := DecodeBundle(data)
		if derr == nil {
			return decoded, false, nil
		}

		s.logger.Warn("malformed project content, using default bundle",
			"project_id", projectID,
			"error", derr,
		)
		if qerr := s.kv.Store(ctx, repositories.QuarantineKey(projectID), data); qerr != nil {
			s.logger.Error("failed to quarantine malformed content", "project_id", projectID, "error", qerr)
		}
	}
	return DefaultBundle(s.newID()), true, nil
}

// Get returns the resident bundle without loading
func (s *contentStore) Get(projectID string) (*models.Bundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.residents[projectID]
	if !ok {
		return nil, false
	}
	b := r.bundle
	return &b, true
}

// Apply merges the patch and schedules a save
func (s *contentStore) Apply(ctx context.Context, projectID string, patch models.BundlePatch) (*models.Bundle, error) {
	return s.Modify(ctx, projectID, func(models.Bundle) (models.BundlePatch, bool) {
		return patch, true
	})
}

// Modify applies the patch computed by fn from the current bundle
func (s *contentStore) Modify(ctx context.Context, projectID string, fn func(b models.Bundle) (models.BundlePatch, bool)) (*models.Bundle, error) {
	r, err := s.acquire(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	patch, ok := fn(r.bundle)
	if ok && mergePatch(&r.bundle, patch) {
		s.markDirtyLocked(projectID, r)
	}
	b := r.bundle
	return &b, nil
}

// mergePatch copies the set fields of patch into b and reports whether any was set.
func mergePatch(b *models.Bundle, patch models.BundlePatch) bool {
	changed := false
	if patch.Tree != nil {
		b.Tree = *patch.Tree
		changed = true
	}
	if patch.Threads != nil {
		b.Threads = *patch.Threads
		changed = true
	}
	if patch.Notes != nil {
		b.Notes = *patch.Notes
		changed = true
	}
	return changed
}

// markDirtyLocked moves the project to saving and (re)arms its debounced save.
func (s *contentStore) markDirtyLocked(projectID string, r *resident) {
	r.status = models.StatusSaving
	r.pending = true
	s.scheduler.Arm(saveKey(projectID), func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		// Failures are already logged and reflected in the status.
		_ = s.save(ctx, projectID)
	})
}

// save writes the project's current bundle.
func (s *contentStore) save(ctx context.Context, projectID string) error {
	s.mu.Lock()
	r, ok := s.residents[projectID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	s.mu.Lock()
	if s.residents[projectID] != r {
		// Removed while waiting for the write lock.
		s.mu.Unlock()
		return nil
	}
	bundle := r.bundle
	r.pending = false
	s.mu.Unlock()

	err := s.write(ctx, projectID, bundle)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		r.status = models.StatusUnsaved
		r.pending = true
		s.logger.Error("failed to save project content", "project_id", projectID, "error", err)
		return err
	}
	if !r.pending {
		r.status = models.StatusSaved
		s.logger.Debug("project content saved", "project_id", projectID)
	}
	return nil
}

func (s *contentStore) write(ctx context.Context, projectID string, bundle models.Bundle) error {
	data, err := EncodeBundle(bundle)
	if err != nil {
		return err
	}
	if err := s.kv.Store(ctx, repositories.ProjectKey(projectID), data); err != nil {
		return fmt.Errorf("store project %s: %w", projectID, err)
	}
	return nil
}

// Put replaces the bundle wholesale and writes it immediately
func (s *contentStore) Put(ctx context.Context, projectID string, bundle models.Bundle) error {
	if err := ValidateBundle(bundle); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	s.mu.Lock()
	r, ok := s.residents[projectID]
	if !ok {
		r = &resident{}
		s.residents[projectID] = r
	}
	s.scheduler.Cancel(saveKey(projectID))
	delete(s.removed, projectID)
	r.bundle = bundle
	r.status = models.StatusSaving
	r.pending = true
	s.mu.Unlock()

	return s.save(ctx, projectID)
}

// Remove cancels any pending save, drops the bundle and deletes its key
func (s *contentStore) Remove(ctx context.Context, projectID string) error {
	s.mu.Lock()
	s.scheduler.Cancel(saveKey(projectID))
	r, ok := s.residents[projectID]
	delete(s.residents, projectID)
	s.removed[projectID] = struct{}{}
	s.mu.Unlock()

	if ok {
		// Wait out an in-flight write so it cannot recreate the key.
		r.writeMu.Lock()
		defer r.writeMu.Unlock()
	}

	if err := s.kv.Delete(ctx, repositories.ProjectKey(projectID)); err != nil {
		s.Restore(projectID)
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	s.logger.Debug("project content removed", "project_id", projectID)
	return nil
}

// Restore lets a removed project's persisted content load again
func (s *contentStore) Restore(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.removed, projectID)
}

// Status reports the save status of a project
func (s *contentStore) Status(projectID string) models.SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.residents[projectID]; ok {
		return r.status
	}
	return models.StatusSaved
}

// Flush writes every project with a pending save now
func (s *contentStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	var ids []string
	for id, r := range s.residents {
		if r.pending {
			ids = append(ids, id)
			s.scheduler.Cancel(saveKey(id))
		}
	}
	s.mu.Unlock()
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		if err := s.save(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func countItems(tree models.Tree) int {
	n := 0
	Walk(tree, func(*models.Item, int) bool {
		n++
		return true
	})
	return n
}
