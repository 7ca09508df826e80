package binder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
)

// viewportManager implements the ViewportManager interface for one session.
type viewportManager struct {
	store    svc.ContentStore
	projects svc.ProjectService
	logger   *slog.Logger

	mu     sync.Mutex
	layout models.Layout
}

// NewViewportManager creates a new viewport manager
func NewViewportManager(
	store svc.ContentStore,
	projects svc.ProjectService,
	logger *slog.Logger,
) svc.ViewportManager {
	return &viewportManager{
		store:    store,
		projects: projects,
		logger:   logger,
		layout:   initialLayout(),
	}
}

func initialLayout() models.Layout {
	return models.Layout{
		Primary:   models.Pane{Mode: models.DefaultAggregateMode},
		Secondary: models.Pane{Mode: models.DefaultAggregateMode},
		Focused:   models.PanePrimary,
	}
}

// Layout returns a copy of the current layout
func (m *viewportManager) Layout() models.Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout
}

// paneLocked returns a pointer to the named pane. The secondary pane only
// exists while the layout is split.
func (m *viewportManager) paneLocked(id models.PaneID) (*models.Pane, error) {
	switch {
	case id == models.PanePrimary:
		return &m.layout.Primary, nil
	case id == models.PaneSecondary && m.layout.Split:
		return &m.layout.Secondary, nil
	case id == models.PaneSecondary:
		return nil, &domain.ValidationError{Message: "secondary pane is not open"}
	default:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown pane %q", id)}
	}
}

// Select points the pane at an item; an empty itemID clears the selection.
// An id absent from the pane's project leaves the pane unchanged.
func (m *viewportManager) Select(ctx context.Context, id models.PaneID, itemID string) (models.Pane, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pane, err := m.paneLocked(id)
	if err != nil {
		return models.Pane{}, err
	}
	if pane.ProjectID == "" {
		return *pane, &domain.ValidationError{Message: "pane has no open project"}
	}
	if itemID == "" {
		pane.SelectedItemID = ""
		return *pane, nil
	}

	bundle, err := m.resolveLocked(ctx, pane)
	if err != nil {
		return *pane, err
	}
	item := Find(bundle.Tree, itemID)
	if item == nil {
		// The item may have been deleted from the other pane.
		m.logger.Debug("select ignored, item not in project", "pane", id, "item_id", itemID)
		return *pane, nil
	}

	pane.SelectedItemID = item.ID
	if item.IsDocument() && pane.Mode.Aggregate() {
		pane.Mode = models.ModeEditor
	}
	return *pane, nil
}

// OpenProject loads the project into the pane and selects its first document
func (m *viewportManager) OpenProject(ctx context.Context, id models.PaneID, projectID string) (models.Pane, error) {
	if _, err := m.projects.GetProject(ctx, projectID); err != nil {
		return models.Pane{}, err
	}
	bundle, err := m.store.EnsureLoaded(ctx, projectID)
	if err != nil {
		return models.Pane{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pane, err := m.paneLocked(id)
	if err != nil {
		return models.Pane{}, err
	}
	*pane = models.Pane{ProjectID: projectID, Mode: models.ModeEditor}
	if doc := FirstDocument(bundle.Tree); doc != nil {
		pane.SelectedItemID = doc.ID
	}

	m.logger.Debug("project opened in pane",
		"pane", id,
		"project_id", projectID,
		"selected", pane.SelectedItemID,
	)
	return *pane, nil
}

// SetLayout splits or merges the panes
func (m *viewportManager) SetLayout(split bool) models.Layout {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case split && !m.layout.Split:
		m.layout.Secondary = m.layout.Primary
		m.layout.Split = true
		m.layout.Focused = models.PaneSecondary
	case !split && m.layout.Split:
		m.layout.Secondary = models.Pane{Mode: models.DefaultAggregateMode}
		m.layout.Split = false
		m.layout.Focused = models.PanePrimary
	}
	return m.layout
}

// Focus moves focus to the named pane
func (m *viewportManager) Focus(id models.PaneID) (models.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.paneLocked(id); err != nil {
		return m.layout, err
	}
	m.layout.Focused = id
	return m.layout, nil
}

// SetMode changes the pane's presentation mode
func (m *viewportManager) SetMode(id models.PaneID, mode models.Mode) (models.Pane, error) {
	if !mode.Valid() {
		return models.Pane{}, &domain.ValidationError{Message: fmt.Sprintf("unknown mode %q", mode)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pane, err := m.paneLocked(id)
	if err != nil {
		return models.Pane{}, err
	}
	pane.Mode = mode
	return *pane, nil
}

// View resolves the pane against its own project's content
func (m *viewportManager) View(ctx context.Context, id models.PaneID) (*models.PaneView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pane, err := m.paneLocked(id)
	if err != nil {
		return nil, err
	}

	view := &models.PaneView{Pane: id, Threads: []models.Thread{}, Notes: []models.Note{}}
	if pane.ProjectID == "" {
		view.State = *pane
		return view, nil
	}

	project, err := m.projects.GetProject(ctx, pane.ProjectID)
	if errors.Is(err, domain.ErrNotFound) {
		// The project was deleted elsewhere.
		*pane = models.Pane{Mode: models.DefaultAggregateMode}
		view.State = *pane
		return view, nil
	}
	if err != nil {
		return nil, err
	}
	bundle, err := m.store.EnsureLoaded(ctx, pane.ProjectID)
	if err != nil {
		return nil, err
	}

	if pane.SelectedItemID != "" {
		view.Item = Find(bundle.Tree, pane.SelectedItemID)
		if view.Item == nil {
			clearSelection(pane)
		}
	}
	view.State = *pane
	view.Project = project
	if bundle.Threads != nil {
		view.Threads = bundle.Threads
	}
	if bundle.Notes != nil {
		view.Notes = bundle.Notes
	}
	return view, nil
}

// resolveLocked loads the pane's project content, resetting the pane when the
// project no longer exists.
func (m *viewportManager) resolveLocked(ctx context.Context, pane *models.Pane) (*models.Bundle, error) {
	if _, err := m.projects.GetProject(ctx, pane.ProjectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			*pane = models.Pane{Mode: models.DefaultAggregateMode}
		}
		return nil, err
	}
	return m.store.EnsureLoaded(ctx, pane.ProjectID)
}

// OnItemDeleted clears every pane selection that pointed into a deleted subtree
func (m *viewportManager) OnItemDeleted(projectID string, deletedIDs []string) {
	if len(deletedIDs) == 0 {
		return
	}
	gone := make(map[string]struct{}, len(deletedIDs))
	for _, id := range deletedIDs {
		gone[id] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pane := range []*models.Pane{&m.layout.Primary, &m.layout.Secondary} {
		if pane.ProjectID != projectID {
			continue
		}
		if _, ok := gone[pane.SelectedItemID]; ok {
			clearSelection(pane)
		}
	}
}

func clearSelection(pane *models.Pane) {
	pane.SelectedItemID = ""
	pane.Mode = models.DefaultAggregateMode
}

// ViewportRegistry keeps one viewport manager per user and fans deletion
// notices out to all of them.
type ViewportRegistry struct {
	store    svc.ContentStore
	projects svc.ProjectService
	logger   *slog.Logger

	mu       sync.Mutex
	managers map[string]svc.ViewportManager
}

var _ svc.DeletionListener = (*ViewportRegistry)(nil)

// NewViewportRegistry creates an empty registry
func NewViewportRegistry(store svc.ContentStore, projects svc.ProjectService, logger *slog.Logger) *ViewportRegistry {
	return &ViewportRegistry{
		store:    store,
		projects: projects,
		logger:   logger,
		managers: make(map[string]svc.ViewportManager),
	}
}

// For returns the user's viewport manager, creating it on first use.
func (r *ViewportRegistry) For(userID string) svc.ViewportManager {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.managers[userID]
	if !ok {
		m = NewViewportManager(r.store, r.projects, r.logger.With("user_id", userID))
		r.managers[userID] = m
	}
	return m
}

// OnItemDeleted forwards the notice to every session.
func (r *ViewportRegistry) OnItemDeleted(projectID string, deletedIDs []string) {
	r.mu.Lock()
	managers := make([]svc.ViewportManager, 0, len(r.managers))
	for _, m := range r.managers {
		managers = append(managers, m)
	}
	r.mu.Unlock()

	for _, m := range managers {
		m.OnItemDeleted(projectID, deletedIDs)
	}
}
