package binder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// itemService implements the ItemService interface
type itemService struct {
	store    svc.ContentStore
	projects svc.ProjectService
	listener svc.DeletionListener
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewItemService creates a new item service. listener is told about every
// deleted subtree so viewports can drop stale selections.
func NewItemService(
	store svc.ContentStore,
	projects svc.ProjectService,
	listener svc.DeletionListener,
	logger *slog.Logger,
) svc.ItemService {
	return &itemService{
		store:    store,
		projects: projects,
		listener: listener,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// load checks that the project exists before touching its content, so a
// stale id never materializes a default bundle.
func (s *itemService) load(ctx context.Context, projectID string) (*models.Bundle, error) {
	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.EnsureLoaded(ctx, projectID)
}

// modify runs fn under the store lock. fn reports failures through its error
// result, which leaves the bundle untouched.
func (s *itemService) modify(ctx context.Context, projectID string, fn func(b models.Bundle) (models.BundlePatch, error)) (*models.Bundle, error) {
	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	var fnErr error
	bundle, err := s.store.Modify(ctx, projectID, func(b models.Bundle) (models.BundlePatch, bool) {
		patch, err := fn(b)
		if err != nil {
			fnErr = err
			return models.BundlePatch{}, false
		}
		return patch, true
	})
	if err != nil {
		return nil, err
	}
	if fnErr != nil {
		return nil, fnErr
	}

	s.projects.Touch(ctx, projectID)
	return bundle, nil
}

// GetTree returns the project's tree
func (s *itemService) GetTree(ctx context.Context, projectID string) (models.Tree, error) {
	bundle, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if bundle.Tree == nil {
		return models.Tree{}, nil
	}
	return bundle.Tree, nil
}

// Stats counts the project's items and words
func (s *itemService) Stats(ctx context.Context, projectID string) (*models.ProjectStats, error) {
	bundle, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	stats := Stats(bundle.Tree)
	return &stats, nil
}

// GetItem returns one item
func (s *itemService) GetItem(ctx context.Context, projectID, itemID string) (*models.Item, error) {
	bundle, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	item := Find(bundle.Tree, itemID)
	if item == nil {
		return nil, domain.NotFound("item", itemID)
	}
	return item, nil
}

// CreateItem inserts a new item
func (s *itemService) CreateItem(ctx context.Context, req *svc.CreateItemRequest) (*models.Item, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	title := strings.TrimSpace(req.Title)
	var item *models.Item
	if req.Kind == models.KindContainer {
		item = models.NewContainer(s.newID(), title)
	} else {
		item = models.NewDocument(s.newID(), title)
		item.Document.Body = req.Body
	}

	_, err := s.modify(ctx, req.ProjectID, func(b models.Bundle) (models.BundlePatch, error) {
		parentID, index, err := placement(b.Tree, req.ParentID, req.AfterID)
		if err != nil {
			return models.BundlePatch{}, err
		}
		tree := InsertAt(b.Tree, parentID, item, index)
		return models.BundlePatch{Tree: &tree}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		"id", item.ID,
		"kind", item.Kind,
		"project_id", req.ProjectID,
	)

	return item, nil
}

// placement resolves where a new item goes. An explicit parent wins; otherwise
// the item goes into a selected container or right after a selected document.
func placement(tree models.Tree, parentID, afterID string) (string, int, error) {
	if parentID != "" {
		parent := Find(tree, parentID)
		if parent == nil {
			return "", 0, domain.NotFound("item", parentID)
		}
		if !parent.IsContainer() {
			return "", 0, &domain.ValidationError{Message: "parent must be a container"}
		}
		return parentID, -1, nil
	}

	target := InsertionParent(tree, afterID)
	if afterID == "" || target == afterID {
		return target, -1, nil
	}
	_, siblings, ok := FindParentContext(tree, afterID)
	if !ok {
		return target, -1, nil
	}
	for i, it := range siblings {
		if it.ID == afterID {
			return target, i + 1, nil
		}
	}
	return target, -1, nil
}

// UpdateItem merges a patch into an item
func (s *itemService) UpdateItem(ctx context.Context, projectID, itemID string, patch models.ItemPatch) (*models.Item, error) {
	if err := validatePatch(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if patch.Participants != nil {
		parts := make([]models.Participant, len(*patch.Participants))
		for i, p := range *patch.Participants {
			p.Name = strings.TrimSpace(p.Name)
			if p.ID == "" {
				p.ID = s.newID()
			}
			parts[i] = p
		}
		patch.Participants = &parts
	}
	if patch.Notes != nil {
		notes := s.normalizeNotes(*patch.Notes)
		patch.Notes = &notes
	}

	bundle, err := s.modify(ctx, projectID, func(b models.Bundle) (models.BundlePatch, error) {
		if Find(b.Tree, itemID) == nil {
			return models.BundlePatch{}, domain.NotFound("item", itemID)
		}
		tree := Update(b.Tree, itemID, patch)
		return models.BundlePatch{Tree: &tree}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("item updated", "id", itemID, "project_id", projectID)
	return Find(bundle.Tree, itemID), nil
}

// DeleteItem removes an item and its subtree
func (s *itemService) DeleteItem(ctx context.Context, projectID, itemID string) ([]string, error) {
	var removed []string
	_, err := s.modify(ctx, projectID, func(b models.Bundle) (models.BundlePatch, error) {
		removed = SubtreeIDs(b.Tree, itemID)
		if removed == nil {
			return models.BundlePatch{}, domain.NotFound("item", itemID)
		}
		tree := Delete(b.Tree, itemID)
		return models.BundlePatch{Tree: &tree}, nil
	})
	if err != nil {
		return nil, err
	}

	if s.listener != nil {
		s.listener.OnItemDeleted(projectID, removed)
	}

	s.logger.Info("item deleted",
		"id", itemID,
		"project_id", projectID,
		"removed", len(removed),
	)

	return removed, nil
}

// ToggleItem flips a boolean flag
func (s *itemService) ToggleItem(ctx context.Context, projectID, itemID string, flag svc.ToggleFlag) (*models.Item, error) {
	var toggle func(models.Tree, string) models.Tree
	switch flag {
	case svc.ToggleExpanded:
		toggle = ToggleExpanded
	case svc.ToggleBookmarked:
		toggle = ToggleBookmark
	default:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown flag %q", flag)}
	}

	bundle, err := s.modify(ctx, projectID, func(b models.Bundle) (models.BundlePatch, error) {
		if Find(b.Tree, itemID) == nil {
			return models.BundlePatch{}, domain.NotFound("item", itemID)
		}
		tree := toggle(b.Tree, itemID)
		return models.BundlePatch{Tree: &tree}, nil
	})
	if err != nil {
		return nil, err
	}
	return Find(bundle.Tree, itemID), nil
}

// MoveItem reparents an item
func (s *itemService) MoveItem(ctx context.Context, projectID, itemID, parentID string, index int) (*models.Item, error) {
	bundle, err := s.modify(ctx, projectID, func(b models.Bundle) (models.BundlePatch, error) {
		if Find(b.Tree, itemID) == nil {
			return models.BundlePatch{}, domain.NotFound("item", itemID)
		}
		if parentID != "" && Find(b.Tree, parentID) == nil {
			return models.BundlePatch{}, domain.NotFound("item", parentID)
		}
		tree, ok := Move(b.Tree, itemID, parentID, index)
		if !ok {
			return models.BundlePatch{}, &domain.ValidationError{
				Message: "items can only move into a container outside their own subtree",
			}
		}
		return models.BundlePatch{Tree: &tree}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("item moved", "id", itemID, "parent_id", parentID, "project_id", projectID)
	return Find(bundle.Tree, itemID), nil
}

// TakeSnapshot saves a copy of a document's body
func (s *itemService) TakeSnapshot(ctx context.Context, projectID, itemID, label string) (*models.Snapshot, error) {
	now := s.now()
	snap := models.Snapshot{
		ID:        s.newID(),
		Label:     strings.TrimSpace(label),
		Timestamp: now,
	}
	if snap.Label == "" {
		snap.Label = now.Format("2006-01-02 15:04")
	}

	_, err := s.modify(ctx, projectID, func(b models.Bundle) (models.BundlePatch, error) {
		doc, err := findDocument(b.Tree, itemID)
		if err != nil {
			return models.BundlePatch{}, err
		}
		snap.Body = doc.Document.Body
		snapshots := append(append([]models.Snapshot(nil), doc.Document.Snapshots...), snap)
		tree := Update(b.Tree, itemID, models.ItemPatch{Snapshots: &snapshots})
		return models.BundlePatch{Tree: &tree}, nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// RestoreSnapshot replaces the body with a snapshot's copy
func (s *itemService) RestoreSnapshot(ctx context.Context, projectID, itemID, snapshotID string) (*models.Item, error) {
	bundle, err := s.modify(ctx, projectID, func(b models.Bundle) (models.BundlePatch, error) {
		doc, err := findDocument(b.Tree, itemID)
		if err != nil {
			return models.BundlePatch{}, err
		}
		for _, snap := range doc.Document.Snapshots {
			if snap.ID == snapshotID {
				body := snap.Body
				tree := Update(b.Tree, itemID, models.ItemPatch{Body: &body})
				return models.BundlePatch{Tree: &tree}, nil
			}
		}
		return models.BundlePatch{}, domain.NotFound("snapshot", snapshotID)
	})
	if err != nil {
		return nil, err
	}
	return Find(bundle.Tree, itemID), nil
}

func findDocument(tree models.Tree, itemID string) (*models.Item, error) {
	item := Find(tree, itemID)
	if item == nil {
		return nil, domain.NotFound("item", itemID)
	}
	if !item.IsDocument() {
		return nil, &domain.ValidationError{Message: "item is not a document"}
	}
	return item, nil
}

// SetThreads replaces the project's narrative threads
func (s *itemService) SetThreads(ctx context.Context, projectID string, threads []models.Thread) ([]models.Thread, error) {
	out := make([]models.Thread, 0, len(threads))
	seen := make(map[string]struct{}, len(threads))
	for _, th := range threads {
		th.Name = strings.TrimSpace(th.Name)
		if err := validation.ValidateStruct(&th,
			validation.Field(&th.Name, validation.Required, validation.Length(1, config.MaxThreadNameLength)),
		); err != nil {
			return nil, fmt.Errorf("%w: thread: %v", domain.ErrValidation, err)
		}
		if th.ID == "" {
			th.ID = s.newID()
		}
		if _, dup := seen[th.ID]; dup {
			return nil, &domain.ValidationError{Message: "duplicate thread id " + th.ID}
		}
		seen[th.ID] = struct{}{}
		out = append(out, th)
	}

	if _, err := s.modify(ctx, projectID, func(models.Bundle) (models.BundlePatch, error) {
		return models.BundlePatch{Threads: &out}, nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// SetNotes replaces the project-level notes
func (s *itemService) SetNotes(ctx context.Context, projectID string, notes []models.Note) ([]models.Note, error) {
	out := s.normalizeNotes(notes)
	if _, err := s.modify(ctx, projectID, func(models.Bundle) (models.BundlePatch, error) {
		return models.BundlePatch{Notes: &out}, nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeNotes fills in missing ids and creation times.
func (s *itemService) normalizeNotes(notes []models.Note) []models.Note {
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if n.ID == "" {
			n.ID = s.newID()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = s.now()
		}
		out = append(out, n)
	}
	return out
}

// validateCreateRequest validates a create item request
func (s *itemService) validateCreateRequest(req *svc.CreateItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Kind, validation.Required, validation.In(models.KindContainer, models.KindDocument)),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxItemTitleLength),
			validation.By(validateTitle),
		),
	)
}

// validatePatch checks the fields a patch sets.
func validatePatch(p models.ItemPatch) error {
	if p.Title != nil {
		if err := validation.Validate(*p.Title,
			validation.Required,
			validation.Length(1, config.MaxItemTitleLength),
			validation.By(validateTitle),
		); err != nil {
			return fmt.Errorf("title: %v", err)
		}
	}
	if p.Participants != nil {
		for _, part := range *p.Participants {
			if strings.TrimSpace(part.Name) == "" {
				return fmt.Errorf("participant name cannot be empty")
			}
			if !part.Role.Valid() {
				return fmt.Errorf("unknown participant role %q", part.Role)
			}
		}
	}
	if p.Schedule != nil && *p.Schedule != nil && (*p.Schedule).DurationMinutes < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}
