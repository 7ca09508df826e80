package binder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
	"inkwell/internal/domain/repositories"
	svc "inkwell/internal/domain/services/binder"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const projectsSaveKey = "save:" + repositories.ProjectsKey

// projectService implements the ProjectService interface
type projectService struct {
	kv        repositories.KVStore
	store     svc.ContentStore
	tx        repositories.TransactionManager
	scheduler svc.Scheduler
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	loaded   bool
	projects map[string]models.Project
}

// NewProjectService creates a new project service. tx groups the metadata
// write with the content write on create, import and delete.
func NewProjectService(
	kv repositories.KVStore,
	store svc.ContentStore,
	tx repositories.TransactionManager,
	scheduler svc.Scheduler,
	logger *slog.Logger,
) svc.ProjectService {
	if tx == nil {
		tx = repositories.DirectTx{}
	}
	return &projectService{
		kv:        kv,
		store:     store,
		tx:        tx,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// loadLocked reads the metadata list once. A list that fails to parse is
// quarantined and treated as empty. Caller holds s.mu.
func (s *projectService) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	data, found, err := s.kv.Load(ctx, repositories.ProjectsKey)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}

	s.projects = make(map[string]models.Project)
	if found {
		var list []models.Project
		if err := json.Unmarshal(data, &list); err != nil {
			s.logger.Warn("malformed project list, starting empty", "error", err)
			if qerr := s.kv.Store(ctx, repositories.ProjectsKey+":corrupt", data); qerr != nil {
				s.logger.Error("failed to quarantine project list", "error", qerr)
			}
		}
		for _, p := range list {
			if p.ID != "" {
				s.projects[p.ID] = p
			}
		}
	}
	s.loaded = true
	return nil
}

// saveLocked writes the metadata list. Caller holds s.mu.
func (s *projectService) saveLocked(ctx context.Context) error {
	s.scheduler.Cancel(projectsSaveKey)

	list := s.sortedLocked()
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	if err := s.kv.Store(ctx, repositories.ProjectsKey, data); err != nil {
		return fmt.Errorf("store projects: %w", err)
	}
	return nil
}

// sortedLocked lists projects favorites first, then most recently modified.
func (s *projectService) sortedLocked() []models.Project {
	list := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.IsFavorite != b.IsFavorite {
			return a.IsFavorite
		}
		if !a.LastModified.Equal(b.LastModified) {
			return a.LastModified.After(b.LastModified)
		}
		return a.ID < b.ID
	})
	return list
}

// CreateProject creates a new project with one seed document
func (s *projectService) CreateProject(ctx context.Context, req *svc.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project := models.Project{
		ID:           s.newID(),
		Title:        strings.TrimSpace(req.Title),
		Author:       strings.TrimSpace(req.Author),
		Synopsis:     req.Synopsis,
		CoverStyle:   req.CoverStyle,
		LastModified: s.now(),
	}
	if err := s.insert(ctx, project, DefaultBundle(s.newID())); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"title", project.Title,
	)

	return &project, nil
}

// insert writes the content first so metadata never names missing content.
func (s *projectService) insert(ctx context.Context, project models.Project, bundle models.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	s.projects[project.ID] = project
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.store.Put(ctx, project.ID, bundle); err != nil {
			return err
		}
		return s.saveLocked(ctx)
	})
	if err != nil {
		delete(s.projects, project.ID)
		if rerr := s.store.Remove(ctx, project.ID); rerr != nil {
			s.logger.Error("failed to roll back project content", "id", project.ID, "error", rerr)
		}
		return err
	}
	return nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.NotFound("project", id)
	}
	return &p, nil
}

// ListProjects retrieves all projects
func (s *projectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.sortedLocked(), nil
}

// UpdateProject updates project metadata
func (s *projectService) UpdateProject(ctx context.Context, id string, req *svc.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	previous, ok := s.projects[id]
	if !ok {
		return nil, domain.NotFound("project", id)
	}

	project := previous
	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		project.Author = strings.TrimSpace(*req.Author)
	}
	if req.Synopsis != nil {
		project.Synopsis = *req.Synopsis
	}
	if req.CoverStyle != nil {
		project.CoverStyle = *req.CoverStyle
	}
	if req.IsFavorite != nil {
		project.IsFavorite = *req.IsFavorite
	}
	project.LastModified = s.now()

	s.projects[id] = project
	if err := s.saveLocked(ctx); err != nil {
		s.projects[id] = previous
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"title", project.Title,
	)

	return &project, nil
}

// DeleteProject removes the metadata record and the content bundle together
func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	previous, ok := s.projects[id]
	if !ok {
		return domain.NotFound("project", id)
	}

	delete(s.projects, id)
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.saveLocked(ctx); err != nil {
			return err
		}
		return s.store.Remove(ctx, id)
	})
	if err != nil {
		s.projects[id] = previous
		s.store.Restore(id)
		// Without a real transaction the list may already be written.
		if rerr := s.saveLocked(ctx); rerr != nil {
			s.logger.Error("failed to restore project list", "id", id, "error", rerr)
		}
		return err
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}

// Touch bumps LastModified and schedules a metadata save
func (s *projectService) Touch(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		s.logger.Warn("failed to touch project", "id", id, "error", err)
		return
	}
	p, ok := s.projects[id]
	if !ok {
		return
	}
	p.LastModified = s.now()
	s.projects[id] = p

	s.scheduler.Arm(projectsSaveKey, func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.saveLocked(ctx); err != nil {
			s.logger.Error("failed to save project list", "error", err)
		}
	})
}

// Flush writes the metadata list if it was loaded
func (s *projectService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil
	}
	return s.saveLocked(ctx)
}

// ExportProject builds the self-contained record of a project
func (s *projectService) ExportProject(ctx context.Context, id string) (*models.ProjectRecord, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	bundle, err := s.store.EnsureLoaded(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ProjectRecord{
		Version: models.RecordVersion,
		Project: *project,
		Bundle:  *bundle,
	}, nil
}

// ImportProject stores the record under a freshly minted project id
func (s *projectService) ImportProject(ctx context.Context, record *models.ProjectRecord) (*models.Project, error) {
	if record == nil {
		return nil, &domain.ValidationError{Message: "empty project record"}
	}
	if record.Version != models.RecordVersion {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unsupported record version %d", record.Version)}
	}
	if err := validation.Validate(record.Project.Title,
		validation.Required,
		validation.Length(1, config.MaxProjectTitleLength),
		validation.By(validateTitle),
	); err != nil {
		return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
	}
	bundle := record.Bundle
	if err := ValidateBundle(bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if bundle.Tree == nil {
		bundle.Tree = models.Tree{}
	}
	if bundle.Threads == nil {
		bundle.Threads = []models.Thread{}
	}
	if bundle.Notes == nil {
		bundle.Notes = []models.Note{}
	}

	project := record.Project
	originalID := project.ID
	project.ID = s.newID()
	project.Title = strings.TrimSpace(project.Title)
	project.LastModified = s.now()
	if err := s.insert(ctx, project, bundle); err != nil {
		return nil, err
	}

	s.logger.Info("project imported",
		"id", project.ID,
		"source_id", originalID,
		"items", countItems(bundle.Tree),
	)

	return &project, nil
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *svc.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxProjectTitleLength),
			validation.By(validateTitle),
		),
		validation.Field(&req.Author, validation.Length(0, config.MaxProjectTitleLength)),
	)
}

// validateUpdateRequest validates an update project request
func (s *projectService) validateUpdateRequest(req *svc.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxProjectTitleLength),
			validation.By(validateTitle),
		),
		validation.Field(&req.Author, validation.Length(0, config.MaxProjectTitleLength)),
	)
}

// validateTitle rejects titles that are blank after trimming
func validateTitle(value interface{}) error {
	var title string
	switch v := value.(type) {
	case string:
		title = v
	case *string:
		if v == nil {
			return nil
		}
		title = *v
	default:
		return fmt.Errorf("title must be a string")
	}

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	return nil
}
