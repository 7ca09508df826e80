package binder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/utils"

	"github.com/google/uuid"
)

// assistService implements the AssistService interface
type assistService struct {
	store     svc.ContentStore
	projects  svc.ProjectService
	assistant svc.Assistant
	fallback  svc.Assistant
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewAssistService creates a new assist service. fallback answers whenever
// assistant fails; timeout bounds each assistant call (0 means no bound).
func NewAssistService(
	store svc.ContentStore,
	projects svc.ProjectService,
	assistant svc.Assistant,
	fallback svc.Assistant,
	timeout time.Duration,
	logger *slog.Logger,
) svc.AssistService {
	return &assistService{
		store:     store,
		projects:  projects,
		assistant: assistant,
		fallback:  fallback,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Assist runs a task on one document. The collaborator is called without
// holding any lock; the result is written back only if the document still exists.
func (s *assistService) Assist(ctx context.Context, req *svc.AssistItemRequest) (*svc.AssistOutcome, error) {
	if !req.Task.Valid() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown assist task %q", req.Task)}
	}
	if _, err := s.projects.GetProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	bundle, err := s.store.EnsureLoaded(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	doc, err := findDocument(bundle.Tree, req.ItemID)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, &svc.AssistRequest{
		Task:  req.Task,
		Title: doc.Title,
		Text:  utils.PlainText(doc.Document.Body),
	})
	if err != nil {
		return nil, err
	}

	outcome := &svc.AssistOutcome{Result: result}
	if !req.Apply || result.Degraded {
		return outcome, nil
	}

	// The whole project may have been deleted while the call ran.
	if _, err := s.projects.GetProject(ctx, req.ProjectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			outcome.Discarded = true
			return outcome, nil
		}
		return nil, err
	}
	_, err = s.store.Modify(ctx, req.ProjectID, func(b models.Bundle) (models.BundlePatch, bool) {
		current := Find(b.Tree, req.ItemID)
		if !current.IsDocument() {
			outcome.Discarded = true
			return models.BundlePatch{}, false
		}
		patch, ok := s.resultPatch(current.Document, result)
		if !ok {
			return models.BundlePatch{}, false
		}
		tree := Update(b.Tree, req.ItemID, patch)
		outcome.Applied = true
		return models.BundlePatch{Tree: &tree}, true
	})
	if errors.Is(err, domain.ErrNotFound) {
		// Removed between the check above and the write.
		outcome.Discarded = true
	} else if err != nil {
		return nil, err
	}

	if outcome.Discarded {
		s.logger.Info("assist result discarded, item no longer exists",
			"item_id", req.ItemID,
			"project_id", req.ProjectID,
			"task", req.Task,
		)
	}
	if outcome.Applied {
		s.projects.Touch(ctx, req.ProjectID)
	}
	return outcome, nil
}

// run calls the assistant and substitutes the fallback's placeholder on failure.
func (s *assistService) run(ctx context.Context, req *svc.AssistRequest) (*svc.AssistResult, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.assistant.Run(callCtx, req)
	if err == nil && result != nil {
		return result, nil
	}
	if err == nil {
		err = fmt.Errorf("%s returned no result", s.assistant.Name())
	}
	s.logger.Warn("assist call failed, using fallback",
		"assistant", s.assistant.Name(),
		"task", req.Task,
		"error", err,
	)

	if s.fallback == nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAssistUnavailable, err)
	}
	placeholder, ferr := s.fallback.Run(ctx, req)
	if ferr != nil || placeholder == nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAssistUnavailable, err)
	}
	placeholder.Degraded = true
	placeholder.Reason = err.Error()
	return placeholder, nil
}

// resultPatch turns a result into a document patch. Continuations are
// appended to the body, summaries become a note, extractions merge into the
// scene metadata. Images have no home in a document and are returned only.
func (s *assistService) resultPatch(doc *models.Document, result *svc.AssistResult) (models.ItemPatch, bool) {
	switch result.Task {
	case svc.TaskContinue:
		if result.Text == "" {
			return models.ItemPatch{}, false
		}
		body := result.Text
		if doc.Body != "" {
			body = doc.Body + "\n\n" + result.Text
		}
		return models.ItemPatch{Body: &body}, true

	case svc.TaskSummarize:
		if result.Text == "" {
			return models.ItemPatch{}, false
		}
		notes := append(append([]models.Note(nil), doc.Notes...), models.Note{
			ID:        s.newID(),
			Title:     "Summary",
			Body:      result.Text,
			CreatedAt: s.now(),
		})
		return models.ItemPatch{Notes: &notes}, true

	case svc.TaskExtract:
		if result.Extraction == nil {
			return models.ItemPatch{}, false
		}
		return s.extractionPatch(doc, result.Extraction)
	}
	return models.ItemPatch{}, false
}

// extractionPatch merges participants by name, keeping existing records and
// ids, and replaces the setting and schedule when the extraction found them.
func (s *assistService) extractionPatch(doc *models.Document, ex *svc.Extraction) (models.ItemPatch, bool) {
	var patch models.ItemPatch
	changed := false

	if len(ex.Participants) > 0 {
		parts := append([]models.Participant(nil), doc.Participants...)
		for _, p := range ex.Participants {
			if _, exists := doc.Participant(p.Name); exists {
				continue
			}
			p.ID = s.newID()
			parts = append(parts, p)
			changed = true
		}
		patch.Participants = &parts
	}
	if ex.Setting != nil {
		setting := *ex.Setting
		sp := &setting
		patch.Setting = &sp
		changed = true
	}
	if ex.Schedule != nil {
		schedule := *ex.Schedule
		sp := &schedule
		patch.Schedule = &sp
		changed = true
	}
	return patch, changed
}
