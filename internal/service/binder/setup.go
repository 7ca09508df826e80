package binder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"inkwell/internal/domain/repositories"
	svc "inkwell/internal/domain/services/binder"
)

// Services bundles the binder services wired against one backend.
type Services struct {
	Store     svc.ContentStore
	Projects  svc.ProjectService
	Items     svc.ItemService
	CrossRef  svc.CrossRefService
	Assist    svc.AssistService
	Viewports *ViewportRegistry

	scheduler *TimerScheduler
	logger    *slog.Logger
}

// AssistConfig selects the assistant and its fallback.
type AssistConfig struct {
	Assistant svc.Assistant
	Fallback  svc.Assistant
	Timeout   time.Duration
}

// SetupServices wires the binder services. saves are debounced by debounce.
func SetupServices(
	kv repositories.KVStore,
	tx repositories.TransactionManager,
	debounce time.Duration,
	assist AssistConfig,
	logger *slog.Logger,
) *Services {
	scheduler := NewTimerScheduler(debounce)
	store := NewContentStore(kv, scheduler, logger)
	projects := NewProjectService(kv, store, tx, scheduler, logger)
	viewports := NewViewportRegistry(store, projects, logger)
	items := NewItemService(store, projects, viewports, logger)
	crossRef := NewCrossRefService(store, projects, logger)

	var assistSvc svc.AssistService
	if assist.Assistant != nil {
		assistSvc = NewAssistService(store, projects, assist.Assistant, assist.Fallback, assist.Timeout, logger)
	}

	logger.Info("binder services initialized",
		"save_debounce", debounce.String(),
		"assist_enabled", assistSvc != nil,
	)

	return &Services{
		Store:     store,
		Projects:  projects,
		Items:     items,
		CrossRef:  crossRef,
		Assist:    assistSvc,
		Viewports: viewports,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Shutdown cancels pending timers and writes everything still unsaved.
func (s *Services) Shutdown(ctx context.Context) error {
	s.scheduler.Stop()

	err := errors.Join(
		s.Store.Flush(ctx),
		s.Projects.Flush(ctx),
	)
	if err != nil {
		s.logger.Error("flush on shutdown failed", "error", err)
		return err
	}
	s.logger.Info("all projects flushed")
	return nil
}
