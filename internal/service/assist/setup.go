package assist

import (
	"log/slog"

	"inkwell/internal/config"
	svc "inkwell/internal/domain/services/binder"
)

// New builds the configured assistant. ASSIST_PROVIDER "stub" (or a provider
// that cannot be created) yields the stub, so assist never blocks startup.
func New(cfg *config.Config, logger *slog.Logger) svc.Assistant {
	if cfg.AssistProvider == "" || cfg.AssistProvider == StubName {
		logger.Info("assist provider disabled, using placeholders")
		return NewStubAssistant("no assist provider configured")
	}

	provider, err := NewProviderFactory(cfg).GetProvider(cfg.AssistProvider)
	if err != nil {
		logger.Warn("assist provider unavailable, using placeholders",
			"provider", cfg.AssistProvider,
			"error", err,
		)
		return NewStubAssistant(err.Error())
	}

	logger.Info("assist provider ready",
		"provider", cfg.AssistProvider,
		"model", cfg.AssistModel,
	)
	return NewLLMAssistant(provider, cfg.AssistModel, logger)
}
