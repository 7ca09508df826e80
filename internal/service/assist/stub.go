package assist

import (
	"context"
	"fmt"
	"html"
	"strings"

	svc "inkwell/internal/domain/services/binder"
)

// StubName is the Source of every placeholder result.
const StubName = "stub"

// StubAssistant answers every task with a clearly labeled placeholder. It is
// the fallback when no provider is configured or the provider fails.
type StubAssistant struct {
	reason string
}

var _ svc.Assistant = (*StubAssistant)(nil)

// NewStubAssistant creates a stub whose results carry reason.
func NewStubAssistant(reason string) *StubAssistant {
	return &StubAssistant{reason: reason}
}

func (s *StubAssistant) Name() string { return StubName }

// Run never fails.
func (s *StubAssistant) Run(_ context.Context, req *svc.AssistRequest) (*svc.AssistResult, error) {
	result := &svc.AssistResult{
		Task:     req.Task,
		Source:   StubName,
		Degraded: true,
		Reason:   s.reason,
	}

	switch req.Task {
	case svc.TaskContinue:
		result.Text = "[Placeholder continuation: the writing assistant is unavailable.]"
	case svc.TaskSummarize:
		result.Text = "[Placeholder summary] " + firstSentence(req.Text)
	case svc.TaskIllustrate:
		result.Image = &svc.Image{
			MIMEType: "image/svg+xml",
			Data:     []byte(placeholderSVG(req.Title)),
			Alt:      "Placeholder illustration",
		}
	case svc.TaskExtract:
		result.Extraction = &svc.Extraction{}
	default:
		return nil, fmt.Errorf("unknown assist task %q", req.Task)
	}
	return result, nil
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		return text[:i+1]
	}
	if r := []rune(text); len(r) > 160 {
		return string(r[:160]) + "..."
	}
	return text
}

func placeholderSVG(title string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="512" height="512">`+
		`<rect width="512" height="512" fill="#eee"/>`+
		`<text x="256" y="256" text-anchor="middle" font-family="sans-serif" fill="#666">Placeholder: %s</text>`+
		`</svg>`, html.EscapeString(title))
}
