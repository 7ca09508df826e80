package binder

import (
	"context"

	models "inkwell/internal/domain/models/binder"
)

// AssistTask selects what the generative collaborator produces.
type AssistTask string

const (
	TaskContinue   AssistTask = "continue"   // free text continuing the scene
	TaskSummarize  AssistTask = "summarize"  // free text synopsis
	TaskIllustrate AssistTask = "illustrate" // image payload
	TaskExtract    AssistTask = "extract"    // participants, setting, schedule
)

// Valid reports whether t is a known task.
func (t AssistTask) Valid() bool {
	switch t {
	case TaskContinue, TaskSummarize, TaskIllustrate, TaskExtract:
		return true
	}
	return false
}

// AssistRequest is what the collaborator sees: a task and markup-free text.
type AssistRequest struct {
	Task  AssistTask
	Title string
	Text  string
}

// Image is an image payload.
type Image struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
	Alt      string `json:"alt,omitempty"`
}

// Extraction is the structured result of TaskExtract.
type Extraction struct {
	Participants []models.Participant `json:"participants,omitempty"`
	Setting      *models.Setting      `json:"setting,omitempty"`
	Schedule     *models.Schedule     `json:"schedule,omitempty"`
}

// AssistResult holds exactly one of Text, Image or Extraction depending on Task.
type AssistResult struct {
	Task       AssistTask  `json:"task"`
	Text       string      `json:"text,omitempty"`
	Image      *Image      `json:"image,omitempty"`
	Extraction *Extraction `json:"extraction,omitempty"`
	// Source names the assistant that produced the result.
	Source string `json:"source"`
	// Degraded is set when the result is a placeholder standing in for a
	// failed or unavailable collaborator.
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Assistant is the generative-assist collaborator.
type Assistant interface {
	Name() string
	Run(ctx context.Context, req *AssistRequest) (*AssistResult, error)
}

// AssistItemRequest asks for assistance on one document.
type AssistItemRequest struct {
	ProjectID string     `json:"-"`
	ItemID    string     `json:"-"`
	Task      AssistTask `json:"task"`
	// Apply writes the result into the document when it is still present.
	Apply bool `json:"apply"`
}

// AssistOutcome reports the result and whether it was written back.
type AssistOutcome struct {
	Result  *AssistResult `json:"result"`
	Applied bool          `json:"applied"`
	// Discarded is set when the target item was deleted while the call ran.
	Discarded bool `json:"discarded,omitempty"`
}

// AssistService runs assist tasks against binder documents.
type AssistService interface {
	Assist(ctx context.Context, req *AssistItemRequest) (*AssistOutcome, error)
}
