package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	llmprovider "github.com/haowjy/meridian-llm-go"

	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
)

// generator is the part of llmprovider.Provider the assistant calls.
type generator interface {
	GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error)
}

// LLMAssistant runs assist tasks against a meridian-llm-go provider.
type LLMAssistant struct {
	provider generator
	name     string
	model    string
	logger   *slog.Logger
}

var _ svc.Assistant = (*LLMAssistant)(nil)

// NewLLMAssistant wraps a provider. model is passed through on every request.
func NewLLMAssistant(provider llmprovider.Provider, model string, logger *slog.Logger) *LLMAssistant {
	return newLLMAssistant(provider, provider.Name().String(), model, logger)
}

func newLLMAssistant(provider generator, name, model string, logger *slog.Logger) *LLMAssistant {
	return &LLMAssistant{
		provider: provider,
		name:     name,
		model:    model,
		logger:   logger,
	}
}

// Name returns the provider name.
func (a *LLMAssistant) Name() string {
	return a.name
}

// Run sends one prompt for the task and decodes the reply.
func (a *LLMAssistant) Run(ctx context.Context, req *svc.AssistRequest) (*svc.AssistResult, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reply, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("assist reply received",
		"provider", a.name,
		"task", req.Task,
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", len(reply),
	)

	result := &svc.AssistResult{Task: req.Task, Source: a.name}
	switch req.Task {
	case svc.TaskContinue, svc.TaskSummarize:
		result.Text = reply
	case svc.TaskIllustrate:
		svg := svgRe.FindString(reply)
		if svg == "" {
			return nil, fmt.Errorf("reply contains no svg (raw: %s)", truncate(reply, 200))
		}
		result.Image = &svc.Image{MIMEType: "image/svg+xml", Data: []byte(svg), Alt: req.Title}
	case svc.TaskExtract:
		extraction, err := parseExtraction(reply)
		if err != nil {
			return nil, err
		}
		result.Extraction = extraction
	}
	return result, nil
}

func (a *LLMAssistant) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.provider.GenerateResponse(ctx, &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{{
			Role:   "user",
			Blocks: []*llmprovider.Block{{BlockType: "text", TextContent: &prompt}},
		}},
		Model: a.model,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", a.name, err)
	}

	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block == nil || block.BlockType != "text" || block.TextContent == nil {
			continue
		}
		sb.WriteString(*block.TextContent)
	}
	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", fmt.Errorf("%s: empty response", a.name)
	}
	return reply, nil
}

func buildPrompt(req *svc.AssistRequest) (string, error) {
	switch req.Task {
	case svc.TaskContinue:
		return fmt.Sprintf("Continue the following scene titled %q in the same voice and tense. "+
			"Write two or three paragraphs. Reply with the new prose only.\n\n%s", req.Title, req.Text), nil
	case svc.TaskSummarize:
		return fmt.Sprintf("Summarize the scene titled %q in two or three sentences. "+
			"Reply with the summary only.\n\n%s", req.Title, req.Text), nil
	case svc.TaskIllustrate:
		return fmt.Sprintf("Draw a simple illustration of the scene titled %q as one self-contained "+
			"SVG document, 512 by 512. Reply with the SVG only.\n\n%s", req.Title, req.Text), nil
	case svc.TaskExtract:
		return fmt.Sprintf(extractPrompt, req.Title, req.Text), nil
	default:
		return "", fmt.Errorf("unknown assist task %q", req.Task)
	}
}

const extractPrompt = `Read the scene titled %q and list who is in it and where and when it happens.
Reply with a JSON object only, in this shape:
{"participants":[{"name":"","role":"","goal":"","motivation":"","obstacle":""}],
 "setting":{"location":"","time":"","weather":"","mood":""},
 "date":""}
role is one of protagonist, antagonist, supporting, mentor, love-interest, minor, or empty.
date is YYYY-MM-DD when the scene states a calendar date, otherwise empty.

%s`

type extractReply struct {
	Participants []struct {
		Name       string `json:"name"`
		Role       string `json:"role"`
		Goal       string `json:"goal"`
		Motivation string `json:"motivation"`
		Obstacle   string `json:"obstacle"`
	} `json:"participants"`
	Setting *models.Setting `json:"setting"`
	Date    string          `json:"date"`
}

// parseExtraction decodes the JSON reply, dropping unusable fields rather
// than failing on them.
func parseExtraction(reply string) (*svc.Extraction, error) {
	raw := stripCodeBlock(reply)

	var parsed extractReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse extraction json: %w (raw: %s)", err, truncate(raw, 200))
	}

	out := &svc.Extraction{}
	for _, p := range parsed.Participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		role := models.Role(strings.ToLower(strings.TrimSpace(p.Role)))
		if !role.Valid() {
			role = models.RoleUnspecified
		}
		out.Participants = append(out.Participants, models.Participant{
			Name:       name,
			Role:       role,
			Goal:       p.Goal,
			Motivation: p.Motivation,
			Obstacle:   p.Obstacle,
		})
	}
	if parsed.Setting != nil && *parsed.Setting != (models.Setting{}) {
		out.Setting = parsed.Setting
	}
	if start, ok := parseDate(parsed.Date); ok {
		out.Schedule = &models.Schedule{Start: start}
	}
	return out, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{models.DateKeyLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var (
	codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	svgRe       = regexp.MustCompile(`(?s)<svg\b.*</svg>`)
)

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
