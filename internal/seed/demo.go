package seed

import (
	"context"
	"log/slog"
	"time"

	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
)

// DemoTitle is the title of the seeded project.
const DemoTitle = "The Clockmaker's Daughter"

// Seeder creates the demo project through the project service.
type Seeder struct {
	projects svc.ProjectService
	logger   *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(projects svc.ProjectService, logger *slog.Logger) *Seeder {
	return &Seeder{
		projects: projects,
		logger:   logger,
	}
}

// Reset deletes every project titled DemoTitle and returns how many were removed.
func (s *Seeder) Reset(ctx context.Context) (int, error) {
	list, err := s.projects.ListProjects(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range list {
		if p.Title != DemoTitle {
			continue
		}
		if err := s.projects.DeleteProject(ctx, p.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Seed imports the demo project
func (s *Seeder) Seed(ctx context.Context) (*models.Project, error) {
	record := DemoRecord()
	project, err := s.projects.ImportProject(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("demo project seeded", "id", project.ID, "title", project.Title)
	return project, nil
}

func day(s string) *models.Schedule {
	t, err := time.Parse(models.DateKeyLayout, s)
	if err != nil {
		panic(err)
	}
	return &models.Schedule{Start: t.Add(9 * time.Hour), DurationMinutes: 90}
}

func scene(id, title, body string, schedule *models.Schedule, location string, cast ...models.Participant) *models.Item {
	it := models.NewDocument(id, title)
	it.Document.Body = body
	it.Document.Schedule = schedule
	if location != "" {
		it.Document.Setting = &models.Setting{Location: location}
	}
	it.Document.Participants = cast
	return it
}

func cast(id, name string, role models.Role) models.Participant {
	return models.Participant{ID: id, Name: name, Role: role}
}

// DemoRecord returns a small manuscript with two threads and one deliberate
// continuity conflict: Mara is in the workshop and at the harbor on 1889-03-02.
func DemoRecord() *models.ProjectRecord {
	threads := []models.Thread{
		{ID: "thread-clock", Name: "The stopped clock", Color: "#b5651d"},
		{ID: "thread-debt", Name: "Father's debt", Color: "#2e5e8c"},
	}

	opening := scene("doc-1", "The Workshop",
		"The clocks all struck noon except one.\n\nMara wound it twice and it stayed silent.",
		day("1889-03-01"), "Workshop",
		cast("p-1", "Mara", models.RoleProtagonist),
		cast("p-2", "Elias", models.RoleMentor),
	)
	opening.Document.ThreadNotes = map[string]string{"thread-clock": "The clock is introduced"}

	visitor := scene("doc-2", "A Visitor",
		"A man in a grey coat asked for her father by his old name.",
		day("1889-03-02"), "Workshop",
		cast("p-3", "Mara", models.RoleProtagonist),
		cast("p-4", "Voss", models.RoleAntagonist),
	)
	visitor.Document.ThreadNotes = map[string]string{"thread-debt": "Voss names the debt"}

	harbor := scene("doc-3", "The Harbor",
		"Fog sat on the water. Mara counted the ships she did not recognise.",
		day("1889-03-02"), "Harbor",
		cast("p-5", "Mara", models.RoleProtagonist),
	)

	ledger := scene("doc-4", "The Ledger",
		"Elias opened the ledger at the page her father had torn.",
		nil, "Workshop",
		cast("p-6", "Elias", models.RoleMentor),
		cast("p-7", "Mara", models.RoleSupporting),
	)
	ledger.Document.Setting.Time = "that night"
	ledger.Document.ThreadNotes = map[string]string{
		"thread-clock": "The torn page mentions the clock",
		"thread-debt":  "The amount is revealed",
	}

	partOne := models.NewContainer("part-1", "Part One")
	partOne.Container.IsExpanded = true
	partOne.Container.Children = models.Tree{opening, visitor, harbor}

	partTwo := models.NewContainer("part-2", "Part Two")
	partTwo.Container.Children = models.Tree{ledger}

	return &models.ProjectRecord{
		Version: models.RecordVersion,
		Project: models.Project{
			Title:    DemoTitle,
			Author:   "Inkwell",
			Synopsis: "A clockmaker's daughter inherits a silent clock and a debt.",
		},
		Bundle: models.Bundle{
			Tree:    models.Tree{partOne, partTwo},
			Threads: threads,
			Notes: []models.Note{{
				ID:    "note-1",
				Title: "Research",
				Body:  "Harbor tide tables for March 1889.",
			}},
		},
	}
}
