package binder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
)

// crossRefService implements the CrossRefService interface
type crossRefService struct {
	store    svc.ContentStore
	projects svc.ProjectService
	logger   *slog.Logger
}

// NewCrossRefService creates a new cross-reference service
func NewCrossRefService(
	store svc.ContentStore,
	projects svc.ProjectService,
	logger *slog.Logger,
) svc.CrossRefService {
	return &crossRefService{
		store:    store,
		projects: projects,
		logger:   logger,
	}
}

// Matrix builds the grid for one project
func (s *crossRefService) Matrix(ctx context.Context, projectID string, x, y models.Dimension) (*models.Grid, error) {
	if err := validateAxes(x, y); err != nil {
		return nil, err
	}
	bundle, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return BuildGrid(*bundle, x, y)
}

// Conflicts reports the project's continuity conflicts
func (s *crossRefService) Conflicts(ctx context.Context, projectID string) ([]models.Conflict, error) {
	bundle, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	conflicts := FindConflicts(bundle.Tree)
	if len(conflicts) > 0 {
		s.logger.Debug("continuity conflicts found", "project_id", projectID, "count", len(conflicts))
	}
	return conflicts, nil
}

func (s *crossRefService) load(ctx context.Context, projectID string) (*models.Bundle, error) {
	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.EnsureLoaded(ctx, projectID)
}

func validateAxes(x, y models.Dimension) error {
	switch {
	case !x.Valid():
		return &domain.ValidationError{Message: fmt.Sprintf("unknown dimension %q", x)}
	case !y.Valid():
		return &domain.ValidationError{Message: fmt.Sprintf("unknown dimension %q", y)}
	case x == y:
		return &domain.ValidationError{Message: "matrix axes must differ"}
	}
	return nil
}

// axis extracts one dimension's labels and matches documents against them.
type axis struct {
	dim    models.Dimension
	labels []string
	// threadIDs maps a thread name to every thread id carrying it.
	threadIDs map[string][]string
}

func newAxis(dim models.Dimension, docs []*models.Item, threads []models.Thread) axis {
	a := axis{dim: dim}
	switch dim {
	case models.DimDocuments:
		seen := make(map[string]struct{})
		for _, doc := range docs {
			if _, ok := seen[doc.Title]; ok {
				continue
			}
			seen[doc.Title] = struct{}{}
			a.labels = append(a.labels, doc.Title)
		}
	case models.DimThreads:
		a.threadIDs = make(map[string][]string)
		for _, th := range threads {
			if _, ok := a.threadIDs[th.Name]; !ok {
				a.labels = append(a.labels, th.Name)
			}
			a.threadIDs[th.Name] = append(a.threadIDs[th.Name], th.ID)
		}
	default:
		set := make(map[string]struct{})
		for _, doc := range docs {
			for _, v := range docValues(dim, doc.Document) {
				set[v] = struct{}{}
			}
		}
		a.labels = sortedKeys(set)
	}
	if a.labels == nil {
		a.labels = []string{}
	}
	return a
}

// docValues returns the non-empty values a document has along dim.
func docValues(dim models.Dimension, doc *models.Document) []string {
	switch dim {
	case models.DimCharacters:
		var names []string
		for _, p := range doc.Participants {
			if p.Name != "" {
				names = append(names, p.Name)
			}
		}
		return names
	case models.DimLocations:
		if loc := doc.Location(); loc != "" {
			return []string{loc}
		}
	case models.DimDates:
		if key := doc.DateKey(); key != "" {
			return []string{key}
		}
	}
	return nil
}

func (a axis) matches(label string, doc *models.Item) bool {
	switch a.dim {
	case models.DimDocuments:
		return doc.Title == label
	case models.DimThreads:
		for _, id := range a.threadIDs[label] {
			if doc.Document.ThreadNotes[id] != "" {
				return true
			}
		}
		return false
	default:
		for _, v := range docValues(a.dim, doc.Document) {
			if v == label {
				return true
			}
		}
		return false
	}
}

// BuildGrid relates two dimensions of the bundle's documents. Rows follow
// the y labels and columns the x labels.
func BuildGrid(bundle models.Bundle, x, y models.Dimension) (*models.Grid, error) {
	if err := validateAxes(x, y); err != nil {
		return nil, err
	}

	docs := Documents(bundle.Tree)
	xa := newAxis(x, docs, bundle.Threads)
	ya := newAxis(y, docs, bundle.Threads)

	grid := &models.Grid{
		X:       x,
		Y:       y,
		XLabels: xa.labels,
		YLabels: ya.labels,
		Cells:   make([][]models.Cell, len(ya.labels)),
	}
	for r, yl := range ya.labels {
		row := make([]models.Cell, len(xa.labels))
		for c, xl := range xa.labels {
			var matched []*models.Item
			for _, doc := range docs {
				if xa.matches(xl, doc) && ya.matches(yl, doc) {
					matched = append(matched, doc)
				}
			}
			row[c] = buildCell(xa, ya, xl, yl, matched)
		}
		grid.Cells[r] = row
	}
	return grid, nil
}

func buildCell(xa, ya axis, xl, yl string, docs []*models.Item) models.Cell {
	cell := models.Cell{X: xl, Y: yl, Kind: models.CellEmpty}
	if len(docs) == 0 {
		return cell
	}
	cell.Count = len(docs)
	for _, doc := range docs {
		cell.DocumentIDs = append(cell.DocumentIDs, doc.ID)
	}

	label := func(d models.Dimension) string {
		if xa.dim == d {
			return xl
		}
		return yl
	}

	switch {
	case pairIs(xa.dim, ya.dim, models.DimDates, models.DimCharacters):
		locs := distinctLocations(docs)
		switch {
		case len(locs) > 1:
			cell.Kind = models.CellConflict
			cell.Conflict = true
			cell.Text = strconv.Itoa(len(locs))
			return cell
		case len(locs) == 1:
			cell.Kind = models.CellLocation
			cell.Text = locs[0]
			return cell
		}
	case pairIs(xa.dim, ya.dim, models.DimDocuments, models.DimCharacters):
		name := label(models.DimCharacters)
		var roles []string
		for _, doc := range docs {
			if p, ok := doc.Document.Participant(name); ok {
				roles = appendDistinct(roles, string(p.Role))
			}
		}
		cell.Kind = models.CellRole
		cell.Text = strings.Join(roles, ", ")
		return cell
	case pairIs(xa.dim, ya.dim, models.DimDocuments, models.DimThreads):
		ids := xa.threadIDs[xl]
		if ya.dim == models.DimThreads {
			ids = ya.threadIDs[yl]
		}
		var notes []string
		for _, doc := range docs {
			for _, id := range ids {
				if n := doc.Document.ThreadNotes[id]; n != "" {
					notes = appendDistinct(notes, n)
				}
			}
		}
		cell.Kind = models.CellAnnotation
		cell.Text = strings.Join(notes, "\n")
		return cell
	}

	if len(docs) == 1 {
		cell.Kind = models.CellTitle
		cell.Text = docs[0].Title
		return cell
	}
	cell.Kind = models.CellCount
	cell.Text = strconv.Itoa(len(docs))
	return cell
}

func pairIs(x, y, a, b models.Dimension) bool {
	return (x == a && y == b) || (x == b && y == a)
}

// FindConflicts groups documents by participant name and date key and
// reports every group whose documents name more than one location. Results
// are ordered by date key, then participant.
func FindConflicts(tree models.Tree) []models.Conflict {
	type groupKey struct{ name, date string }
	groups := make(map[groupKey][]*models.Item)
	var order []groupKey

	for _, doc := range Documents(tree) {
		date := doc.Document.DateKey()
		if date == "" {
			continue
		}
		for _, name := range distinct(docValues(models.DimCharacters, doc.Document)) {
			k := groupKey{name: name, date: date}
			if _, ok := groups[k]; !ok {
				order = append(order, k)
			}
			groups[k] = append(groups[k], doc)
		}
	}

	conflicts := []models.Conflict{}
	for _, k := range order {
		docs := groups[k]
		locs := distinctLocations(docs)
		if len(locs) < 2 {
			continue
		}
		c := models.Conflict{Participant: k.name, DateKey: k.date, Locations: locs}
		for _, doc := range docs {
			c.Documents = append(c.Documents, models.DocumentRef{ID: doc.ID, Title: doc.Title})
		}
		conflicts = append(conflicts, c)
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		if conflicts[i].DateKey != conflicts[j].DateKey {
			return conflicts[i].DateKey < conflicts[j].DateKey
		}
		return conflicts[i].Participant < conflicts[j].Participant
	})
	return conflicts
}

// distinctLocations returns the sorted non-empty locations of docs.
func distinctLocations(docs []*models.Item) []string {
	set := make(map[string]struct{})
	for _, doc := range docs {
		if loc := doc.Document.Location(); loc != "" {
			set[loc] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func distinct(values []string) []string {
	var out []string
	for _, v := range values {
		out = appendDistinct(out, v)
	}
	return out
}

func appendDistinct(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
