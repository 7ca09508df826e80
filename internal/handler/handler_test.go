package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "inkwell/internal/domain/models/binder"
	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/httputil"
	"inkwell/internal/repository/memory"
	"inkwell/internal/seed"
	"inkwell/internal/service/assist"
	serviceBinder "inkwell/internal/service/binder"
)

const testUserHeader = "X-Test-User"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	services := serviceBinder.SetupServices(memory.NewKVStore(), nil, time.Hour, serviceBinder.AssistConfig{
		Assistant: assist.NewStubAssistant("offline"),
	}, logger)
	t.Cleanup(func() { _ = services.Shutdown(context.Background()) })

	handlers := &Handlers{
		Projects: NewProjectHandler(services.Projects, services.Store, logger),
		Transfer: NewTransferHandler(services.Projects, logger),
		Tree:     NewTreeHandler(services.Items, logger),
		Items:    NewItemHandler(services.Items, logger),
		CrossRef: NewCrossRefHandler(services.CrossRef, logger),
		Assist:   NewAssistHandler(services.Assist, logger),
		Panes:    NewPaneHandler(services.Viewports, logger),
	}
	mux := http.NewServeMux()
	handlers.Register(mux)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.Header.Get(testUserHeader)
		if user == "" {
			user = "local"
		}
		mux.ServeHTTP(w, httputil.WithUserID(r, user))
	})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
}

func importDemo(t *testing.T, h http.Handler) string {
	t.Helper()
	data, err := serviceBinder.EncodeRecord(seed.DemoRecord(), serviceBinder.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	rec := do(t, h, http.MethodPost, "/api/import", data)
	expectStatus(t, rec, http.StatusCreated)
	var p models.Project
	decode(t, rec, &p)
	return p.ID
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/health", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestProjectLifecycle(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/projects", map[string]string{"title": "Draft"})
	expectStatus(t, rec, http.StatusCreated)
	var p models.Project
	decode(t, rec, &p)

	rec = do(t, h, http.MethodGet, "/api/projects/"+p.ID+"/status", nil)
	expectStatus(t, rec, http.StatusOK)
	var status statusResponse
	decode(t, rec, &status)
	if status.Status != string(models.StatusSaved) {
		t.Errorf("status = %+v", status)
	}

	rec = do(t, h, http.MethodPatch, "/api/projects/"+p.ID, map[string]interface{}{"title": "Final", "isFavorite": true})
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &p)
	if p.Title != "Final" || !p.IsFavorite {
		t.Errorf("updated = %+v", p)
	}

	rec = do(t, h, http.MethodGet, "/api/projects", nil)
	expectStatus(t, rec, http.StatusOK)
	var list []models.Project
	decode(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("list = %+v", list)
	}

	rec = do(t, h, http.MethodDelete, "/api/projects/"+p.ID, nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = do(t, h, http.MethodGet, "/api/projects/"+p.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestErrorMapping(t *testing.T) {
	h := newTestHandler(t)
	id := importDemo(t, h)
	huge := `{"title":"` + strings.Repeat("a", int(httputil.DefaultMaxBody)) + `"}`

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"invalid json", http.MethodPost, "/api/projects", "{", http.StatusBadRequest},
		{"validation", http.MethodPost, "/api/projects", map[string]string{"title": " "}, http.StatusBadRequest},
		{"body too large", http.MethodPost, "/api/projects", huge, http.StatusRequestEntityTooLarge},
		{"unknown project", http.MethodGet, "/api/projects/nope/tree", nil, http.StatusNotFound},
		{"unknown item", http.MethodGet, "/api/projects/" + id + "/items/nope", nil, http.StatusNotFound},
		{"same axes", http.MethodGet, "/api/projects/" + id + "/matrix?x=dates&y=dates", nil, http.StatusBadRequest},
		{"unknown format", http.MethodGet, "/api/projects/" + id + "/export?format=xml", nil, http.StatusBadRequest},
		{"malformed import", http.MethodPost, "/api/import", "{", http.StatusBadRequest},
		{"unknown pane", http.MethodGet, "/api/panes/tertiary/view", nil, http.StatusBadRequest},
		{"unknown flag", http.MethodPost, "/api/projects/" + id + "/items/doc-1/toggle", map[string]string{"flag": "pinned"}, http.StatusBadRequest},
		{"move into document", http.MethodPost, "/api/projects/" + id + "/items/doc-1/move", map[string]string{"parentId": "doc-2"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			expectStatus(t, rec, tt.want)
		})
	}
}

func TestCrossReferenceRoutes(t *testing.T) {
	h := newTestHandler(t)
	id := importDemo(t, h)

	rec := do(t, h, http.MethodGet, "/api/projects/"+id+"/conflicts", nil)
	expectStatus(t, rec, http.StatusOK)
	var conflicts []models.Conflict
	decode(t, rec, &conflicts)
	if len(conflicts) != 1 || conflicts[0].Participant != "Mara" {
		t.Errorf("conflicts = %+v", conflicts)
	}

	rec = do(t, h, http.MethodGet, "/api/projects/"+id+"/matrix", nil)
	expectStatus(t, rec, http.StatusOK)
	var grid models.Grid
	decode(t, rec, &grid)
	if grid.X != models.DimDocuments || grid.Y != models.DimCharacters || len(grid.XLabels) != 4 {
		t.Errorf("default grid = %s x %s, %v", grid.X, grid.Y, grid.XLabels)
	}

	rec = do(t, h, http.MethodGet, "/api/projects/"+id+"/stats", nil)
	expectStatus(t, rec, http.StatusOK)
	var stats models.ProjectStats
	decode(t, rec, &stats)
	if stats.Documents != 4 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestExportImportYAML(t *testing.T) {
	h := newTestHandler(t)
	id := importDemo(t, h)

	rec := do(t, h, http.MethodGet, "/api/projects/"+id+"/export?format=yaml", nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="The-Clockmaker-s-Daughter.yaml"`) {
		t.Errorf("content disposition = %q", cd)
	}

	rec = do(t, h, http.MethodPost, "/api/import", rec.Body.Bytes(), "Content-Type", "application/yaml")
	expectStatus(t, rec, http.StatusCreated)
	var p models.Project
	decode(t, rec, &p)
	if p.ID == id || p.Title != seed.DemoTitle {
		t.Errorf("imported = %+v", p)
	}
}

func TestItemRoutes(t *testing.T) {
	h := newTestHandler(t)
	id := importDemo(t, h)
	base := "/api/projects/" + id

	rec := do(t, h, http.MethodPost, base+"/items", map[string]string{"kind": "document", "title": "Epilogue", "parentId": "part-2"})
	expectStatus(t, rec, http.StatusCreated)
	var item models.Item
	decode(t, rec, &item)
	itemPath := base + "/items/" + item.ID

	rec = do(t, h, http.MethodPatch, itemPath, `{"body":"The end.","setting":{"location":"Pier"}}`)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &item)
	if item.Document.Body != "The end." || item.Document.Location() != "Pier" {
		t.Errorf("patched = %+v", item.Document)
	}

	rec = do(t, h, http.MethodPatch, itemPath, `{"setting":null}`)
	expectStatus(t, rec, http.StatusOK)
	item = models.Item{}
	decode(t, rec, &item)
	if item.Document.Setting != nil || item.Document.Body != "The end." {
		t.Errorf("null should clear only the setting: %+v", item.Document)
	}

	rec = do(t, h, http.MethodPost, itemPath+"/snapshots", nil)
	expectStatus(t, rec, http.StatusCreated)
	var snap models.Snapshot
	decode(t, rec, &snap)

	_ = do(t, h, http.MethodPatch, itemPath, map[string]string{"body": "Rewritten."})
	rec = do(t, h, http.MethodPost, itemPath+"/snapshots/"+snap.ID+"/restore", nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &item)
	if item.Document.Body != "The end." {
		t.Errorf("restored body = %q", item.Document.Body)
	}

	rec = do(t, h, http.MethodPost, itemPath+"/toggle", map[string]string{"flag": "bookmarked"})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodPost, itemPath+"/move", map[string]interface{}{"parentId": "part-1", "index": 0})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodGet, base+"/tree", nil)
	expectStatus(t, rec, http.StatusOK)
	var tree models.Tree
	decode(t, rec, &tree)
	if first := tree[0].Container.Children[0]; first.ID != item.ID || !first.IsBookmarked {
		t.Errorf("first child of part-1 = %+v", first)
	}

	rec = do(t, h, http.MethodPut, base+"/threads", []models.Thread{{Name: "Ending"}})
	expectStatus(t, rec, http.StatusOK)
	rec = do(t, h, http.MethodPut, base+"/notes", []models.Note{{Body: "tighten"}})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodDelete, base+"/items/part-1", nil)
	expectStatus(t, rec, http.StatusOK)
	var deleted deleteItemResponse
	decode(t, rec, &deleted)
	if len(deleted.DeletedIDs) != 5 {
		t.Errorf("deleted = %v", deleted.DeletedIDs)
	}
}

func TestPaneRoutes(t *testing.T) {
	h := newTestHandler(t)
	id := importDemo(t, h)

	rec := do(t, h, http.MethodPost, "/api/panes/primary/open", map[string]string{"projectId": id})
	expectStatus(t, rec, http.StatusOK)
	var pane models.Pane
	decode(t, rec, &pane)
	if pane.SelectedItemID != "doc-1" {
		t.Errorf("opened pane = %+v", pane)
	}

	rec = do(t, h, http.MethodPost, "/api/panes/secondary/open", map[string]string{"projectId": id})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, http.MethodPost, "/api/panes/layout", map[string]bool{"split": true})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodPost, "/api/panes/secondary/select", map[string]string{"itemId": "doc-3"})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodPost, "/api/panes/secondary/mode", map[string]string{"mode": "timeline"})
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodPost, "/api/panes/primary/focus", nil, "Content-Type", "application/json")
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodGet, "/api/panes/secondary/view", nil)
	expectStatus(t, rec, http.StatusOK)
	var view models.PaneView
	decode(t, rec, &view)
	if view.Item == nil || view.Item.ID != "doc-3" || view.State.Mode != models.ModeTimeline {
		t.Errorf("secondary view = %+v", view)
	}

	// Another user's panes are untouched.
	rec = do(t, h, http.MethodGet, "/api/panes", nil, testUserHeader, "someone-else")
	expectStatus(t, rec, http.StatusOK)
	var layout models.Layout
	decode(t, rec, &layout)
	if layout.Split || layout.Primary.ProjectID != "" {
		t.Errorf("other user's layout = %+v", layout)
	}
}

func TestAssistRoute(t *testing.T) {
	h := newTestHandler(t)
	id := importDemo(t, h)

	rec := do(t, h, http.MethodPost, "/api/projects/"+id+"/items/doc-1/assist", map[string]interface{}{"task": "summarize", "apply": true})
	expectStatus(t, rec, http.StatusOK)
	var outcome svc.AssistOutcome
	decode(t, rec, &outcome)
	if outcome.Applied || outcome.Result == nil || !outcome.Result.Degraded {
		t.Errorf("outcome = %+v", outcome)
	}

	rec = do(t, h, http.MethodPost, "/api/projects/"+id+"/items/doc-1/assist", map[string]string{"task": "rhyme"})
	expectStatus(t, rec, http.StatusBadRequest)
}
