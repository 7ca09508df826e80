package binder

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/binder"
	"inkwell/internal/domain/repositories"
	svc "inkwell/internal/domain/services/binder"
	"inkwell/internal/seed"
)

// recordingTx counts transactions and can fail after running fn.
type recordingTx struct {
	calls int
	fail  error
}

func (r *recordingTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	r.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return r.fail
}

type testEnv struct {
	kv        *flakyKV
	sched     *ManualScheduler
	tx        *recordingTx
	store     svc.ContentStore
	projects  svc.ProjectService
	items     svc.ItemService
	crossRef  svc.CrossRefService
	viewports *ViewportRegistry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := testLogger()
	kv := newFlakyKV()
	sched := NewManualScheduler()
	tx := &recordingTx{}

	store := NewContentStore(kv, sched, logger)
	projects := NewProjectService(kv, store, tx, sched, logger)
	viewports := NewViewportRegistry(store, projects, logger)
	return &testEnv{
		kv:        kv,
		sched:     sched,
		tx:        tx,
		store:     store,
		projects:  projects,
		items:     NewItemService(store, projects, viewports, logger),
		crossRef:  NewCrossRefService(store, projects, logger),
		viewports: viewports,
	}
}

// vanishingProjects deletes a project right after reporting that it exists,
// standing in for a concurrent delete between the check and the write.
// The first skip checks of target pass through untouched.
type vanishingProjects struct {
	svc.ProjectService
	target string
	skip   int
}

func (v *vanishingProjects) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p, err := v.ProjectService.GetProject(ctx, id)
	if err == nil && id == v.target {
		if v.skip > 0 {
			v.skip--
			return p, err
		}
		v.target = ""
		if derr := v.ProjectService.DeleteProject(ctx, id); derr != nil {
			return nil, derr
		}
	}
	return p, err
}

func (e *testEnv) importDemo(t *testing.T) string {
	t.Helper()
	p, err := e.projects.ImportProject(context.Background(), seed.DemoRecord())
	if err != nil {
		t.Fatalf("import demo: %v", err)
	}
	return p.ID
}

func TestProjectService_CreateGetList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.projects.CreateProject(ctx, &svc.CreateProjectRequest{Title: "  First  "})
	if err != nil {
		t.Fatal(err)
	}
	if a.Title != "First" {
		t.Errorf("title = %q, want trimmed", a.Title)
	}
	if env.tx.calls != 1 {
		t.Errorf("create ran %d transactions, want 1", env.tx.calls)
	}

	tree, err := env.items.GetTree(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree) != 1 || tree[0].Title != SeedDocumentTitle {
		t.Errorf("new project tree = %v", ids(tree))
	}

	b, _ := env.projects.CreateProject(ctx, &svc.CreateProjectRequest{Title: "Second"})
	fav := true
	if _, err := env.projects.UpdateProject(ctx, a.ID, &svc.UpdateProjectRequest{IsFavorite: &fav}); err != nil {
		t.Fatal(err)
	}

	list, err := env.projects.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("list order = %+v, want favorite first", list)
	}

	// A fresh service sees the persisted list.
	reloaded := NewProjectService(env.kv, env.store, nil, env.sched, testLogger())
	if got, err := reloaded.GetProject(ctx, b.ID); err != nil || got.Title != "Second" {
		t.Errorf("reloaded project = %+v, %v", got, err)
	}
}

func TestProjectService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	blank := "   "

	tests := []struct {
		name string
		run  func() error
	}{
		{"create empty title", func() error {
			_, err := env.projects.CreateProject(ctx, &svc.CreateProjectRequest{Title: ""})
			return err
		}},
		{"create blank title", func() error {
			_, err := env.projects.CreateProject(ctx, &svc.CreateProjectRequest{Title: blank})
			return err
		}},
		{"update blank title", func() error {
			p, _ := env.projects.CreateProject(ctx, &svc.CreateProjectRequest{Title: "ok"})
			_, err := env.projects.UpdateProject(ctx, p.ID, &svc.UpdateProjectRequest{Title: &blank})
			return err
		}},
		{"import wrong version", func() error {
			rec := seed.DemoRecord()
			rec.Version = 7
			_, err := env.projects.ImportProject(ctx, rec)
			return err
		}},
		{"import invalid tree", func() error {
			rec := seed.DemoRecord()
			rec.Bundle.Tree = append(rec.Bundle.Tree, models.NewDocument("doc-1", "dup"))
			_, err := env.projects.ImportProject(ctx, rec)
			return err
		}},
		{"import nil", func() error {
			_, err := env.projects.ImportProject(ctx, nil)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestProjectService_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.projects.GetProject(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: %v", err)
	}
	if err := env.projects.DeleteProject(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete: %v", err)
	}
	if _, err := env.items.GetTree(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("tree: %v", err)
	}
	if _, found, _ := env.kv.Load(ctx, repositories.ProjectKey("nope")); found {
		t.Error("a stale id materialized content")
	}
}

func TestProjectService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	if err := env.projects.DeleteProject(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := env.projects.GetProject(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("project still present: %v", err)
	}
	if _, found, _ := env.kv.Load(ctx, repositories.ProjectKey(id)); found {
		t.Error("content still stored")
	}
}

func TestProjectService_DeleteRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	env.tx.fail = errors.New("commit failed")
	if err := env.projects.DeleteProject(ctx, id); err == nil {
		t.Fatal("expected delete to fail")
	}
	env.tx.fail = nil

	if _, err := env.projects.GetProject(ctx, id); err != nil {
		t.Errorf("project should be restored: %v", err)
	}
	if _, err := env.items.GetTree(ctx, id); err != nil {
		t.Errorf("restored project content should load: %v", err)
	}
}

func TestItemService_ProjectDeletedBeforeWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)
	env.sched.FireAll()

	items := NewItemService(env.store, &vanishingProjects{ProjectService: env.projects, target: id}, env.viewports, testLogger())
	_, err := items.CreateItem(ctx, &svc.CreateItemRequest{ProjectID: id, Kind: models.KindDocument, Title: "Late"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("create after concurrent delete: %v", err)
	}

	env.sched.FireAll()
	if _, found, _ := env.kv.Load(ctx, repositories.ProjectKey(id)); found {
		t.Error("content written for a deleted project")
	}
	if _, ok := env.store.Get(id); ok {
		t.Error("deleted project content is resident again")
	}
}

func TestProjectService_CreateRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.kv.setFailing(true)
	if _, err := env.projects.CreateProject(ctx, &svc.CreateProjectRequest{Title: "Doomed"}); err == nil {
		t.Fatal("expected create to fail")
	}
	env.kv.setFailing(false)

	list, err := env.projects.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("failed create left %d projects", len(list))
	}
}

func TestProjectService_ExportImport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	rec, err := env.projects.ExportProject(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	again, err := env.projects.ImportProject(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID == id {
		t.Error("import reused the source project id")
	}

	tree, _ := env.items.GetTree(ctx, again.ID)
	if Find(tree, "doc-3") == nil {
		t.Error("import should keep item ids")
	}
}

func TestProjectService_TouchDebounced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)
	before, _ := env.projects.GetProject(ctx, id)
	writes := env.kv.storeCount()

	time.Sleep(time.Millisecond)
	env.projects.Touch(ctx, id)
	env.projects.Touch(ctx, id)

	after, _ := env.projects.GetProject(ctx, id)
	if !after.LastModified.After(before.LastModified) {
		t.Error("touch did not bump LastModified")
	}
	if env.kv.storeCount() != writes {
		t.Error("touch wrote synchronously")
	}
	if !env.sched.Fire(projectsSaveKey) {
		t.Fatal("no metadata save pending")
	}
	if env.kv.storeCount() != writes+1 {
		t.Errorf("writes = %d, want one debounced list save", env.kv.storeCount()-writes)
	}
}

func TestItemService_CreatePlacement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	tests := []struct {
		name       string
		req        svc.CreateItemRequest
		wantParent string
		wantAfter  string
	}{
		{"explicit parent", svc.CreateItemRequest{Kind: models.KindDocument, Title: "In part two", ParentID: "part-2"}, "part-2", "doc-4"},
		{"after selected document", svc.CreateItemRequest{Kind: models.KindDocument, Title: "After one", AfterID: "doc-1"}, "part-1", "doc-1"},
		{"into selected container", svc.CreateItemRequest{Kind: models.KindContainer, Title: "Sub", AfterID: "part-1"}, "part-1", ""},
		{"top level", svc.CreateItemRequest{Kind: models.KindContainer, Title: "Part Three"}, "", "part-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.ProjectID = id
			item, err := env.items.CreateItem(ctx, &req)
			if err != nil {
				t.Fatal(err)
			}
			tree, _ := env.items.GetTree(ctx, id)
			parent, siblings, ok := FindParentContext(tree, item.ID)
			if !ok {
				t.Fatal("created item not in tree")
			}
			gotParent := ""
			if parent != nil {
				gotParent = parent.ID
			}
			if gotParent != tt.wantParent {
				t.Errorf("parent = %q, want %q", gotParent, tt.wantParent)
			}
			if tt.wantAfter != "" {
				for i, s := range siblings {
					if s.ID == item.ID && (i == 0 || siblings[i-1].ID != tt.wantAfter) {
						t.Errorf("item not placed after %s: %v", tt.wantAfter, ids(siblings))
					}
				}
			}
		})
	}
}

func TestItemService_CreateErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	tests := []struct {
		name string
		req  svc.CreateItemRequest
		want error
	}{
		{"missing title", svc.CreateItemRequest{ProjectID: id, Kind: models.KindDocument}, domain.ErrValidation},
		{"bad kind", svc.CreateItemRequest{ProjectID: id, Kind: "shelf", Title: "x"}, domain.ErrValidation},
		{"document parent", svc.CreateItemRequest{ProjectID: id, Kind: models.KindDocument, Title: "x", ParentID: "doc-1"}, domain.ErrValidation},
		{"absent parent", svc.CreateItemRequest{ProjectID: id, Kind: models.KindDocument, Title: "x", ParentID: "gone"}, domain.ErrNotFound},
		{"absent project", svc.CreateItemRequest{ProjectID: "gone", Kind: models.KindDocument, Title: "x"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.items.CreateItem(ctx, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestItemService_UpdateAndSnapshots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	body := "First draft."
	if _, err := env.items.UpdateItem(ctx, id, "doc-1", models.ItemPatch{Body: &body}); err != nil {
		t.Fatal(err)
	}
	snap, err := env.items.TakeSnapshot(ctx, id, "doc-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Body != body || snap.Label == "" {
		t.Errorf("snapshot = %+v", snap)
	}

	body2 := "Second draft."
	_, _ = env.items.UpdateItem(ctx, id, "doc-1", models.ItemPatch{Body: &body2})
	restored, err := env.items.RestoreSnapshot(ctx, id, "doc-1", snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Document.Body != body {
		t.Errorf("restored body = %q", restored.Document.Body)
	}

	if _, err := env.items.TakeSnapshot(ctx, id, "part-1", "x"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("snapshot of container: %v", err)
	}
	if _, err := env.items.RestoreSnapshot(ctx, id, "doc-1", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("restore missing snapshot: %v", err)
	}

	parts := []models.Participant{{Name: " Ada ", Role: models.RoleMinor}}
	item, err := env.items.UpdateItem(ctx, id, "doc-1", models.ItemPatch{Participants: &parts})
	if err != nil {
		t.Fatal(err)
	}
	if p := item.Document.Participants[0]; p.Name != "Ada" || p.ID == "" {
		t.Errorf("participant = %+v", p)
	}

	badRole := []models.Participant{{Name: "Ada", Role: "villain"}}
	if _, err := env.items.UpdateItem(ctx, id, "doc-1", models.ItemPatch{Participants: &badRole}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad role: %v", err)
	}
}

func TestItemService_ToggleMoveDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	item, err := env.items.ToggleItem(ctx, id, "doc-2", svc.ToggleBookmarked)
	if err != nil || !item.IsBookmarked {
		t.Fatalf("toggle bookmark = %+v, %v", item, err)
	}
	if _, err := env.items.ToggleItem(ctx, id, "doc-2", "pinned"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown flag: %v", err)
	}

	if _, err := env.items.MoveItem(ctx, id, "doc-4", "part-1", 0); err != nil {
		t.Fatal(err)
	}
	tree, _ := env.items.GetTree(ctx, id)
	if Find(tree, "part-1").Children()[0].ID != "doc-4" {
		t.Errorf("move did not place doc-4 first: %v", ids(tree))
	}
	if _, err := env.items.MoveItem(ctx, id, "part-1", "doc-1", -1); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("move into own subtree: %v", err)
	}

	removed, err := env.items.DeleteItem(ctx, id, "part-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 5 {
		t.Errorf("removed = %v", removed)
	}
	if _, err := env.items.DeleteItem(ctx, id, "part-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestItemService_ThreadsAndNotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	threads, err := env.items.SetThreads(ctx, id, []models.Thread{{Name: " Romance "}, {ID: "t-2", Name: "Revenge"}})
	if err != nil {
		t.Fatal(err)
	}
	if threads[0].ID == "" || threads[0].Name != "Romance" {
		t.Errorf("threads = %+v", threads)
	}
	if _, err := env.items.SetThreads(ctx, id, []models.Thread{{ID: "a", Name: "x"}, {ID: "a", Name: "y"}}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("duplicate thread ids: %v", err)
	}
	if _, err := env.items.SetThreads(ctx, id, []models.Thread{{Name: ""}}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty thread name: %v", err)
	}

	notes, err := env.items.SetNotes(ctx, id, []models.Note{{Body: "remember the clock"}})
	if err != nil {
		t.Fatal(err)
	}
	if notes[0].ID == "" || notes[0].CreatedAt.IsZero() {
		t.Errorf("notes = %+v", notes)
	}
}

func TestItemService_Stats(t *testing.T) {
	env := newTestEnv(t)
	id := env.importDemo(t)

	stats, err := env.items.Stats(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Documents != 4 || stats.Containers != 2 || stats.Words == 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCrossRefService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)

	conflicts, err := env.crossRef.Conflicts(ctx, id)
	if err != nil || len(conflicts) != 1 {
		t.Fatalf("conflicts = %+v, %v", conflicts, err)
	}

	// Moving Mara out of the harbor resolves it.
	setting := &models.Setting{Location: "Workshop"}
	if _, err := env.items.UpdateItem(ctx, id, "doc-3", models.ItemPatch{Setting: &setting}); err != nil {
		t.Fatal(err)
	}
	conflicts, _ = env.crossRef.Conflicts(ctx, id)
	if len(conflicts) != 0 {
		t.Errorf("conflicts after fix = %+v", conflicts)
	}

	if _, err := env.crossRef.Matrix(ctx, id, models.DimDates, models.DimDates); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("same axes: %v", err)
	}
	if _, err := env.crossRef.Matrix(ctx, "gone", models.DimDates, models.DimCharacters); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("absent project: %v", err)
	}
}

func TestViewport_PanesAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.importDemo(t)
	b, _ := env.projects.CreateProject(ctx, &svc.CreateProjectRequest{Title: "Other"})
	vm := env.viewports.For("user-1")

	pane, err := vm.OpenProject(ctx, models.PanePrimary, a)
	if err != nil {
		t.Fatal(err)
	}
	if pane.SelectedItemID != "doc-1" || pane.Mode != models.ModeEditor {
		t.Errorf("opened pane = %+v", pane)
	}

	if _, err := vm.OpenProject(ctx, models.PaneSecondary, b.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("secondary before split: %v", err)
	}

	layout := vm.SetLayout(true)
	if !layout.Split || layout.Secondary.ProjectID != a || layout.Focused != models.PaneSecondary {
		t.Errorf("split layout = %+v", layout)
	}
	if _, err := vm.OpenProject(ctx, models.PaneSecondary, b.ID); err != nil {
		t.Fatal(err)
	}

	primary, err := vm.View(ctx, models.PanePrimary)
	if err != nil {
		t.Fatal(err)
	}
	secondary, err := vm.View(ctx, models.PaneSecondary)
	if err != nil {
		t.Fatal(err)
	}
	if primary.Project.ID != a || secondary.Project.ID != b.ID {
		t.Errorf("views crossed: %s / %s", primary.Project.ID, secondary.Project.ID)
	}
	if primary.Item == nil || primary.Item.ID != "doc-1" || secondary.Item == nil || secondary.Item.Title != SeedDocumentTitle {
		t.Error("each pane should resolve its own selection")
	}

	// Selecting an item of the other project leaves the pane as it was.
	unchanged, err := vm.Select(ctx, models.PanePrimary, secondary.Item.ID)
	if err != nil {
		t.Errorf("cross-project select: %v", err)
	}
	if unchanged.SelectedItemID != "doc-1" || unchanged.ProjectID != a {
		t.Errorf("cross-project select changed the pane: %+v", unchanged)
	}

	merged := vm.SetLayout(false)
	if merged.Split || merged.Focused != models.PanePrimary || merged.Primary.ProjectID != a {
		t.Errorf("merged layout = %+v", merged)
	}

	// Another user has an untouched layout.
	if other := env.viewports.For("user-2").Layout(); other.Primary.ProjectID != "" {
		t.Errorf("user-2 layout = %+v", other)
	}
}

func TestViewport_DeleteInOneProjectLeavesOtherPane(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.importDemo(t)
	b := env.importDemo(t)
	vm := env.viewports.For("user-1")

	if _, err := vm.OpenProject(ctx, models.PanePrimary, a); err != nil {
		t.Fatal(err)
	}
	vm.SetLayout(true)
	if _, err := vm.OpenProject(ctx, models.PaneSecondary, b); err != nil {
		t.Fatal(err)
	}
	treeB, err := env.items.GetTree(ctx, b)
	if err != nil {
		t.Fatal(err)
	}

	// Both projects hold a doc-1; only project a loses it.
	if _, err := env.items.DeleteItem(ctx, a, "doc-1"); err != nil {
		t.Fatal(err)
	}

	layout := vm.Layout()
	if layout.Primary.SelectedItemID != "" {
		t.Errorf("primary kept a deleted selection: %+v", layout.Primary)
	}
	if layout.Secondary.ProjectID != b || layout.Secondary.SelectedItemID != "doc-1" || layout.Secondary.Mode != models.ModeEditor {
		t.Errorf("secondary pane changed: %+v", layout.Secondary)
	}

	after, err := env.items.GetTree(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(treeB) {
		t.Fatalf("project b tree changed length: %d -> %d", len(treeB), len(after))
	}
	for i := range treeB {
		if after[i] != treeB[i] {
			t.Errorf("project b top-level item %d replaced", i)
		}
	}
	view, err := vm.View(ctx, models.PaneSecondary)
	if err != nil {
		t.Fatal(err)
	}
	if view.Item == nil || view.Item.ID != "doc-1" {
		t.Errorf("secondary view = %+v", view.Item)
	}
}

func TestViewport_SelectionAutoCorrects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.importDemo(t)
	vm := env.viewports.For("user-1")

	if _, err := vm.OpenProject(ctx, models.PanePrimary, id); err != nil {
		t.Fatal(err)
	}
	pane, err := vm.Select(ctx, models.PanePrimary, "part-1")
	if err != nil {
		t.Fatal(err)
	}
	if pane.Mode != models.ModeEditor {
		t.Errorf("selecting a container changed mode to %s", pane.Mode)
	}
	_, _ = vm.SetMode(models.PanePrimary, models.ModeOutliner)
	pane, _ = vm.Select(ctx, models.PanePrimary, "doc-2")
	if pane.Mode != models.ModeEditor {
		t.Errorf("selecting a document from an aggregate mode should open the editor, got %s", pane.Mode)
	}

	if _, err := env.items.DeleteItem(ctx, id, "part-1"); err != nil {
		t.Fatal(err)
	}
	layout := vm.Layout()
	if layout.Primary.SelectedItemID != "" || layout.Primary.Mode != models.DefaultAggregateMode {
		t.Errorf("pane after deleting its selection = %+v", layout.Primary)
	}

	if err := env.projects.DeleteProject(ctx, id); err != nil {
		t.Fatal(err)
	}
	view, err := vm.View(ctx, models.PanePrimary)
	if err != nil {
		t.Fatal(err)
	}
	if view.State.ProjectID != "" || view.Project != nil {
		t.Errorf("view of deleted project = %+v", view)
	}
}

func TestViewport_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	vm := env.viewports.For("u")

	if _, err := vm.Select(ctx, models.PanePrimary, "x"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("select without project: %v", err)
	}
	if _, err := vm.SetMode(models.PanePrimary, "gallery"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown mode: %v", err)
	}
	if _, err := vm.Focus("tertiary"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown pane: %v", err)
	}
	if _, err := vm.OpenProject(ctx, models.PanePrimary, "gone"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("open absent project: %v", err)
	}
}
