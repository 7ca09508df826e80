package binder

import (
	"reflect"
	"testing"

	models "inkwell/internal/domain/models/binder"
)

// sampleTree builds:
//
//	part-1
//	  doc-1
//	  doc-2
//	part-2
//	  part-3
//	    doc-3
//	doc-4
func sampleTree() models.Tree {
	part3 := models.NewContainer("part-3", "Interlude")
	part3.Container.Children = models.Tree{models.NewDocument("doc-3", "Three")}

	part1 := models.NewContainer("part-1", "Part One")
	part1.Container.Children = models.Tree{
		models.NewDocument("doc-1", "One"),
		models.NewDocument("doc-2", "Two"),
	}
	part2 := models.NewContainer("part-2", "Part Two")
	part2.Container.Children = models.Tree{part3}

	return models.Tree{part1, part2, models.NewDocument("doc-4", "Four")}
}

func ids(tree models.Tree) []string {
	var out []string
	Walk(tree, func(it *models.Item, _ int) bool {
		out = append(out, it.ID)
		return true
	})
	return out
}

func TestFind(t *testing.T) {
	tree := sampleTree()

	tests := []struct {
		id    string
		title string
	}{
		{"part-1", "Part One"},
		{"doc-2", "Two"},
		{"doc-3", "Three"},
		{"doc-4", "Four"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			it := Find(tree, tt.id)
			if it == nil {
				t.Fatalf("Find(%s) = nil", tt.id)
			}
			if it.Title != tt.title {
				t.Errorf("title = %q, want %q", it.Title, tt.title)
			}
		})
	}

	if Find(tree, "missing") != nil {
		t.Error("Find returned an item for an absent id")
	}
}

func TestFindParentContext(t *testing.T) {
	tree := sampleTree()

	parent, siblings, ok := FindParentContext(tree, "doc-3")
	if !ok || parent == nil || parent.ID != "part-3" || len(siblings) != 1 {
		t.Errorf("doc-3: parent=%v siblings=%d ok=%v", parent, len(siblings), ok)
	}

	parent, siblings, ok = FindParentContext(tree, "doc-4")
	if !ok || parent != nil || len(siblings) != 3 {
		t.Errorf("doc-4 should be top level with 3 siblings, got parent=%v siblings=%d", parent, len(siblings))
	}

	if _, _, ok := FindParentContext(tree, "missing"); ok {
		t.Error("absent id reported as found")
	}
}

func TestUpdate_SharesUntouchedSubtrees(t *testing.T) {
	tree := sampleTree()
	title := "Renamed"

	out := Update(tree, "doc-3", models.ItemPatch{Title: &title})

	if Find(out, "doc-3").Title != "Renamed" {
		t.Fatal("update not applied")
	}
	if Find(tree, "doc-3").Title != "Three" {
		t.Error("input tree was modified")
	}
	if out[0] != tree[0] || out[2] != tree[2] {
		t.Error("siblings off the changed path should be shared")
	}
	if out[1] == tree[1] {
		t.Error("ancestor of the changed node should be copied")
	}
}

func TestUpdate_NoOps(t *testing.T) {
	tree := sampleTree()
	title := "x"

	if out := Update(tree, "missing", models.ItemPatch{Title: &title}); !reflect.DeepEqual(ids(out), ids(tree)) || &out[0] != &tree[0] {
		t.Error("absent id should return the input")
	}
	if out := Update(tree, "doc-1", models.ItemPatch{}); &out[0] != &tree[0] {
		t.Error("empty patch should return the input")
	}
}

func TestUpdate_KindSplit(t *testing.T) {
	tree := sampleTree()
	body := "text"
	expanded := true

	out := Update(tree, "part-1", models.ItemPatch{Body: &body})
	if got := Find(out, "part-1"); got.Document != nil {
		t.Error("body patch gave a container a document payload")
	}

	out = Update(tree, "doc-1", models.ItemPatch{IsExpanded: &expanded})
	if got := Find(out, "doc-1"); got.Container != nil {
		t.Error("expanded patch gave a document a container payload")
	}
	if err := Validate(out); err != nil {
		t.Errorf("tree invalid after patch: %v", err)
	}
}

func TestUpdate_ThreadNotesMerge(t *testing.T) {
	tree := Update(sampleTree(), "doc-1", models.ItemPatch{ThreadNotes: map[string]string{"a": "one", "b": "two"}})
	tree = Update(tree, "doc-1", models.ItemPatch{ThreadNotes: map[string]string{"a": "", "c": "three"}})

	got := Find(tree, "doc-1").Document.ThreadNotes
	want := map[string]string{"b": "two", "c": "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("thread notes = %v, want %v", got, want)
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		parentID string
		item     *models.Item
		wantIDs  []string
	}{
		{
			name:     "top level appends",
			parentID: "",
			item:     models.NewDocument("new", "New"),
			wantIDs:  []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "doc-4", "new"},
		},
		{
			name:     "into container",
			parentID: "part-3",
			item:     models.NewDocument("new", "New"),
			wantIDs:  []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "new", "doc-4"},
		},
		{
			name:     "into document refused",
			parentID: "doc-1",
			item:     models.NewDocument("new", "New"),
			wantIDs:  []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "doc-4"},
		},
		{
			name:     "absent parent refused",
			parentID: "missing",
			item:     models.NewDocument("new", "New"),
			wantIDs:  []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "doc-4"},
		},
		{
			name:     "duplicate id refused",
			parentID: "",
			item:     models.NewDocument("doc-2", "Dup"),
			wantIDs:  []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "doc-4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Insert(sampleTree(), tt.parentID, tt.item)
			if got := ids(out); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
			if err := Validate(out); err != nil {
				t.Errorf("invalid tree: %v", err)
			}
		})
	}
}

func TestInsert_ExpandsParent(t *testing.T) {
	out := Insert(sampleTree(), "part-2", models.NewDocument("new", "New"))
	if !Find(out, "part-2").Container.IsExpanded {
		t.Error("receiving container should be expanded")
	}
}

func TestInsertAt(t *testing.T) {
	out := InsertAt(sampleTree(), "part-1", models.NewDocument("new", "New"), 0)
	children := Find(out, "part-1").Children()
	if children[0].ID != "new" || len(children) != 3 {
		t.Errorf("children = %v", ids(children))
	}
}

func TestDelete(t *testing.T) {
	out := Delete(sampleTree(), "part-2")
	want := []string{"part-1", "doc-1", "doc-2", "doc-4"}
	if got := ids(out); !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}

	tree := sampleTree()
	if out := Delete(tree, "missing"); len(ids(out)) != len(ids(tree)) {
		t.Error("deleting an absent id changed the tree")
	}
}

func TestToggles_Idempotence(t *testing.T) {
	tree := sampleTree()

	twice := ToggleExpanded(ToggleExpanded(tree, "part-1"), "part-1")
	if Find(twice, "part-1").Container.IsExpanded != Find(tree, "part-1").Container.IsExpanded {
		t.Error("toggling expanded twice should restore the flag")
	}
	if out := ToggleExpanded(tree, "doc-1"); &out[0] != &tree[0] {
		t.Error("expanding a document should be a no-op")
	}

	once := ToggleBookmark(tree, "doc-1")
	if !Find(once, "doc-1").IsBookmarked {
		t.Error("bookmark not set")
	}
	if Find(ToggleBookmark(once, "doc-1"), "doc-1").IsBookmarked {
		t.Error("toggling bookmark twice should clear it")
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		parentID string
		index    int
		wantOK   bool
		wantIDs  []string
	}{
		{
			name: "document into other container", id: "doc-4", parentID: "part-1", index: 1, wantOK: true,
			wantIDs: []string{"part-1", "doc-1", "doc-4", "doc-2", "part-2", "part-3", "doc-3"},
		},
		{
			name: "container to top level front", id: "part-3", parentID: "", index: 0, wantOK: true,
			wantIDs: []string{"part-3", "doc-3", "part-1", "doc-1", "doc-2", "part-2", "doc-4"},
		},
		{
			name: "into own descendant", id: "part-2", parentID: "part-3", index: -1,
			wantIDs: []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "doc-4"},
		},
		{
			name: "into itself", id: "part-2", parentID: "part-2", index: -1,
			wantIDs: []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "doc-4"},
		},
		{
			name: "under a document", id: "doc-1", parentID: "doc-4", index: -1,
			wantIDs: []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "doc-4"},
		},
		{
			name: "absent item", id: "missing", parentID: "", index: -1,
			wantIDs: []string{"part-1", "doc-1", "doc-2", "part-2", "part-3", "doc-3", "doc-4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := Move(sampleTree(), tt.id, tt.parentID, tt.index)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got := ids(out); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestFirstDocumentAndDocuments(t *testing.T) {
	tree := sampleTree()
	if doc := FirstDocument(tree); doc == nil || doc.ID != "doc-1" {
		t.Errorf("FirstDocument = %v, want doc-1", doc)
	}
	if doc := FirstDocument(models.Tree{models.NewContainer("c", "Empty")}); doc != nil {
		t.Errorf("FirstDocument on a tree without documents = %v", doc)
	}

	var got []string
	for _, d := range Documents(tree) {
		got = append(got, d.ID)
	}
	want := []string{"doc-1", "doc-2", "doc-3", "doc-4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Documents = %v, want %v", got, want)
	}
}

func TestSubtreeIDs(t *testing.T) {
	tree := sampleTree()
	if got, want := SubtreeIDs(tree, "part-2"), []string{"part-2", "part-3", "doc-3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SubtreeIDs = %v, want %v", got, want)
	}
	if got := SubtreeIDs(tree, "missing"); got != nil {
		t.Errorf("SubtreeIDs(missing) = %v", got)
	}
}

func TestInsertionParent(t *testing.T) {
	tree := sampleTree()
	tests := []struct {
		selected string
		want     string
	}{
		{"", ""},
		{"missing", ""},
		{"part-1", "part-1"},
		{"doc-2", "part-1"},
		{"doc-3", "part-3"},
		{"doc-4", ""},
	}
	for _, tt := range tests {
		if got := InsertionParent(tree, tt.selected); got != tt.want {
			t.Errorf("InsertionParent(%q) = %q, want %q", tt.selected, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	badKind := models.NewDocument("d", "D")
	badKind.Container = &models.Container{}

	tests := []struct {
		name    string
		tree    models.Tree
		wantErr bool
	}{
		{"sample", sampleTree(), false},
		{"empty", models.Tree{}, false},
		{"duplicate", models.Tree{models.NewDocument("a", "A"), models.NewDocument("a", "B")}, true},
		{"missing id", models.Tree{models.NewDocument("", "A")}, true},
		{"document with children", models.Tree{badKind}, true},
		{"unknown kind", models.Tree{{ID: "x", Kind: "shelf"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tree)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
