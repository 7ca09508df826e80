package binder

import (
	"fmt"

	models "inkwell/internal/domain/models/binder"
)

// The functions in this file are the pure structural operations over a
// binder tree. None of them modify their input: every change copies the
// nodes on the path from the root to the changed node and shares every
// other subtree with the input. Lookups of absent ids are no-ops that
// return the input tree unchanged.

// Find returns the item with the given id, searching depth-first with
// children before siblings, or nil.
func Find(tree models.Tree, id string) *models.Item {
	for _, it := range tree {
		if it.ID == id {
			return it
		}
		if found := Find(it.Children(), id); found != nil {
			return found
		}
	}
	return nil
}

// FindParentContext returns the container holding id (nil at top level) and
// the sibling list id belongs to. ok is false when id is absent.
func FindParentContext(tree models.Tree, id string) (parent *models.Item, siblings models.Tree, ok bool) {
	return findParent(nil, tree, id)
}

func findParent(parent *models.Item, list models.Tree, id string) (*models.Item, models.Tree, bool) {
	for _, it := range list {
		if it.ID == id {
			return parent, list, true
		}
		if p, s, ok := findParent(it, it.Children(), id); ok {
			return p, s, true
		}
	}
	return nil, nil, false
}

// Update returns a tree where the item with the given id has the patch merged in.
func Update(tree models.Tree, id string, patch models.ItemPatch) models.Tree {
	if patch.Empty() {
		return tree
	}
	out, _ := replace(tree, id, func(it *models.Item) *models.Item {
		return applyPatch(it, patch)
	})
	return out
}

// Insert appends item to the children of parentID, or to the top level when
// parentID is empty. The receiving container is expanded. Nothing is inserted
// when parentID is not a container, or when any id in item's subtree already
// exists in the tree.
func Insert(tree models.Tree, parentID string, item *models.Item) models.Tree {
	return InsertAt(tree, parentID, item, -1)
}

// InsertAt is Insert with a position among the new siblings; index < 0 or
// past the end appends.
func InsertAt(tree models.Tree, parentID string, item *models.Item, index int) models.Tree {
	if item == nil || collides(tree, item) {
		return tree
	}
	if parentID == "" {
		return insertInto(tree, item, index)
	}
	if parent := Find(tree, parentID); !parent.IsContainer() {
		return tree
	}
	out, _ := replace(tree, parentID, func(it *models.Item) *models.Item {
		cp := it.Clone()
		cp.Container.Children = insertInto(it.Container.Children, item, index)
		cp.Container.IsExpanded = true
		return cp
	})
	return out
}

// Delete removes the item and its whole subtree.
func Delete(tree models.Tree, id string) models.Tree {
	out, _ := replace(tree, id, func(*models.Item) *models.Item { return nil })
	return out
}

// FirstDocument returns the first document in depth-first order, or nil.
func FirstDocument(tree models.Tree) *models.Item {
	for _, it := range tree {
		if it.IsDocument() {
			return it
		}
		if doc := FirstDocument(it.Children()); doc != nil {
			return doc
		}
	}
	return nil
}

// ToggleExpanded flips IsExpanded on a container. Documents are left alone.
func ToggleExpanded(tree models.Tree, id string) models.Tree {
	it := Find(tree, id)
	if !it.IsContainer() {
		return tree
	}
	expanded := !it.Container.IsExpanded
	return Update(tree, id, models.ItemPatch{IsExpanded: &expanded})
}

// ToggleBookmark flips IsBookmarked on any item.
func ToggleBookmark(tree models.Tree, id string) models.Tree {
	it := Find(tree, id)
	if it == nil {
		return tree
	}
	bookmarked := !it.IsBookmarked
	return Update(tree, id, models.ItemPatch{IsBookmarked: &bookmarked})
}

// Move reparents id under parentID ("" for top level) at index (< 0 appends).
// It refuses, returning the input and false, when either id is absent, the
// target is a document, or the target lies inside the moved subtree.
func Move(tree models.Tree, id, parentID string, index int) (models.Tree, bool) {
	node := Find(tree, id)
	if node == nil {
		return tree, false
	}
	if parentID != "" {
		if parentID == id || Find(node.Children(), parentID) != nil {
			return tree, false
		}
		if target := Find(tree, parentID); !target.IsContainer() {
			return tree, false
		}
	}
	out := InsertAt(Delete(tree, id), parentID, node, index)
	return out, Find(out, id) != nil
}

// Documents flattens the tree into its documents in depth-first order.
func Documents(tree models.Tree) []*models.Item {
	var docs []*models.Item
	Walk(tree, func(it *models.Item, _ int) bool {
		if it.IsDocument() {
			docs = append(docs, it)
		}
		return true
	})
	return docs
}

// Walk visits every item depth-first. Returning false from fn skips the
// item's children.
func Walk(tree models.Tree, fn func(it *models.Item, depth int) bool) {
	walk(tree, 0, fn)
}

func walk(tree models.Tree, depth int, fn func(*models.Item, int) bool) {
	for _, it := range tree {
		if fn(it, depth) {
			walk(it.Children(), depth+1, fn)
		}
	}
}

// SubtreeIDs returns id followed by the ids of all its descendants, or nil
// when id is absent.
func SubtreeIDs(tree models.Tree, id string) []string {
	node := Find(tree, id)
	if node == nil {
		return nil
	}
	ids := []string{node.ID}
	Walk(node.Children(), func(it *models.Item, _ int) bool {
		ids = append(ids, it.ID)
		return true
	})
	return ids
}

// InsertionParent picks where a new item goes relative to the selection:
// into a selected container, next to a selected document, or at the top
// level when nothing (or nothing present) is selected.
func InsertionParent(tree models.Tree, selectedID string) string {
	if selectedID == "" {
		return ""
	}
	parent, _, ok := FindParentContext(tree, selectedID)
	if !ok {
		return ""
	}
	if sel := Find(tree, selectedID); sel.IsContainer() {
		return sel.ID
	}
	if parent == nil {
		return ""
	}
	return parent.ID
}

// Validate checks the structural invariants: every id non-empty and unique,
// and every item's payload agreeing with its kind.
func Validate(tree models.Tree) error {
	seen := make(map[string]struct{})
	var err error
	Walk(tree, func(it *models.Item, _ int) bool {
		if err != nil {
			return false
		}
		switch {
		case it == nil:
			err = fmt.Errorf("nil item")
		case it.ID == "":
			err = fmt.Errorf("item %q has no id", it.Title)
		case it.Kind == models.KindContainer && (it.Container == nil || it.Document != nil):
			err = fmt.Errorf("container %s has a document payload or no container payload", it.ID)
		case it.Kind == models.KindDocument && (it.Document == nil || it.Container != nil):
			err = fmt.Errorf("document %s has children or no document payload", it.ID)
		case it.Kind != models.KindContainer && it.Kind != models.KindDocument:
			err = fmt.Errorf("item %s has unknown kind %q", it.ID, it.Kind)
		}
		if err != nil {
			return false
		}
		if _, dup := seen[it.ID]; dup {
			err = fmt.Errorf("duplicate item id %s", it.ID)
			return false
		}
		seen[it.ID] = struct{}{}
		return true
	})
	return err
}

// replace rebuilds the path to id, substituting fn's result for the item
// (nil removes it). Returns the input and false when id is absent.
func replace(tree models.Tree, id string, fn func(*models.Item) *models.Item) (models.Tree, bool) {
	for i, it := range tree {
		if it.ID == id {
			next := fn(it)
			if next == nil {
				out := make(models.Tree, 0, len(tree)-1)
				out = append(out, tree[:i]...)
				return append(out, tree[i+1:]...), true
			}
			out := make(models.Tree, len(tree))
			copy(out, tree)
			out[i] = next
			return out, true
		}
		if !it.IsContainer() {
			continue
		}
		if children, ok := replace(it.Container.Children, id, fn); ok {
			cp := it.Clone()
			cp.Container.Children = children
			out := make(models.Tree, len(tree))
			copy(out, tree)
			out[i] = cp
			return out, true
		}
	}
	return tree, false
}

func insertInto(list models.Tree, item *models.Item, index int) models.Tree {
	if index < 0 || index > len(list) {
		index = len(list)
	}
	out := make(models.Tree, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, item)
	return append(out, list[index:]...)
}

// collides reports whether any id in item's subtree already exists in tree.
func collides(tree models.Tree, item *models.Item) bool {
	if Find(tree, item.ID) != nil {
		return true
	}
	for _, id := range SubtreeIDs(models.Tree{item}, item.ID)[1:] {
		if Find(tree, id) != nil {
			return true
		}
	}
	return false
}

func applyPatch(it *models.Item, p models.ItemPatch) *models.Item {
	cp := it.Clone()
	if p.Title != nil {
		cp.Title = *p.Title
	}
	if p.IsBookmarked != nil {
		cp.IsBookmarked = *p.IsBookmarked
	}
	if cp.IsContainer() {
		if p.IsExpanded != nil {
			cp.Container.IsExpanded = *p.IsExpanded
		}
		return cp
	}
	if !cp.IsDocument() {
		return cp
	}

	doc := cp.Document
	if p.Body != nil {
		doc.Body = *p.Body
	}
	if p.Snapshots != nil {
		doc.Snapshots = append([]models.Snapshot(nil), (*p.Snapshots)...)
	}
	if p.Schedule != nil {
		doc.Schedule = copyPtr(*p.Schedule)
	}
	if p.Setting != nil {
		doc.Setting = copyPtr(*p.Setting)
	}
	if p.Mechanics != nil {
		doc.Mechanics = copyPtr(*p.Mechanics)
	}
	if p.ThreadNotes != nil {
		doc.ThreadNotes = mergeNotes(doc.ThreadNotes, p.ThreadNotes)
	}
	if p.Participants != nil {
		doc.Participants = append([]models.Participant(nil), (*p.Participants)...)
	}
	if p.Notes != nil {
		doc.Notes = append([]models.Note(nil), (*p.Notes)...)
	}
	return cp
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func mergeNotes(current, changes map[string]string) map[string]string {
	out := make(map[string]string, len(current)+len(changes))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range changes {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
