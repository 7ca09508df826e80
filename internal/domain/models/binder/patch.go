package binder

// ItemPatch lists fields to merge into an item. Nil pointers leave the field
// unchanged. Document-only fields are ignored on containers and IsExpanded is
// ignored on documents, so a patch can never break the kind split.
type ItemPatch struct {
	Title        *string
	IsBookmarked *bool
	IsExpanded   *bool

	Body      *string
	Snapshots *[]Snapshot
	// Schedule, Setting and Mechanics point at the new value; a pointer to
	// nil clears the attachment.
	Schedule  **Schedule
	Setting   **Setting
	Mechanics **SceneMechanics
	// ThreadNotes is merged per key; an empty annotation removes the key.
	ThreadNotes  map[string]string
	Participants *[]Participant
	Notes        *[]Note
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.IsBookmarked == nil && p.IsExpanded == nil &&
		p.Body == nil && p.Snapshots == nil && p.Schedule == nil && p.ThreadNotes == nil &&
		p.Participants == nil && p.Setting == nil && p.Mechanics == nil && p.Notes == nil
}
