package binder

import "time"

// Project is the metadata record shown in the project list.
type Project struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Author       string    `json:"author,omitempty" yaml:"author,omitempty"`
	Synopsis     string    `json:"synopsis,omitempty" yaml:"synopsis,omitempty"`
	CoverStyle   string    `json:"coverStyle,omitempty" yaml:"coverStyle,omitempty"`
	LastModified time.Time `json:"lastModified" yaml:"lastModified"`
	IsFavorite   bool      `json:"isFavorite,omitempty" yaml:"isFavorite,omitempty"`
}

// Thread is a project-scoped narrative thread. Documents reference it by ID
// through Document.ThreadNotes.
type Thread struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Bundle is everything persisted for one project besides its metadata.
type Bundle struct {
	Tree    Tree     `json:"tree" yaml:"tree"`
	Threads []Thread `json:"threads" yaml:"threads"`
	Notes   []Note   `json:"notes" yaml:"notes"`
}

// BundlePatch carries the parts of a Bundle to replace. Nil fields are left alone.
type BundlePatch struct {
	Tree    *Tree
	Threads *[]Thread
	Notes   *[]Note
}

// SaveStatus reports the persistence state of a project's content.
type SaveStatus string

const (
	// StatusSaved means the last write succeeded and nothing is pending.
	StatusSaved SaveStatus = "saved"
	// StatusSaving means an edit is waiting for the debounced write.
	StatusSaving SaveStatus = "saving"
	// StatusUnsaved means the last write failed; memory is ahead of the store.
	StatusUnsaved SaveStatus = "unsaved"
)

// ProjectRecord is the self-contained import/export form of a project.
type ProjectRecord struct {
	Version int     `json:"version" yaml:"version"`
	Project Project `json:"project" yaml:"project"`
	Bundle  Bundle  `json:"bundle" yaml:"bundle"`
}

// RecordVersion is the current ProjectRecord and bundle schema version.
const RecordVersion = 1
