package binder

// PaneID names one of the two viewports.
type PaneID string

const (
	PanePrimary   PaneID = "primary"
	PaneSecondary PaneID = "secondary"
)

// Valid reports whether p names a known pane.
func (p PaneID) Valid() bool {
	return p == PanePrimary || p == PaneSecondary
}

// Mode is a pane's presentation mode.
type Mode string

const (
	ModeEditor    Mode = "editor"
	ModeCorkboard Mode = "corkboard" // grid of index cards
	ModeOutliner  Mode = "outliner"
	ModeTimeline  Mode = "timeline"
	ModeMatrix    Mode = "matrix"
	ModeConflicts Mode = "conflicts"
)

// DefaultAggregateMode is used when a pane loses its selection.
const DefaultAggregateMode = ModeCorkboard

// Aggregate reports whether the mode shows a collection rather than a single
// document. Selecting a document in an aggregate mode switches to the editor.
func (m Mode) Aggregate() bool {
	switch m {
	case ModeCorkboard, ModeOutliner, ModeTimeline, ModeMatrix, ModeConflicts:
		return true
	}
	return false
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeEditor || m.Aggregate()
}

// Pane is one viewport cursor. An empty SelectedItemID means nothing is selected.
type Pane struct {
	ProjectID      string `json:"projectId" yaml:"projectId"`
	SelectedItemID string `json:"selectedItemId,omitempty" yaml:"selectedItemId,omitempty"`
	Mode           Mode   `json:"mode" yaml:"mode"`
}

// Layout is the full viewport state of one session.
type Layout struct {
	Primary   Pane   `json:"primary" yaml:"primary"`
	Secondary Pane   `json:"secondary" yaml:"secondary"`
	Split     bool   `json:"split" yaml:"split"`
	Focused   PaneID `json:"focused" yaml:"focused"`
}

// Pane returns the state of the named pane.
func (l *Layout) Pane(id PaneID) Pane {
	if id == PaneSecondary {
		return l.Secondary
	}
	return l.Primary
}

// PaneView is what a pane resolves to against its own project's content.
type PaneView struct {
	Pane    PaneID   `json:"pane" yaml:"pane"`
	State   Pane     `json:"state" yaml:"state"`
	Project *Project `json:"project,omitempty" yaml:"project,omitempty"`
	Item    *Item    `json:"item,omitempty" yaml:"item,omitempty"`
	Threads []Thread `json:"threads" yaml:"threads"`
	Notes   []Note   `json:"notes" yaml:"notes"`
}
