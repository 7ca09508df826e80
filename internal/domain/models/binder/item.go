package binder

import "time"

// Kind tags which payload an Item carries.
type Kind string

const (
	KindContainer Kind = "container"
	KindDocument  Kind = "document"
)

// Tree is an ordered sequence of top-level items. Trees are treated as
// immutable values: operations return a new Tree and never modify nodes in
// place, so unchanged subtrees can be shared between versions.
type Tree []*Item

// Item is a node in the binder. Exactly one of Container or Document is set,
// matching Kind. Use NewContainer / NewDocument to build well-formed items.
type Item struct {
	ID           string     `json:"id" yaml:"id"`
	Kind         Kind       `json:"kind" yaml:"kind"`
	Title        string     `json:"title" yaml:"title"`
	IsBookmarked bool       `json:"isBookmarked,omitempty" yaml:"isBookmarked,omitempty"`
	Container    *Container `json:"container,omitempty" yaml:"container,omitempty"`
	Document     *Document  `json:"document,omitempty" yaml:"document,omitempty"`
}

// Container is the folder payload. Only containers own children.
type Container struct {
	Children   Tree `json:"children,omitempty" yaml:"children,omitempty"`
	IsExpanded bool `json:"isExpanded,omitempty" yaml:"isExpanded,omitempty"`
}

// Document is the leaf payload carrying manuscript content and scene metadata.
type Document struct {
	Body         string            `json:"body,omitempty" yaml:"body,omitempty"`
	Snapshots    []Snapshot        `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
	Schedule     *Schedule         `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	ThreadNotes  map[string]string `json:"threadNotes,omitempty" yaml:"threadNotes,omitempty"` // thread id -> annotation
	Participants []Participant     `json:"participants,omitempty" yaml:"participants,omitempty"`
	Setting      *Setting          `json:"setting,omitempty" yaml:"setting,omitempty"`
	Mechanics    *SceneMechanics   `json:"mechanics,omitempty" yaml:"mechanics,omitempty"`
	Notes        []Note            `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Snapshot is a saved copy of a document body.
type Snapshot struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Body      string    `json:"body" yaml:"body"`
}

// Schedule places a scene on the story timeline.
type Schedule struct {
	Start           time.Time `json:"start" yaml:"start"`
	DurationMinutes int       `json:"durationMinutes,omitempty" yaml:"durationMinutes,omitempty"`
}

// Role is a participant's function in a scene.
type Role string

const (
	RoleUnspecified  Role = ""
	RoleProtagonist  Role = "protagonist"
	RoleAntagonist   Role = "antagonist"
	RoleSupporting   Role = "supporting"
	RoleMentor       Role = "mentor"
	RoleLoveInterest Role = "love-interest"
	RoleMinor        Role = "minor"
)

// Roles lists the accepted participant roles.
var Roles = []Role{RoleProtagonist, RoleAntagonist, RoleSupporting, RoleMentor, RoleLoveInterest, RoleMinor}

// Valid reports whether r is unspecified or one of Roles.
func (r Role) Valid() bool {
	if r == RoleUnspecified {
		return true
	}
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Participant is a character's involvement in one document. Name is the
// cross-reference join key and is compared case-sensitively.
type Participant struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Role       Role   `json:"role,omitempty" yaml:"role,omitempty"`
	Goal       string `json:"goal,omitempty" yaml:"goal,omitempty"`
	Motivation string `json:"motivation,omitempty" yaml:"motivation,omitempty"`
	Obstacle   string `json:"obstacle,omitempty" yaml:"obstacle,omitempty"`
	Climax     string `json:"climax,omitempty" yaml:"climax,omitempty"`
	Outcome    string `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	ArcStart   string `json:"arcStart,omitempty" yaml:"arcStart,omitempty"`
	ArcEnd     string `json:"arcEnd,omitempty" yaml:"arcEnd,omitempty"`
}

// Setting records where and when a scene happens. Time is free text
// ("dawn", "the next morning") used when no Schedule is recorded.
type Setting struct {
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Time     string `json:"time,omitempty" yaml:"time,omitempty"`
	Weather  string `json:"weather,omitempty" yaml:"weather,omitempty"`
	Mood     string `json:"mood,omitempty" yaml:"mood,omitempty"`
	Sensory  string `json:"sensory,omitempty" yaml:"sensory,omitempty"`
}

// SceneMechanics follows the scene/sequel structure.
type SceneMechanics struct {
	Goal     string `json:"goal,omitempty" yaml:"goal,omitempty"`
	Conflict string `json:"conflict,omitempty" yaml:"conflict,omitempty"`
	Disaster string `json:"disaster,omitempty" yaml:"disaster,omitempty"`
	Reaction string `json:"reaction,omitempty" yaml:"reaction,omitempty"`
	Dilemma  string `json:"dilemma,omitempty" yaml:"dilemma,omitempty"`
	Decision string `json:"decision,omitempty" yaml:"decision,omitempty"`
}

// Note is a free-floating note, attached to a document or to a project.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Body      string    `json:"body" yaml:"body"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// NewContainer returns an empty, collapsed container.
func NewContainer(id, title string) *Item {
	return &Item{ID: id, Kind: KindContainer, Title: title, Container: &Container{}}
}

// NewDocument returns an empty document.
func NewDocument(id, title string) *Item {
	return &Item{ID: id, Kind: KindDocument, Title: title, Document: &Document{}}
}

func (it *Item) IsContainer() bool { return it != nil && it.Kind == KindContainer && it.Container != nil }
func (it *Item) IsDocument() bool  { return it != nil && it.Kind == KindDocument && it.Document != nil }

// Children returns the container's children, or nil for documents.
func (it *Item) Children() Tree {
	if !it.IsContainer() {
		return nil
	}
	return it.Container.Children
}

// Clone copies the node and its payload struct. Slices and maps inside the
// payload are still shared with the original and must be replaced, not mutated.
func (it *Item) Clone() *Item {
	cp := *it
	if it.Container != nil {
		c := *it.Container
		cp.Container = &c
	}
	if it.Document != nil {
		d := *it.Document
		cp.Document = &d
	}
	return &cp
}

// DateKey is the normalized key used to bucket a document on the timeline:
// the scheduled start date when present, otherwise the free-text setting time.
// Returns "" when neither is recorded.
func (d *Document) DateKey() string {
	if d == nil {
		return ""
	}
	if d.Schedule != nil && !d.Schedule.Start.IsZero() {
		return d.Schedule.Start.Format(DateKeyLayout)
	}
	if d.Setting != nil {
		return d.Setting.Time
	}
	return ""
}

// Location returns the setting location or "".
func (d *Document) Location() string {
	if d == nil || d.Setting == nil {
		return ""
	}
	return d.Setting.Location
}

// Participant returns the first participant with the given name.
func (d *Document) Participant(name string) (Participant, bool) {
	if d == nil {
		return Participant{}, false
	}
	for _, p := range d.Participants {
		if p.Name == name {
			return p, true
		}
	}
	return Participant{}, false
}

// DateKeyLayout formats scheduled dates into date keys.
const DateKeyLayout = "2006-01-02"
