package binder

// Dimension is one axis of the cross-reference matrix.
type Dimension string

const (
	DimDocuments  Dimension = "documents"
	DimCharacters Dimension = "characters"
	DimLocations  Dimension = "locations"
	DimDates      Dimension = "dates"
	DimThreads    Dimension = "threads"
)

// Dimensions lists every supported axis.
var Dimensions = []Dimension{DimDocuments, DimCharacters, DimLocations, DimDates, DimThreads}

// Valid reports whether d is a supported axis.
func (d Dimension) Valid() bool {
	for _, known := range Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// CellKind says how a matrix cell should be displayed.
type CellKind string

const (
	CellEmpty      CellKind = "empty"
	CellTitle      CellKind = "title"      // exactly one matching document
	CellCount      CellKind = "count"      // several matching documents
	CellLocation   CellKind = "location"   // dates x characters, one place
	CellConflict   CellKind = "conflict"   // dates x characters, several places
	CellRole       CellKind = "role"       // documents x characters
	CellAnnotation CellKind = "annotation" // documents x threads
)

// Cell is one intersection of the matrix.
type Cell struct {
	X           string   `json:"x" yaml:"x"`
	Y           string   `json:"y" yaml:"y"`
	Kind        CellKind `json:"kind" yaml:"kind"`
	Text        string   `json:"text,omitempty" yaml:"text,omitempty"`
	Count       int      `json:"count,omitempty" yaml:"count,omitempty"`
	Conflict    bool     `json:"conflict,omitempty" yaml:"conflict,omitempty"`
	DocumentIDs []string `json:"documentIds,omitempty" yaml:"documentIds,omitempty"`
}

// Grid is a matrix over two dimensions. Cells[row][col] pairs YLabels[row]
// with XLabels[col].
type Grid struct {
	X       Dimension `json:"x" yaml:"x"`
	Y       Dimension `json:"y" yaml:"y"`
	XLabels []string  `json:"xLabels" yaml:"xLabels"`
	YLabels []string  `json:"yLabels" yaml:"yLabels"`
	Cells   [][]Cell  `json:"cells" yaml:"cells"`
}

// Cell returns the cell at the given labels.
func (g *Grid) Cell(x, y string) (Cell, bool) {
	for r, yl := range g.YLabels {
		if yl != y {
			continue
		}
		for c, xl := range g.XLabels {
			if xl == x {
				return g.Cells[r][c], true
			}
		}
	}
	return Cell{}, false
}

// DocumentRef identifies a document in reports.
type DocumentRef struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Conflict is one participant required in more than one location on the same date key.
type Conflict struct {
	Participant string        `json:"participant" yaml:"participant"`
	DateKey     string        `json:"dateKey" yaml:"dateKey"`
	Locations   []string      `json:"locations" yaml:"locations"`
	Documents   []DocumentRef `json:"documents" yaml:"documents"`
}
