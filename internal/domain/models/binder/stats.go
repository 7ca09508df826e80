package binder

// DocumentStats is the word count of one document.
type DocumentStats struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Words int    `json:"words" yaml:"words"`
}

// ProjectStats summarizes a project's manuscript.
type ProjectStats struct {
	Documents  int             `json:"documents" yaml:"documents"`
	Containers int             `json:"containers" yaml:"containers"`
	Words      int             `json:"words" yaml:"words"`
	PerDoc     []DocumentStats `json:"perDocument" yaml:"perDocument"`
}
