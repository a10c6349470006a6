// Package notebook defines the ipynb-compatible document model shared by
// the bridge and the notebook collaborators.
package notebook

import "encoding/json"

// CellType is the ipynb cell type.
type CellType string

const (
	Code     CellType = "code"
	Markdown CellType = "markdown"
	Raw      CellType = "raw"
)

// Document is the cells view of a notebook file. Fields outside cells
// (metadata, nbformat) are irrelevant to extraction and are dropped on
// decode.
type Document struct {
	Cells []Cell `json:"cells"`
}

// Cell is one notebook cell. Attachments are opaque to this module and
// are only ever copied wholesale into markdown cells.
type Cell struct {
	Type        CellType       `json:"cell_type"`
	Source      Source         `json:"source"`
	Attachments map[string]any `json:"attachments,omitempty"`
}

// Source is a cell's text. On the wire ipynb stores it either as one
// string or as an array of line strings; both decode to the joined
// text.
type Source string

func (s *Source) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = Source(single)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	joined := ""
	for _, line := range lines {
		joined += line
	}
	*s = Source(joined)
	return nil
}

func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}
