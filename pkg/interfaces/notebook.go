package interfaces

import "github.com/Linnore/PyTeach/pkg/notebook"

// ContentReader loads a notebook document by path. Backed by the
// notebook content service in production; tests use in-memory readers.
type ContentReader interface {
	Read(path string) (*notebook.Document, error)
}

// Editor exposes the active-notebook mutation primitives the bridge
// drives. Implementations wrap the live notebook; this module ships an
// in-memory workspace for embedding and tests.
//
// All mutating calls act on the currently active cell, which previous
// calls may have moved — callers must not assume exclusive access to
// focus state across independent tasks.
type Editor interface {
	// ActivateLast moves focus to the last cell of the active notebook.
	ActivateLast() error
	// InsertBelow inserts a new cell below the active cell and focuses it.
	InsertBelow() error
	// SetSource replaces the active cell's source text.
	SetSource(text string) error
	// ChangeCellType coerces the active cell to the given type.
	ChangeCellType(t notebook.CellType) error
	// SetAttachments copies attachments into the active cell.
	SetAttachments(attachments map[string]any) error
	// Run executes the active cell (renders it when markdown).
	Run() error
	// ActiveCell returns a snapshot of the active cell.
	ActiveCell() (notebook.Cell, error)
	// CellContents returns the source of every cell in order.
	CellContents() ([]string, error)
}

// Theme names used by the notebook frontend.
const (
	ThemeDark  = "JupyterLab Dark"
	ThemeLight = "JupyterLab Light"
)

// ThemeManager controls the notebook editor theme.
type ThemeManager interface {
	Theme() string
	SetTheme(theme string)
}
