package notebook

import (
	"sync"

	"github.com/Linnore/PyTeach/pkg/interfaces"
	pkgnotebook "github.com/Linnore/PyTeach/pkg/notebook"
)

// Workspace is an in-memory active notebook plus theme state. It stands
// in for the live notebook frontend: the bridge drives it through the
// Editor and ThemeManager interfaces, and independent tasks may move
// its focus at any time.
type Workspace struct {
	mu     sync.Mutex
	cells  []pkgnotebook.Cell
	active int
	theme  string
	runs   []int
}

// NewWorkspace starts with the given cells (the learning notebook's
// initial content); the last cell is active, matching a freshly opened
// notebook.
func NewWorkspace(cells []pkgnotebook.Cell) *Workspace {
	return &Workspace{
		cells:  append([]pkgnotebook.Cell(nil), cells...),
		active: len(cells) - 1,
		theme:  interfaces.ThemeLight,
	}
}

func (w *Workspace) ActivateLast() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.cells) == 0 {
		return interfaces.ErrNoActiveCell
	}
	w.active = len(w.cells) - 1
	return nil
}

// InsertBelow inserts a new code cell below the active one and focuses
// it. Code is the frontend's default type for inserted cells.
func (w *Workspace) InsertBelow() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cell := pkgnotebook.Cell{Type: pkgnotebook.Code}
	if len(w.cells) == 0 {
		w.cells = []pkgnotebook.Cell{cell}
		w.active = 0
		return nil
	}

	at := w.active + 1
	w.cells = append(w.cells[:at:at], append([]pkgnotebook.Cell{cell}, w.cells[at:]...)...)
	w.active = at
	return nil
}

func (w *Workspace) SetSource(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active < 0 || w.active >= len(w.cells) {
		return interfaces.ErrNoActiveCell
	}
	w.cells[w.active].Source = pkgnotebook.Source(text)
	return nil
}

func (w *Workspace) ChangeCellType(t pkgnotebook.CellType) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active < 0 || w.active >= len(w.cells) {
		return interfaces.ErrNoActiveCell
	}
	w.cells[w.active].Type = t
	return nil
}

func (w *Workspace) SetAttachments(attachments map[string]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active < 0 || w.active >= len(w.cells) {
		return interfaces.ErrNoActiveCell
	}
	w.cells[w.active].Attachments = attachments
	return nil
}

// Run records an execution of the active cell. The in-memory workspace
// has no kernel; for markdown cells this models the render pass.
func (w *Workspace) Run() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active < 0 || w.active >= len(w.cells) {
		return interfaces.ErrNoActiveCell
	}
	w.runs = append(w.runs, w.active)
	return nil
}

func (w *Workspace) ActiveCell() (pkgnotebook.Cell, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active < 0 || w.active >= len(w.cells) {
		return pkgnotebook.Cell{}, interfaces.ErrNoActiveCell
	}
	return w.cells[w.active], nil
}

func (w *Workspace) CellContents() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	contents := make([]string, len(w.cells))
	for i, cell := range w.cells {
		contents[i] = string(cell.Source)
	}
	return contents, nil
}

func (w *Workspace) Theme() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.theme
}

func (w *Workspace) SetTheme(theme string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.theme = theme
}

// Cells returns a snapshot of the notebook for assertions.
func (w *Workspace) Cells() []pkgnotebook.Cell {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]pkgnotebook.Cell(nil), w.cells...)
}

// Runs returns the indices of cells executed so far, in order.
func (w *Workspace) Runs() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int(nil), w.runs...)
}
