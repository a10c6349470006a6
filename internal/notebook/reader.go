// Package notebook provides the concrete notebook collaborators: a
// filesystem content reader and an in-memory workspace implementing the
// active-notebook editor used by the bridge.
package notebook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgnotebook "github.com/Linnore/PyTeach/pkg/notebook"
)

// DirReader reads notebook documents from a content root, the way the
// frontend's content service resolves source paths like
// "chapter1/chapter1.ipynb".
type DirReader struct {
	Root string
}

func NewDirReader(root string) *DirReader {
	return &DirReader{Root: root}
}

// Read loads and decodes one notebook document by its content-relative
// path.
func (r *DirReader) Read(path string) (*pkgnotebook.Document, error) {
	if strings.Contains(path, "..") {
		return nil, fmt.Errorf("notebook path %q escapes content root", path)
	}

	data, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("read notebook %s: %w", path, err)
	}

	var doc pkgnotebook.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode notebook %s: %w", path, err)
	}
	return &doc, nil
}
