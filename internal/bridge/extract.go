package bridge

import (
	"context"
	"fmt"
	"log"

	"github.com/Linnore/PyTeach/pkg/notebook"
	"github.com/Linnore/PyTeach/pkg/protocol"
)

// extractAndSaveCell copies the requested source-notebook cells, in
// order, to the end of the active notebook, then routes the accumulated
// text to the chat panel (and optionally to speech).
//
// Cell insertions are strictly sequential: each step mutates the
// "currently active cell" state the next step depends on.
func (br *Bridge) extractAndSaveCell(env protocol.Envelope) error {
	req, err := protocol.ExtractRequestFrom(env)
	if err != nil {
		return err
	}

	doc, err := br.reader.Read(req.SourceFile)
	if err != nil {
		return err
	}

	// Validate every index up front: one bad index aborts the whole
	// call before any notebook mutation. No partial success.
	for _, idx := range req.CellIndexArray {
		if idx < 0 || idx >= len(doc.Cells) {
			return fmt.Errorf("%w: %d not in [0,%d)", ErrCellIndexOutOfRange, idx, len(doc.Cells))
		}
	}

	teach := "#"
	for _, idx := range req.CellIndexArray {
		cell := doc.Cells[idx]

		if err := br.editor.ActivateLast(); err != nil {
			return err
		}
		if err := br.editor.InsertBelow(); err != nil {
			return err
		}

		active, err := br.editor.ActiveCell()
		if err != nil {
			return err
		}
		if cell.Type != active.Type {
			if err := br.editor.ChangeCellType(cell.Type); err != nil {
				return err
			}
		}
		if err := br.editor.SetSource(string(cell.Source)); err != nil {
			return err
		}

		switch cell.Type {
		case notebook.Markdown:
			teach += string(cell.Source) + "\n"
		case notebook.Code:
			teach += "'''python\n" + string(cell.Source) + "\n'''"
		}

		if cell.Attachments != nil {
			active, err = br.editor.ActiveCell()
			if err != nil {
				return err
			}
			if active.Type == notebook.Markdown {
				if err := br.editor.SetAttachments(cell.Attachments); err != nil {
					return err
				}
			} else {
				// Mismatched attachment/type combinations are skipped,
				// not fatal.
				log.Printf("bridge: cell %d has attachments but the destination cell is not markdown; skipped", idx)
			}
		}

		// Markdown renders immediately so the content displays.
		if cell.Type == notebook.Markdown {
			if err := br.editor.Run(); err != nil {
				return err
			}
		}
	}

	if req.PlaySound && br.speaker != nil {
		// Speech is best effort and never blocks the teach event.
		if err := br.speaker.Speak(context.Background(), teach); err != nil {
			log.Printf("bridge: speech synthesis failed: %v", err)
		}
	}

	out := protocol.Envelope{Type: protocol.TypeIframeToChat, Task: protocol.TaskTeach}
	out.Set("content", teach)
	br.bus.Publish(out)
	return nil
}
