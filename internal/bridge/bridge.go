// Package bridge runs inside the notebook context: it dispatches
// host-addressed commands against the live notebook collaborators and
// emits result and notification envelopes back toward the host and the
// chat panel.
package bridge

import (
	"log"

	"github.com/Linnore/PyTeach/internal/bus"
	"github.com/Linnore/PyTeach/pkg/interfaces"
	"github.com/Linnore/PyTeach/pkg/notebook"
	"github.com/Linnore/PyTeach/pkg/protocol"
)

// Bridge subscribes to from-host-to-iframe traffic on its page bus and
// tolerates co-residence with unrelated message types.
type Bridge struct {
	bus     *bus.Bus
	editor  interfaces.Editor
	themes  interfaces.ThemeManager
	reader  interfaces.ContentReader
	speaker interfaces.Speaker
}

// New wires the bridge onto the bus. speaker may be nil when no
// text-to-speech collaborator is deployed.
func New(b *bus.Bus, editor interfaces.Editor, themes interfaces.ThemeManager, reader interfaces.ContentReader, speaker interfaces.Speaker) *Bridge {
	br := &Bridge{bus: b, editor: editor, themes: themes, reader: reader, speaker: speaker}
	b.Subscribe(protocol.TypeHostToIframe, br.handle)
	return br
}

func (br *Bridge) handle(env protocol.Envelope) {
	var err error
	switch env.Task {
	case protocol.TaskChangeTheme:
		err = br.changeTheme(env)
	case protocol.TaskGetActiveCellContent:
		err = br.getActiveCellContent(env)
	case protocol.TaskGetContentsAllCells:
		err = br.getContentsAllCells(env)
	case protocol.TaskWriteContentToCell:
		err = br.writeContentToCell(env)
	case protocol.TaskExtractAndSaveCell:
		err = br.extractAndSaveCell(env)
	case protocol.TaskDebug, protocol.TaskExplain, protocol.TaskComment:
		// Fire-and-forget UI triggers for the chat panel; no host reply.
		br.bus.Publish(protocol.Envelope{Type: protocol.TypeIframeToChat, Task: env.Task})
	default:
		// Unknown tasks are logged and ignored so host and iframe
		// versions can drift.
		log.Printf("bridge: unknown task %q ignored", env.Task)
	}

	if err != nil {
		// Failures never produce a success reply; the host treats the
		// missing reply as an implicit failure. The reply-error
		// envelope is additive for collaborators that understand it.
		log.Printf("bridge: task %s failed: %v", env.Task, err)
		br.bus.Publish(protocol.NewReplyError(env.TargetID, env.Task, err.Error()))
	}
}

// reply posts an iframe-to-host envelope echoing the request target_id.
func (br *Bridge) reply(env protocol.Envelope, task string, fields map[string]any) {
	out := protocol.Envelope{Type: protocol.TypeIframeToHost, Task: task, TargetID: env.TargetID}
	for k, v := range fields {
		out.Set(k, v)
	}
	br.bus.Publish(out)
}

// changeTheme toggles between the dark and light editor themes and
// notifies the host of the resulting theme.
func (br *Bridge) changeTheme(env protocol.Envelope) error {
	if br.themes.Theme() == interfaces.ThemeDark {
		br.themes.SetTheme(interfaces.ThemeLight)
	} else {
		br.themes.SetTheme(interfaces.ThemeDark)
	}

	br.reply(env, protocol.TaskNotifyThemeChanged, map[string]any{
		"theme": br.themes.Theme(),
	})
	return nil
}

func (br *Bridge) getActiveCellContent(env protocol.Envelope) error {
	cell, err := br.editor.ActiveCell()
	if err != nil {
		return err
	}

	br.reply(env, protocol.TaskGetActiveCellContent, map[string]any{
		"ActiveCellContent": string(cell.Source),
		"ActiveCellType":    string(cell.Type),
	})
	return nil
}

func (br *Bridge) getContentsAllCells(env protocol.Envelope) error {
	contents, err := br.editor.CellContents()
	if err != nil {
		return err
	}

	br.reply(env, protocol.TaskGetContentsAllCells, map[string]any{
		"AllCellscontent": contents,
	})
	return nil
}

// writeContentToCell appends a new code cell holding newContent and
// runs it.
func (br *Bridge) writeContentToCell(env protocol.Envelope) error {
	if err := br.editor.InsertBelow(); err != nil {
		return err
	}
	if err := br.editor.SetSource(env.GetString("newContent")); err != nil {
		return err
	}
	if err := br.editor.ChangeCellType(notebook.Code); err != nil {
		return err
	}
	if err := br.editor.Run(); err != nil {
		return err
	}

	br.reply(env, protocol.TaskWriteContentToCell, nil)
	return nil
}
