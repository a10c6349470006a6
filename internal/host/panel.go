// Package host runs the control panel context: it emits commands into
// the notebook iframe, republishes iframe replies to the relay socket,
// and translates relay-delivered remote commands into iframe commands.
package host

import (
	"encoding/json"
	"log"

	"github.com/Linnore/PyTeach/internal/bus"
	"github.com/Linnore/PyTeach/internal/relay"
	"github.com/Linnore/PyTeach/internal/teach"
	"github.com/Linnore/PyTeach/pkg/protocol"
)

// Emitter is the socket surface the panel emits through.
type Emitter interface {
	Emit(event string, data any) error
}

// Panel glues the page bus to the relay socket for one host page.
type Panel struct {
	bus      *bus.Bus
	socket   Emitter
	sourceID string
	seq      *teach.Sequencer
	pager    *Pager
}

// New wires a panel onto its page bus. socket may be nil when the page
// runs without a relay connection; seq and pager may be nil when the
// lecture features are unused.
func New(b *bus.Bus, socket Emitter, sourceID string, seq *teach.Sequencer, pager *Pager) *Panel {
	p := &Panel{bus: b, socket: socket, sourceID: sourceID, seq: seq, pager: pager}
	b.Subscribe(protocol.TypeIframeToHost, p.republish)
	return p
}

// Attach subscribes the panel to relay deliveries on an established
// socket client.
func (p *Panel) Attach(c *relay.Client) {
	c.On(protocol.EventFromSocketToHost, p.HandleSocketData)
}

// command publishes a host-to-iframe envelope with no remote target.
func (p *Panel) command(task string) {
	p.bus.Publish(protocol.Envelope{Type: protocol.TypeHostToIframe, Task: task})
}

// ChangeTheme asks the iframe to toggle the editor theme.
func (p *Panel) ChangeTheme() { p.command(protocol.TaskChangeTheme) }

// Debug triggers the chat panel's debug flow for the active cell.
func (p *Panel) Debug() { p.command(protocol.TaskDebug) }

// Explain triggers the chat panel's explain flow for the active cell.
func (p *Panel) Explain() { p.command(protocol.TaskExplain) }

// Comment triggers the chat panel's comment flow for the active cell.
func (p *Panel) Comment() { p.command(protocol.TaskComment) }

// GetActiveCellContent asks the iframe for the active cell's content.
func (p *Panel) GetActiveCellContent() { p.command(protocol.TaskGetActiveCellContent) }

// GetContentsAllCells asks the iframe for every cell's content.
func (p *Panel) GetContentsAllCells() { p.command(protocol.TaskGetContentsAllCells) }

// Teach dispatches the next lecture group through the sequencer.
func (p *Panel) Teach() error {
	if p.seq == nil {
		return ErrNoSequencer
	}
	return p.seq.Invoke()
}

// Pager exposes the notebook paging state, or nil when unconfigured.
func (p *Panel) Pager() *Pager {
	return p.pager
}

// remoteTasks are the commands a relay-delivered envelope may carry
// into the iframe.
var remoteTasks = map[string]bool{
	protocol.TaskChangeTheme:          true,
	protocol.TaskGetActiveCellContent: true,
	protocol.TaskGetContentsAllCells:  true,
	protocol.TaskWriteContentToCell:   true,
}

// HandleSocketData translates one relay delivery into an iframe
// command. The remote sender's derived room id becomes the target_id so
// the eventual reply can be routed back.
func (p *Panel) HandleSocketData(data json.RawMessage) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("host: malformed socket delivery: %v", err)
		return
	}

	if !remoteTasks[env.Task] {
		log.Printf("host: unknown remote task %q ignored", env.Task)
		return
	}

	target, err := protocol.RoomID(env.SourceType, env.SourceID)
	if err != nil {
		log.Printf("host: remote command with bad source identity dropped: %v", err)
		return
	}

	out := protocol.Envelope{Type: protocol.TypeHostToIframe, Task: env.Task, TargetID: target}
	if content := env.GetString("newContent"); content != "" {
		out.Set("newContent", content)
	}
	p.bus.Publish(out)
}

// replyMessages are the human-readable summaries attached when a reply
// is republished to the socket.
var replyMessages = map[string]string{
	protocol.TaskNotifyThemeChanged:   "Theme Changed!",
	protocol.TaskGetActiveCellContent: "Retrieved active cell content.",
	protocol.TaskWriteContentToCell:   "Successfully write content to a new cell.",
}

// republish forwards an iframe reply to the relay. The host identity is
// merged in, the full iframe payload rides along under jupyterlite_info,
// and the target_id is echoed so the relay can route the one-shot
// delivery.
func (p *Panel) republish(env protocol.Envelope) {
	if p.socket == nil {
		return
	}

	var message any
	switch env.Task {
	case protocol.TaskNotifyThemeChanged, protocol.TaskGetActiveCellContent, protocol.TaskWriteContentToCell:
		message = replyMessages[env.Task]
	case protocol.TaskGetContentsAllCells:
		message = env.Get("AllCellscontent")
	default:
		log.Printf("host: reply task %q not republished", env.Task)
		return
	}

	out := protocol.Envelope{
		Type:       protocol.TypeHostToSocket,
		Task:       env.Task,
		TargetID:   env.TargetID,
		SourceType: protocol.SourceTypeHOST,
		SourceID:   p.sourceID,
	}
	out.Set("message", message)
	out.Set("jupyterlite_info", env)

	if err := p.socket.Emit(protocol.EventFromHostToSocket, out); err != nil {
		log.Printf("host: republish of %s failed: %v", env.Task, err)
	}
}
