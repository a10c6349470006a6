package host

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Linnore/PyTeach/internal/bus"
	"github.com/Linnore/PyTeach/internal/teach"
	"github.com/Linnore/PyTeach/pkg/protocol"
)

type emission struct {
	event string
	data  any
}

type fakeEmitter struct {
	emissions []emission
	err       error
}

func (f *fakeEmitter) Emit(event string, data any) error {
	f.emissions = append(f.emissions, emission{event: event, data: data})
	return f.err
}

func collectIframe(b *bus.Bus) *[]protocol.Envelope {
	var got []protocol.Envelope
	b.Subscribe(protocol.TypeHostToIframe, func(env protocol.Envelope) {
		got = append(got, env)
	})
	return &got
}

func TestPanel_CommandEmission(t *testing.T) {
	b := bus.New()
	got := collectIframe(b)
	p := New(b, nil, "host1", nil, nil)

	p.ChangeTheme()
	p.Debug()
	p.Explain()
	p.Comment()
	p.GetActiveCellContent()
	p.GetContentsAllCells()

	want := []string{
		protocol.TaskChangeTheme,
		protocol.TaskDebug,
		protocol.TaskExplain,
		protocol.TaskComment,
		protocol.TaskGetActiveCellContent,
		protocol.TaskGetContentsAllCells,
	}
	if len(*got) != len(want) {
		t.Fatalf("Expected %d commands, got %d", len(want), len(*got))
	}
	for i, task := range want {
		if (*got)[i].Task != task {
			t.Errorf("Command %d: expected %s, got %s", i, task, (*got)[i].Task)
		}
		if (*got)[i].TargetID != "" {
			t.Errorf("Local commands carry no target, got %q", (*got)[i].TargetID)
		}
	}
}

func TestPanel_TeachDrivesSequencer(t *testing.T) {
	b := bus.New()
	got := collectIframe(b)
	seq := teach.NewSequencer(b, "chapter1/chapter1.ipynb", [][]int{{0, 1}})
	p := New(b, nil, "host1", seq, nil)

	if err := p.Teach(); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	if len(*got) != 1 || (*got)[0].Task != protocol.TaskExtractAndSaveCell {
		t.Fatalf("Expected an extraction command, got %v", *got)
	}

	if err := p.Teach(); !errors.Is(err, teach.ErrSequenceExhausted) {
		t.Errorf("Expected ErrSequenceExhausted, got %v", err)
	}
}

func TestPanel_TeachWithoutSequencer(t *testing.T) {
	p := New(bus.New(), nil, "host1", nil, nil)
	if err := p.Teach(); !errors.Is(err, ErrNoSequencer) {
		t.Errorf("Expected ErrNoSequencer, got %v", err)
	}
}

func deliver(t *testing.T, p *Panel, env protocol.Envelope) {
	t.Helper()
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	p.HandleSocketData(data)
}

func TestPanel_RemoteCommandTranslation(t *testing.T) {
	b := bus.New()
	got := collectIframe(b)
	p := New(b, nil, "host1", nil, nil)

	remote := protocol.Envelope{
		Type:       protocol.TypeSocketToHost,
		Task:       protocol.TaskWriteContentToCell,
		SourceType: protocol.SourceTypeAS,
		SourceID:   "7",
	}
	remote.Set("newContent", "print('remote')")
	deliver(t, p, remote)

	if len(*got) != 1 {
		t.Fatalf("Expected 1 iframe command, got %d", len(*got))
	}
	cmd := (*got)[0]
	if cmd.Task != protocol.TaskWriteContentToCell {
		t.Errorf("Unexpected task %s", cmd.Task)
	}
	if cmd.TargetID != "AS7" {
		t.Errorf("target_id must be the sender's derived room, got %q", cmd.TargetID)
	}
	if cmd.GetString("newContent") != "print('remote')" {
		t.Errorf("newContent must pass through, got %q", cmd.GetString("newContent"))
	}
}

func TestPanel_RemoteUnknownTaskIgnored(t *testing.T) {
	b := bus.New()
	got := collectIframe(b)
	p := New(b, nil, "host1", nil, nil)

	deliver(t, p, protocol.Envelope{
		Type:       protocol.TypeSocketToHost,
		Task:       "formatDisk",
		SourceType: protocol.SourceTypeAS,
		SourceID:   "7",
	})

	if len(*got) != 0 {
		t.Errorf("Unknown remote tasks must not reach the iframe, got %v", *got)
	}
}

func TestPanel_RemoteBadSourceDropped(t *testing.T) {
	b := bus.New()
	got := collectIframe(b)
	p := New(b, nil, "host1", nil, nil)

	deliver(t, p, protocol.Envelope{
		Type:       protocol.TypeSocketToHost,
		Task:       protocol.TaskChangeTheme,
		SourceType: "ADMIN",
		SourceID:   "1",
	})

	if len(*got) != 0 {
		t.Errorf("Commands with unknown source types must be dropped, got %v", *got)
	}
}

func TestPanel_RepublishThemeReply(t *testing.T) {
	b := bus.New()
	socket := &fakeEmitter{}
	New(b, socket, "host1", nil, nil)

	reply := protocol.Envelope{
		Type:     protocol.TypeIframeToHost,
		Task:     protocol.TaskNotifyThemeChanged,
		TargetID: "AS7",
	}
	reply.Set("theme", "JupyterLab Dark")
	b.Publish(reply)

	if len(socket.emissions) != 1 {
		t.Fatalf("Expected 1 emission, got %d", len(socket.emissions))
	}
	if socket.emissions[0].event != protocol.EventFromHostToSocket {
		t.Errorf("Unexpected event %s", socket.emissions[0].event)
	}
	out, ok := socket.emissions[0].data.(protocol.Envelope)
	if !ok {
		t.Fatalf("Expected an envelope payload, got %T", socket.emissions[0].data)
	}
	if out.TargetID != "AS7" {
		t.Errorf("Republishing must echo target_id, got %q", out.TargetID)
	}
	if out.SourceType != protocol.SourceTypeHOST || out.SourceID != "host1" {
		t.Errorf("Host identity must be merged, got %s/%s", out.SourceType, out.SourceID)
	}
	if out.GetString("message") != "Theme Changed!" {
		t.Errorf("Unexpected message %q", out.GetString("message"))
	}
	info, ok := out.Get("jupyterlite_info").(protocol.Envelope)
	if !ok {
		t.Fatalf("jupyterlite_info must carry the iframe envelope, got %T", out.Get("jupyterlite_info"))
	}
	if info.GetString("theme") != "JupyterLab Dark" {
		t.Errorf("jupyterlite_info must keep the original payload, got %v", info.Get("theme"))
	}
}

func TestPanel_RepublishAllCellsUsesContentAsMessage(t *testing.T) {
	b := bus.New()
	socket := &fakeEmitter{}
	New(b, socket, "host1", nil, nil)

	reply := protocol.Envelope{
		Type:     protocol.TypeIframeToHost,
		Task:     protocol.TaskGetContentsAllCells,
		TargetID: "AS2",
	}
	reply.Set("AllCellscontent", []string{"# Title", "a=1"})
	b.Publish(reply)

	if len(socket.emissions) != 1 {
		t.Fatalf("Expected 1 emission, got %d", len(socket.emissions))
	}
	out := socket.emissions[0].data.(protocol.Envelope)
	contents, ok := out.Get("message").([]string)
	if !ok || len(contents) != 2 {
		t.Errorf("Expected the cell contents as the message, got %v", out.Get("message"))
	}
}

func TestPanel_RepublishSkipsUnlistedTasks(t *testing.T) {
	b := bus.New()
	socket := &fakeEmitter{}
	New(b, socket, "host1", nil, nil)

	b.Publish(protocol.Envelope{Type: protocol.TypeIframeToHost, Task: "progressUpdate"})

	if len(socket.emissions) != 0 {
		t.Errorf("Unlisted reply tasks must not hit the socket, got %v", socket.emissions)
	}
}

func TestPanel_RepublishWithoutSocket(t *testing.T) {
	b := bus.New()
	New(b, nil, "host1", nil, nil)

	// Must not panic.
	b.Publish(protocol.Envelope{Type: protocol.TypeIframeToHost, Task: protocol.TaskNotifyThemeChanged})
}
