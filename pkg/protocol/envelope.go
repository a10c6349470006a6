package protocol

import "encoding/json"

// Envelope is the unit of cross-context communication. The wire format
// is a flat JSON object: the routing fields below plus task-specific
// fields at the top level (message, newContent, AllCellscontent,
// ActiveCellContent, theme, content, ...), which live in Fields with
// their exact wire names.
//
// Every request that expects a reply carries a target_id; every reply
// copies that target_id unchanged so the original requester can be
// matched.
type Envelope struct {
	Type       Type
	Task       string
	TargetID   string
	SourceType string
	SourceID   string
	Fields     map[string]any
}

// routing field names reserved on the wire.
const (
	fieldType       = "type"
	fieldTask       = "task"
	fieldTargetID   = "target_id"
	fieldSourceType = "source_type"
	fieldSourceID   = "source_id"
)

// Set stores a task-specific payload field under its wire name.
func (e *Envelope) Set(key string, value any) {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
}

// Get returns a task-specific payload field, or nil when absent.
func (e *Envelope) Get(key string) any {
	return e.Fields[key]
}

// GetString returns a payload field as a string, or "" when the field
// is absent or not a string.
func (e *Envelope) GetString(key string) string {
	s, _ := e.Fields[key].(string)
	return s
}

// MarshalJSON flattens routing fields and payload fields into a single
// top-level object.
func (e Envelope) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(e.Fields)+5)
	for k, v := range e.Fields {
		obj[k] = v
	}
	obj[fieldType] = string(e.Type)
	if e.Task != "" {
		obj[fieldTask] = e.Task
	}
	if e.TargetID != "" {
		obj[fieldTargetID] = e.TargetID
	}
	if e.SourceType != "" {
		obj[fieldSourceType] = e.SourceType
	}
	if e.SourceID != "" {
		obj[fieldSourceID] = e.SourceID
	}
	return json.Marshal(obj)
}

// UnmarshalJSON splits a flat wire object back into routing fields and
// payload fields.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if t, ok := obj[fieldType].(string); ok {
		e.Type = Type(t)
	}
	if task, ok := obj[fieldTask].(string); ok {
		e.Task = task
	}
	if id, ok := obj[fieldTargetID].(string); ok {
		e.TargetID = id
	}
	if st, ok := obj[fieldSourceType].(string); ok {
		e.SourceType = st
	}
	if sid, ok := obj[fieldSourceID].(string); ok {
		e.SourceID = sid
	}
	delete(obj, fieldType)
	delete(obj, fieldTask)
	delete(obj, fieldTargetID)
	delete(obj, fieldSourceType)
	delete(obj, fieldSourceID)
	if len(obj) > 0 {
		e.Fields = obj
	} else {
		e.Fields = nil
	}
	return nil
}

// ExtractRequest is the typed "message" payload of extractAndSaveCell:
// the ordered cell indices to extract, the notebook to read them from,
// and whether the accumulated content should be spoken.
type ExtractRequest struct {
	CellIndexArray []int  `json:"cellIndexArray"`
	SourceFile     string `json:"sourceFile"`
	PlaySound      bool   `json:"playSound"`
}

// ExtractRequestFrom decodes the extractAndSaveCell payload carried in
// an envelope's message field.
func ExtractRequestFrom(e Envelope) (ExtractRequest, error) {
	raw, ok := e.Fields["message"]
	if !ok {
		return ExtractRequest{}, ErrMissingPayload
	}
	// The payload arrives as a generic object after envelope decoding;
	// round-trip through JSON to get the typed form.
	data, err := json.Marshal(raw)
	if err != nil {
		return ExtractRequest{}, err
	}
	var req ExtractRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ExtractRequest{}, err
	}
	return req, nil
}

// NewExtractEnvelope builds the host-to-iframe extraction command.
func NewExtractEnvelope(req ExtractRequest) Envelope {
	env := Envelope{Type: TypeHostToIframe, Task: TaskExtractAndSaveCell}
	env.Set("message", map[string]any{
		"cellIndexArray": req.CellIndexArray,
		"sourceFile":     req.SourceFile,
		"playSound":      req.PlaySound,
	})
	return env
}

// NewReplyError builds an explicit failure envelope. The target_id is
// echoed so a requester that understands it can stop waiting early;
// everyone else falls back to timeout detection.
func NewReplyError(targetID, task, reason string) Envelope {
	env := Envelope{Type: TypeReplyError, Task: task, TargetID: targetID}
	env.Set("reason", reason)
	return env
}
