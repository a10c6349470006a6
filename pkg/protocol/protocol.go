// Package protocol defines the shared message contract between the host
// panel, the notebook iframe bridge, the chat panel, and the relay
// server: envelope types, the task vocabulary, and room addressing.
package protocol

// Type identifies the channel and direction an envelope travels.
type Type string

const (
	// Window-message channel (host page <-> embedded contexts).
	TypeHostToIframe   Type = "from-host-to-iframe"
	TypeIframeToHost   Type = "from-iframe-to-host"
	TypeIframeToChat   Type = "from-iframe-to-chatbot"

	// Socket channel (relay server <-> host pages and AS clients).
	TypeASToSocket   Type = "from_AS_to_socket"
	TypeHostToSocket Type = "from_host_to_socket"
	TypeSocketToHost Type = "from_socket_to_host"
	TypeSocketToAS   Type = "from_socket_to_AS"

	// TypeReplyError is an explicit failure envelope. It is additive:
	// no party is required to understand it, and absence of a reply
	// remains the baseline failure signal.
	TypeReplyError Type = "reply-error"
)

// Task names recognized by every party. A task outside this set must be
// logged and ignored by receivers, never treated as fatal, so host and
// iframe versions can drift.
const (
	TaskChangeTheme          = "changeTheme"
	TaskGetActiveCellContent = "getActiveCellContent"
	TaskGetContentsAllCells  = "getContentsAllCells"
	TaskWriteContentToCell   = "writeContentToCell"
	TaskExtractAndSaveCell   = "extractAndSaveCell"
	TaskDebug                = "debug"
	TaskExplain              = "explain"
	TaskComment              = "comment"
	TaskTeach                = "teach"
	TaskNotifyThemeChanged   = "notifyThemeChanged"
)

// Source types accepted at relay registration.
const (
	SourceTypeAS   = "AS"
	SourceTypeHOST = "HOST"
)

// HostRoom is the room shared by every host page. AS clients get a room
// of their own derived from their source id.
const HostRoom = "HOST"

var knownTasks = map[string]bool{
	TaskChangeTheme:          true,
	TaskGetActiveCellContent: true,
	TaskGetContentsAllCells:  true,
	TaskWriteContentToCell:   true,
	TaskExtractAndSaveCell:   true,
	TaskDebug:                true,
	TaskExplain:              true,
	TaskComment:              true,
	TaskTeach:                true,
	TaskNotifyThemeChanged:   true,
}

// KnownTask reports whether task is part of the fixed vocabulary.
func KnownTask(task string) bool {
	return knownTasks[task]
}

// RoomID derives the relay room identifier for a registering client.
// AS clients occupy one room each ("AS" + source id); all host pages
// share the HOST room. Any other source type is a configuration error
// and must abort registration rather than default to an ambiguous room.
//
// Room identifiers are opaque to the relay; it only uses them as lookup
// keys.
func RoomID(sourceType, sourceID string) (string, error) {
	switch sourceType {
	case SourceTypeAS:
		return sourceType + sourceID, nil
	case SourceTypeHOST:
		return HostRoom, nil
	default:
		return "", ErrUnknownSourceType
	}
}
