package domain

// EventType names an inbound telephony webhook event.
type EventType string

const (
	EventCallStarted       EventType = "call-started"
	EventBatchCaptured     EventType = "batch-captured"
	EventNameCaptured      EventType = "name-captured"
	EventTypeCaptured      EventType = "type-captured"
	EventRecordingStatus   EventType = "recording-status"
	EventRecordingFinished EventType = "recording-finished"
	EventConfirmKeypress   EventType = "confirm-keypress"
	EventCallStatus        EventType = "call-status-update"
)

// Event is one inbound webhook delivery, abstracted from the provider's wire
// format. Events are independent and correlated only by CallID; the provider
// may deliver duplicates or reorder them.
type Event struct {
	Type         EventType
	CallID       string
	From         string // caller number, present on call-started
	Input        string // speech transcript or digit string for gathering states
	Digit        string // single keypress when the provider separates it from speech
	RecordingRef string
	CallStatus   string
}

// Provider call lifecycle statuses after which no further caller interaction
// is possible.
const (
	CallStatusQueued     = "queued"
	CallStatusRinging    = "ringing"
	CallStatusInProgress = "in-progress"
	CallStatusCompleted  = "completed"
	CallStatusBusy       = "busy"
	CallStatusFailed     = "failed"
	CallStatusNoAnswer   = "no-answer"
	CallStatusCanceled   = "canceled"
)

// TerminalCallStatus reports whether status marks the end of the call.
func TerminalCallStatus(status string) bool {
	switch status {
	case CallStatusCompleted, CallStatusBusy, CallStatusFailed, CallStatusNoAnswer, CallStatusCanceled:
		return true
	default:
		return false
	}
}
