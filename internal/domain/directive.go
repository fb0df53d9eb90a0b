package domain

// GatherSpec asks the provider to collect one caller answer.
type GatherSpec struct {
	// For names the event the collected answer should come back as. The
	// telephony adapter maps this to the provider callback route.
	For        EventType
	Mode       string // "dtmf", "speech" or "speech dtmf"
	TimeoutSec int
	MaxDigits  int // 0 = unbounded
}

// RecordSpec asks the provider to capture free-form audio.
type RecordSpec struct {
	MaxLengthSec int
	FinishOnKey  string
	TrimSilence  bool
}

// Directive is the declarative outcome of handling one event: what the
// provider should say and collect next, or a terminal instruction. Exactly
// one of Gather/Record/Hangup/TransferTo/Ack applies; Prompt accompanies any
// of them.
type Directive struct {
	Prompt      string
	Gather      *GatherSpec
	Record      *RecordSpec
	Hangup      bool
	TransferTo  string // operator handoff number; may be empty when unconfigured
	Transfer    bool
	Ack         bool   // acknowledge only, no voice instruction
	ComplaintID string // set when finalization assigned (or replayed) an ID
}
