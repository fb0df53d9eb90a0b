package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/intake/internal/domain"
)

// DefaultMaxRetries bounds re-prompt loops before escalating to an operator.
const DefaultMaxRetries = 3

// Publisher receives a copy of every applied transition, for live monitoring.
// Implementations must not block the webhook path on failure.
type Publisher interface {
	CallEvent(ctx context.Context, sess *domain.Session, evType domain.EventType)
}

// Notifier delivers fire-and-forget notifications outside the call. The
// controller invokes it on its own goroutine and never awaits the result.
type Notifier interface {
	ComplaintFiled(ctx context.Context, c *domain.Complaint)
	OperatorEscalated(ctx context.Context, s *domain.Session)
}

// Config carries flow policy knobs.
type Config struct {
	// MaxRetries is the number of re-prompts allowed per gathering state
	// before escalating to StateOperator. Zero means DefaultMaxRetries.
	MaxRetries int
	// Strict rejects non-initial events for unseen call IDs instead of
	// bootstrapping a session at the state the event implies.
	Strict bool
	// OperatorNumber is the transfer target for operator handoff. When empty
	// the transfer directive carries only the notice.
	OperatorNumber string
}

// Controller is the call session state machine. Each inbound webhook event is
// applied inside the session store's per-call critical section; events for
// distinct calls proceed fully in parallel.
type Controller struct {
	sessions   domain.SessionStore
	complaints domain.ComplaintRepository // nil disables persistence
	events     Publisher                  // nil disables monitoring
	notifier   Notifier                   // nil disables notifications
	cfg        Config
	newID      func() string
}

// New creates a Controller. complaints, events and notifier may be nil.
func New(sessions domain.SessionStore, complaints domain.ComplaintRepository, events Publisher, notifier Notifier, cfg Config) *Controller {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Controller{
		sessions:   sessions,
		complaints: complaints,
		events:     events,
		notifier:   notifier,
		cfg:        cfg,
		newID:      NewComplaintID,
	}
}

// Handle applies one inbound event and returns the outbound directive.
// Validation failures are not errors; they surface as re-prompt directives.
// An error return means the event could not be applied at all and the
// provider should retry the delivery.
func (c *Controller) Handle(ctx context.Context, ev domain.Event) (domain.Directive, error) {
	if ev.CallID == "" {
		return domain.Directive{}, fmt.Errorf("flow.Controller.Handle: missing call id: %w", domain.ErrInvalidEvent)
	}

	if c.cfg.Strict && ev.Type != domain.EventCallStarted {
		if _, ok := c.sessions.Get(ev.CallID); !ok {
			return domain.Directive{}, fmt.Errorf("flow.Controller.Handle: call %q: %w", ev.CallID, domain.ErrUnknownCall)
		}
	}

	c.sessions.GetOrCreate(ev.CallID)

	var out outcome
	sess, err := c.sessions.Update(ev.CallID, func(s *domain.Session) {
		out = c.apply(s, ev)
	})
	if err != nil {
		return domain.Directive{}, fmt.Errorf("flow.Controller.Handle: call %q: %w", ev.CallID, err)
	}

	if out.filed != nil {
		c.persist(ctx, out.filed)
		if c.notifier != nil {
			go c.notifier.ComplaintFiled(context.WithoutCancel(ctx), out.filed)
		}
	}
	if out.escalated && c.notifier != nil {
		go c.notifier.OperatorEscalated(context.WithoutCancel(ctx), sess)
	}
	if c.events != nil {
		c.events.CallEvent(ctx, sess, ev.Type)
	}

	return out.directive, nil
}

// outcome bundles everything a single apply produced inside the critical
// section, so side effects run after the session lock is released.
type outcome struct {
	directive domain.Directive
	filed     *domain.Complaint
	escalated bool
}

// apply runs inside the store's per-call critical section and must not block.
func (c *Controller) apply(s *domain.Session, ev domain.Event) outcome {
	// Side-channel updates are state-independent. CallStatus is the only
	// field still mutable after finalization.
	switch ev.Type {
	case domain.EventCallStatus:
		s.CallStatus = ev.CallStatus
		return outcome{directive: domain.Directive{Ack: true}}
	case domain.EventRecordingStatus:
		if !s.Finalized() {
			if ev.RecordingRef != "" {
				s.RecordingRef = ev.RecordingRef
			}
			// Transcript text arrives asynchronously, often well after the
			// flow has moved past the recording state.
			if ev.Input != "" {
				s.Description = ev.Input
			}
		}
		return outcome{directive: domain.Directive{Ack: true}}
	}

	// Finalization replay: the accept event returns the already-assigned ID;
	// every other delivery is a stale duplicate and is acknowledged untouched.
	if s.Finalized() {
		if ev.Type == domain.EventConfirmKeypress {
			return outcome{directive: c.acceptDirective(s)}
		}
		return outcome{directive: domain.Directive{Ack: true}}
	}

	switch ev.Type {
	case domain.EventCallStarted:
		if ev.From != "" {
			s.CallerNumber = ev.From
		}
		return outcome{directive: c.prompt(s)}

	case domain.EventBatchCaptured:
		return c.applyBatch(s, ev)

	case domain.EventNameCaptured:
		name := NormalizeName(coalesce(ev.Input, ev.Digit))
		s.CallerName = name
		if s.State.Order() <= domain.StateGatherName.Order() {
			s.State = domain.StateAskType
			d := c.prompt(s)
			d.Prompt = fmt.Sprintf("Thanks %s. %s", name, d.Prompt)
			return outcome{directive: d}
		}
		return outcome{directive: c.prompt(s)}

	case domain.EventTypeCaptured:
		s.ComplaintType = ResolveType(ev.Digit, ev.Input)
		if s.State.Order() <= domain.StateAskType.Order() {
			s.State = domain.StateRecording
		}
		return outcome{directive: c.prompt(s)}

	case domain.EventRecordingFinished:
		if s.State.Order() <= domain.StateRecordComplete.Order() {
			s.State = domain.StatePlaybackConfirm
		}
		return outcome{directive: c.prompt(s)}

	case domain.EventConfirmKeypress:
		return c.applyConfirm(s, ev)

	default:
		return outcome{directive: c.prompt(s)}
	}
}

// applyBatch validates the batch answer and either advances to the name
// question or re-prompts with a bounded retry budget.
func (c *Controller) applyBatch(s *domain.Session, ev domain.Event) outcome {
	input := coalesce(ev.Input, ev.Digit)

	if batch, ok := ValidBatch(input); ok {
		s.BatchNumber = batch
		if s.State.Order() <= domain.StateGatherBatch.Order() {
			s.State = domain.StateAskName
			d := c.prompt(s)
			d.Prompt = "Batch number confirmed. Thank you. " + d.Prompt
			return outcome{directive: d}
		}
		// Duplicate delivery after the flow moved on: the value is
		// re-applied, the state never regresses.
		return outcome{directive: c.prompt(s)}
	}

	if s.State.Order() > domain.StateGatherBatch.Order() {
		// Stale empty duplicate; ignore rather than burning the retry budget.
		return outcome{directive: c.prompt(s)}
	}

	s.State = domain.StateGatherBatch
	if s.IncrementRetry(domain.StateGatherBatch) > c.cfg.MaxRetries {
		s.State = domain.StateOperator
		return outcome{directive: c.prompt(s), escalated: true}
	}
	return outcome{directive: c.prompt(s)}
}

// applyConfirm handles keypresses for both the playback review and the edit
// menu; the session state disambiguates which menu the digit answers.
func (c *Controller) applyConfirm(s *domain.Session, ev domain.Event) outcome {
	digit := coalesce(ev.Digit, ev.Input)

	switch s.State {
	case domain.StatePlaybackConfirm:
		if digit == "1" {
			s.ComplaintID = c.newID()
			s.State = domain.StateConfirmAccept
			return outcome{directive: c.acceptDirective(s), filed: complaintFromSession(s)}
		}
		s.State = domain.StateConfirmEdit
		return outcome{directive: c.prompt(s)}

	case domain.StateConfirmEdit:
		switch digit {
		case "1":
			s.State = domain.StateRecording
			d := c.prompt(s)
			d.Prompt = "Re-recording now. " + d.Prompt
			return outcome{directive: d}
		case "2":
			s.State = domain.StateAskType
			return outcome{directive: c.prompt(s)}
		case "0":
			s.State = domain.StateOperator
			return outcome{directive: c.prompt(s), escalated: true}
		default:
			s.State = domain.StatePlaybackConfirm
			d := c.prompt(s)
			d.Prompt = "Invalid option. " + d.Prompt
			return outcome{directive: d}
		}

	default:
		// Keypress delivered out of order; re-prompt whatever we were asking.
		return outcome{directive: c.prompt(s)}
	}
}

// prompt produces the entry directive for the session's current state. It is
// also the re-prompt for duplicate or unusable deliveries: same state, same
// question, previously collected fields untouched.
func (c *Controller) prompt(s *domain.Session) domain.Directive {
	switch s.State {
	case domain.StateWelcome:
		return domain.Directive{
			Prompt: "Hello. Welcome to the complaint intake line. This call may be recorded for quality and investigation purposes. " +
				"Please say your batch number after the tone. If you don't know it, say I don't know.",
			Gather: &domain.GatherSpec{For: domain.EventBatchCaptured, Mode: "speech dtmf", TimeoutSec: 5},
		}
	case domain.StateGatherBatch:
		return domain.Directive{
			Prompt: "I could not confirm that batch number. Please repeat the batch number.",
			Gather: &domain.GatherSpec{For: domain.EventBatchCaptured, Mode: "speech dtmf", TimeoutSec: 5},
		}
	case domain.StateAskName, domain.StateGatherName:
		return domain.Directive{
			Prompt: "Please state your full name after the tone.",
			Gather: &domain.GatherSpec{For: domain.EventNameCaptured, Mode: "speech dtmf", TimeoutSec: 5},
		}
	case domain.StateAskType:
		return domain.Directive{
			Prompt: "Select complaint type. Press 1 for Billing, 2 for Service, 3 for Safety, 4 for Harassment, or say it now.",
			Gather: &domain.GatherSpec{For: domain.EventTypeCaptured, Mode: "dtmf speech", TimeoutSec: 5, MaxDigits: 1},
		}
	case domain.StateRecording, domain.StateRecordComplete:
		return domain.Directive{
			Prompt: "Now please describe your complaint in your own words after the beep. When finished press star.",
			Record: &domain.RecordSpec{MaxLengthSec: 300, FinishOnKey: "*", TrimSilence: true},
		}
	case domain.StatePlaybackConfirm:
		return domain.Directive{
			Prompt: Summary(s) + " If this is correct press 1. To edit press 2.",
			Gather: &domain.GatherSpec{For: domain.EventConfirmKeypress, Mode: "dtmf", TimeoutSec: 10, MaxDigits: 1},
		}
	case domain.StateConfirmEdit:
		return domain.Directive{
			Prompt: "Okay. To re-record press 1. To change complaint type press 2. To speak to operator press 0.",
			Gather: &domain.GatherSpec{For: domain.EventConfirmKeypress, Mode: "dtmf", TimeoutSec: 8, MaxDigits: 1},
		}
	case domain.StateConfirmAccept:
		return c.acceptDirective(s)
	case domain.StateOperator:
		return domain.Directive{
			Prompt:     "Transferring to operator.",
			Transfer:   true,
			TransferTo: c.cfg.OperatorNumber,
		}
	default:
		return domain.Directive{Ack: true}
	}
}

// acceptDirective reads back the assigned complaint ID and ends the call.
// Replays return the identical ID.
func (c *Controller) acceptDirective(s *domain.Session) domain.Directive {
	return domain.Directive{
		Prompt:      fmt.Sprintf("Thank you. Your complaint ID is %s. We will send a confirmation SMS. Goodbye.", s.ComplaintID),
		Hangup:      true,
		ComplaintID: s.ComplaintID,
	}
}

// persist writes the finalized complaint record. The caller already holds the
// minted ID, so persistence failures are logged and retried out of band
// rather than failing the webhook after the caller heard the ID.
func (c *Controller) persist(ctx context.Context, filed *domain.Complaint) {
	if c.complaints == nil {
		return
	}
	if err := c.complaints.Create(ctx, filed); err != nil {
		log.Error().Err(err).
			Str("complaint_id", filed.ComplaintID).
			Str("call_id", filed.CallID).
			Msg("persist finalized complaint")
	}
}

// complaintFromSession snapshots the finalized session into the immutable
// complaint record. Must be called with the complaint ID already assigned.
func complaintFromSession(s *domain.Session) *domain.Complaint {
	return &domain.Complaint{
		ID:           uuid.New(),
		ComplaintID:  s.ComplaintID,
		CallID:       s.CallID,
		CallerNumber: s.CallerNumber,
		BatchNumber:  s.BatchNumber,
		CallerName:   s.CallerName,
		Type:         s.ComplaintType,
		Description:  s.Description,
		RecordingRef: s.RecordingRef,
		Summary:      Summary(s),
		CreatedAt:    time.Now(),
	}
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
