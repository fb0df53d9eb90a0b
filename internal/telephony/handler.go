package telephony

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/intake/internal/domain"
)

// EventHandler is the core the webhook adapter feeds. Satisfied by
// flow.Controller.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event) (domain.Directive, error)
}

// Handler translates provider webhook posts into domain events and renders
// the resulting directives back as voice markup. One route per caller
// interaction, matching the provider's callback contract.
type Handler struct {
	core EventHandler
}

func NewHandler(core EventHandler) *Handler {
	return &Handler{core: core}
}

// Incoming is the call entrypoint: greets and asks for the batch number.
func (h *Handler) Incoming(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, domain.Event{
		Type:   domain.EventCallStarted,
		CallID: r.PostFormValue("CallSid"),
		From:   r.PostFormValue("From"),
	})
}

// GatherBatch receives the batch number answer.
func (h *Handler) GatherBatch(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, domain.Event{
		Type:   domain.EventBatchCaptured,
		CallID: r.PostFormValue("CallSid"),
		Input:  r.PostFormValue("SpeechResult"),
		Digit:  r.PostFormValue("Digits"),
	})
}

// GatherName receives the caller's name.
func (h *Handler) GatherName(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, domain.Event{
		Type:   domain.EventNameCaptured,
		CallID: r.PostFormValue("CallSid"),
		Input:  r.PostFormValue("SpeechResult"),
		Digit:  r.PostFormValue("Digits"),
	})
}

// GatherType receives the complaint-type selection.
func (h *Handler) GatherType(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, domain.Event{
		Type:   domain.EventTypeCaptured,
		CallID: r.PostFormValue("CallSid"),
		Input:  r.PostFormValue("SpeechResult"),
		Digit:  r.PostFormValue("Digits"),
	})
}

// RecordingCallback receives the asynchronous recording reference.
func (h *Handler) RecordingCallback(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, domain.Event{
		Type:         domain.EventRecordingStatus,
		CallID:       r.PostFormValue("CallSid"),
		RecordingRef: r.PostFormValue("RecordingUrl"),
		Input:        r.PostFormValue("TranscriptionText"),
	})
}

// RecordComplete fires when the caller finished their description.
func (h *Handler) RecordComplete(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, domain.Event{
		Type:   domain.EventRecordingFinished,
		CallID: r.PostFormValue("CallSid"),
	})
}

// Confirm receives the playback-review or edit-menu keypress.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, domain.Event{
		Type:   domain.EventConfirmKeypress,
		CallID: r.PostFormValue("CallSid"),
		Digit:  r.PostFormValue("Digits"),
	})
}

// Status receives call lifecycle updates.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, domain.Event{
		Type:       domain.EventCallStatus,
		CallID:     r.PostFormValue("CallSid"),
		CallStatus: r.PostFormValue("CallStatus"),
	})
}

// dispatch runs one event through the core and writes the response. Store or
// apply failures are 5xx so the provider retries the delivery; unknown call
// IDs in strict mode are 404.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, ev domain.Event) {
	directive, err := h.core.Handle(r.Context(), ev)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownCall):
			http.Error(w, "unknown call", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidEvent):
			http.Error(w, "invalid event", http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("call_id", ev.CallID).Str("event", string(ev.Type)).Msg("handle webhook event")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	if directive.Ack {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	if _, writeErr := w.Write([]byte(RenderTwiML(directive))); writeErr != nil {
		log.Debug().Err(writeErr).Msg("write twiml response")
	}
}
