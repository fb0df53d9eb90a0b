package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/intake/internal/api/v1"
	"github.com/gosuda/intake/internal/api/ws"
	"github.com/gosuda/intake/internal/store/memory"
	"github.com/gosuda/intake/internal/store/postgres"
	"github.com/gosuda/intake/internal/telephony"
)

func registerVoiceRoutes(r chi.Router, h *telephony.Handler) {
	r.Post("/incoming", h.Incoming)
	r.Post("/gather-batch", h.GatherBatch)
	r.Post("/gather-name", h.GatherName)
	r.Post("/gather-type", h.GatherType)
	r.Post("/recording-callback", h.RecordingCallback)
	r.Post("/record-complete", h.RecordComplete)
	r.Post("/confirm", h.Confirm)
	r.Post("/edit-options", h.Confirm)
	r.Post("/status", h.Status)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, sessions *memory.SessionStore) {
	v1.RegisterComplaintRoutes(api, store)
	v1.RegisterCallRoutes(api, sessions)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/calls", hub.ServeCalls)
	r.Get("/calls/{callID}", hub.ServeCall)
}
