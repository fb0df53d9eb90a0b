package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/intake/internal/domain"
)

type GetCallInput struct {
	CallID string `path:"callID" doc:"Provider call identifier"`
}

type GetCallOutput struct {
	Body *domain.Session
}

type CallStatsOutput struct {
	Body struct {
		LiveSessions int `json:"live_sessions"`
	}
}

func RegisterCallRoutes(api huma.API, sessions SessionReader) {
	huma.Register(api, huma.Operation{
		OperationID: "get-call",
		Method:      http.MethodGet,
		Path:        "/calls/{callID}",
		Summary:     "Inspect a live call session",
		Tags:        []string{"Calls"},
	}, func(_ context.Context, input *GetCallInput) (*GetCallOutput, error) {
		sess, ok := sessions.Get(input.CallID)
		if !ok {
			return nil, huma.Error404NotFound("call not found")
		}

		return &GetCallOutput{Body: sess}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "call-stats",
		Method:      http.MethodGet,
		Path:        "/calls",
		Summary:     "Live call session statistics",
		Tags:        []string{"Calls"},
	}, func(_ context.Context, _ *struct{}) (*CallStatsOutput, error) {
		out := &CallStatsOutput{}
		out.Body.LiveSessions = sessions.Len()
		return out, nil
	})
}
