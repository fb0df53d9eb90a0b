package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/intake/internal/domain"
)

type ListComplaintsInput struct {
	Limit  int `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Page size"`
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListComplaintsOutput struct {
	Body struct {
		Complaints []*domain.Complaint `json:"complaints"`
		Total      int64               `json:"total"`
	}
}

type GetComplaintInput struct {
	ComplaintID string `path:"complaintID" doc:"Human-readable complaint ID (CMP-XXXXXXXX)"`
}

type GetComplaintOutput struct {
	Body *domain.Complaint
}

func RegisterComplaintRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-complaints",
		Method:      http.MethodGet,
		Path:        "/complaints",
		Summary:     "List finalized complaints",
		Tags:        []string{"Complaints"},
	}, func(ctx context.Context, input *ListComplaintsInput) (*ListComplaintsOutput, error) {
		complaints, err := store.Complaints().List(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list complaints", err)
		}

		total, err := store.Complaints().Count(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count complaints", err)
		}

		out := &ListComplaintsOutput{}
		out.Body.Complaints = complaints
		out.Body.Total = total
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-complaint",
		Method:      http.MethodGet,
		Path:        "/complaints/{complaintID}",
		Summary:     "Get a complaint by its readable ID",
		Tags:        []string{"Complaints"},
	}, func(ctx context.Context, input *GetComplaintInput) (*GetComplaintOutput, error) {
		c, err := store.Complaints().GetByComplaintID(ctx, input.ComplaintID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("complaint not found")
			}
			return nil, huma.Error500InternalServerError("failed to get complaint", err)
		}

		return &GetComplaintOutput{Body: c}, nil
	})
}
