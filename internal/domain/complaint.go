package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Complaint is the immutable record produced when a call session finalizes.
type Complaint struct {
	ID           uuid.UUID `json:"id"`
	ComplaintID  string    `json:"complaint_id"` // human-readable "CMP-XXXXXXXX"
	CallID       string    `json:"call_id"`
	CallerNumber string    `json:"caller_number,omitempty"`
	BatchNumber  string    `json:"batch_number,omitempty"`
	CallerName   string    `json:"caller_name,omitempty"`
	Type         string    `json:"type"`
	Description  string    `json:"description,omitempty"`
	RecordingRef string    `json:"recording_ref,omitempty"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// ComplaintRepository persists finalized complaint records.
type ComplaintRepository interface {
	Create(ctx context.Context, c *Complaint) error
	GetByComplaintID(ctx context.Context, complaintID string) (*Complaint, error)
	List(ctx context.Context, limit, offset int) ([]*Complaint, error)
	Count(ctx context.Context) (int64, error)
}
