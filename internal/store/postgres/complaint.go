package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/intake/internal/domain"
)

type ComplaintRepo struct {
	pool *pgxpool.Pool
}

func NewComplaintRepo(pool *pgxpool.Pool) *ComplaintRepo {
	return &ComplaintRepo{pool: pool}
}

func (r *ComplaintRepo) Create(ctx context.Context, c *domain.Complaint) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO complaints (id, complaint_id, call_id, caller_number, batch_number, caller_name, type, description, recording_ref, summary, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.ComplaintID, c.CallID, c.CallerNumber, c.BatchNumber, c.CallerName, c.Type, c.Description, c.RecordingRef, c.Summary, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("complaintRepo.Create: %w", err)
	}

	return nil
}

func (r *ComplaintRepo) GetByComplaintID(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	var c domain.Complaint

	err := r.pool.QueryRow(ctx,
		`SELECT id, complaint_id, call_id, caller_number, batch_number, caller_name, type, description, recording_ref, summary, created_at
		 FROM complaints WHERE complaint_id = $1`,
		complaintID,
	).Scan(&c.ID, &c.ComplaintID, &c.CallID, &c.CallerNumber, &c.BatchNumber, &c.CallerName, &c.Type, &c.Description, &c.RecordingRef, &c.Summary, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("complaintRepo.GetByComplaintID: %w", err)
	}

	return &c, nil
}

func (r *ComplaintRepo) List(ctx context.Context, limit, offset int) ([]*domain.Complaint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, complaint_id, call_id, caller_number, batch_number, caller_name, type, description, recording_ref, summary, created_at
		 FROM complaints
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("complaintRepo.List: %w", err)
	}
	defer rows.Close()

	var complaints []*domain.Complaint
	for rows.Next() {
		var c domain.Complaint

		err = rows.Scan(&c.ID, &c.ComplaintID, &c.CallID, &c.CallerNumber, &c.BatchNumber, &c.CallerName, &c.Type, &c.Description, &c.RecordingRef, &c.Summary, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("complaintRepo.List: scan: %w", err)
		}
		complaints = append(complaints, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("complaintRepo.List: rows: %w", err)
	}

	return complaints, nil
}

func (r *ComplaintRepo) Count(ctx context.Context) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("complaintRepo.Count: %w", err)
	}

	return count, nil
}
