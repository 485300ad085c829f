package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type closeRequestRepository struct {
	db *database.DB
}

const closeRequestColumns = `
	id, worker_id, site_id, arrival_event_id, arrival_at,
	reported_departure_at, forget_reason, work_description,
	km, material_desc, material_amount,
	status, requested_at, decided_at, decided_by,
	departure_event_id, departure_at
`

func scanCloseRequest(row rowScanner) (closerequest.CloseRequest, error) {
	var c closerequest.CloseRequest
	err := row.Scan(
		&c.ID, &c.WorkerID, &c.SiteID, &c.ArrivalEventID, &c.ArrivalAt,
		&c.ReportedDepartureAt, &c.ForgetReason, &c.WorkDescription,
		&c.Km, &c.MaterialDesc, &c.MaterialAmount,
		&c.Status, &c.RequestedAt, &c.DecidedAt, &c.DecidedBy,
		&c.DepartureEventID, &c.DepartureAt,
	)
	return c, err
}

func collectCloseRequests(rows pgx.Rows) ([]closerequest.CloseRequest, error) {
	defer rows.Close()

	var requests []closerequest.CloseRequest
	for rows.Next() {
		c, err := scanCloseRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan close request: %w", err)
		}
		requests = append(requests, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate close requests: %w", err)
	}

	return requests, nil
}

// Create implements closerequest.CloseRequestRepository.
func (r *closeRequestRepository) Create(ctx context.Context, req closerequest.CloseRequest) (closerequest.CloseRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_close_requests (
			id, worker_id, site_id, arrival_event_id, arrival_at,
			reported_departure_at, forget_reason, work_description,
			km, material_desc, material_amount, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING requested_at
	`

	err := q.QueryRow(ctx, query,
		req.ID,
		req.WorkerID,
		req.SiteID,
		req.ArrivalEventID,
		req.ArrivalAt,
		req.ReportedDepartureAt,
		req.ForgetReason,
		req.WorkDescription,
		req.Km,
		req.MaterialDesc,
		req.MaterialAmount,
		req.Status,
	).Scan(&req.RequestedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // one pending request per worker
			return closerequest.CloseRequest{}, closerequest.ErrPendingRequestExists
		}
		return closerequest.CloseRequest{}, fmt.Errorf("failed to create close request: %w", err)
	}

	return req, nil
}

func (r *closeRequestRepository) getOne(ctx context.Context, query, id string) (closerequest.CloseRequest, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanCloseRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return closerequest.CloseRequest{}, closerequest.ErrCloseRequestNotFound
		}
		return closerequest.CloseRequest{}, fmt.Errorf("failed to get close request: %w", err)
	}

	return c, nil
}

// GetByID implements closerequest.CloseRequestRepository.
func (r *closeRequestRepository) GetByID(ctx context.Context, id string) (closerequest.CloseRequest, error) {
	return r.getOne(ctx, `SELECT `+closeRequestColumns+` FROM attendance_close_requests WHERE id = $1`, id)
}

// LockByID implements closerequest.CloseRequestRepository.
func (r *closeRequestRepository) LockByID(ctx context.Context, id string) (closerequest.CloseRequest, error) {
	return r.getOne(ctx, `SELECT `+closeRequestColumns+` FROM attendance_close_requests WHERE id = $1 FOR UPDATE`, id)
}

// GetPendingByWorker implements closerequest.CloseRequestRepository.
func (r *closeRequestRepository) GetPendingByWorker(ctx context.Context, workerID string) (*closerequest.CloseRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + closeRequestColumns + `
		FROM attendance_close_requests
		WHERE worker_id = $1 AND status = 'pending'
		ORDER BY requested_at DESC
		LIMIT 1
	`

	c, err := scanCloseRequest(q.QueryRow(ctx, query, workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending close request: %w", err)
	}

	return &c, nil
}

// List implements closerequest.CloseRequestRepository.
func (r *closeRequestRepository) List(ctx context.Context, filter closerequest.CloseRequestFilter) ([]closerequest.CloseRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.WorkerID != nil && *filter.WorkerID != "" {
		baseWhere += fmt.Sprintf(" AND worker_id = $%d", argIdx)
		args = append(args, *filter.WorkerID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_close_requests WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count close requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance_close_requests
		WHERE %s
		ORDER BY requested_at DESC
		LIMIT $%d OFFSET $%d
	`, closeRequestColumns, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query close requests: %w", err)
	}

	requests, err := collectCloseRequests(rows)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ListByArrivalSince implements closerequest.CloseRequestRepository.
func (r *closeRequestRepository) ListByArrivalSince(ctx context.Context, since time.Time) ([]closerequest.CloseRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + closeRequestColumns + `
		FROM attendance_close_requests
		WHERE arrival_at >= $1
		ORDER BY requested_at ASC
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query close requests: %w", err)
	}

	return collectCloseRequests(rows)
}

// Decide implements closerequest.CloseRequestRepository.
// Only pending requests transition; a decided request is left untouched.
func (r *closeRequestRepository) Decide(ctx context.Context, id string, decision closerequest.Decision) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_close_requests
		SET status = $2,
		    decided_by = $3,
		    decided_at = $4,
		    departure_event_id = $5,
		    departure_at = $6
		WHERE id = $1 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query,
		id,
		decision.Status,
		decision.DecidedBy,
		decision.DecidedAt,
		decision.DepartureEventID,
		decision.DepartureAt,
	)
	if err != nil {
		return fmt.Errorf("failed to decide close request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return closerequest.ErrCloseRequestAlreadyProcessed
	}

	return nil
}

func NewCloseRequestRepository(db *database.DB) closerequest.CloseRequestRepository {
	return &closeRequestRepository{
		db: db,
	}
}
