package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type eventRepository struct {
	db *database.DB
}

const eventColumns = `
	id, worker_id, site_id, kind, occurred_at, civil_day::text,
	work_description, km,
	offsite_reason, offsite_hours,
	material_desc, material_amount,
	is_paid, paid_at, paid_by,
	latitude, longitude, accuracy_m, distance_m,
	edited_at, edited_by, created_at
`

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (attendance.Event, error) {
	var e attendance.Event
	err := row.Scan(
		&e.ID, &e.WorkerID, &e.SiteID, &e.Kind, &e.OccurredAt, &e.CivilDay,
		&e.WorkDescription, &e.Km,
		&e.OffsiteReason, &e.OffsiteHours,
		&e.MaterialDesc, &e.MaterialAmount,
		&e.IsPaid, &e.PaidAt, &e.PaidBy,
		&e.Latitude, &e.Longitude, &e.AccuracyM, &e.DistanceM,
		&e.EditedAt, &e.EditedBy, &e.CreatedAt,
	)
	return e, err
}

func collectEvents(rows pgx.Rows) ([]attendance.Event, error) {
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// civilDate converts a cached YYYY-MM-DD day into a DATE parameter.
func civilDate(day *string) (*time.Time, error) {
	if day == nil || *day == "" {
		return nil, nil
	}
	d, err := time.Parse(civiltime.DayLayout, *day)
	if err != nil {
		return nil, fmt.Errorf("invalid civil day %q: %w", *day, err)
	}
	return &d, nil
}

// Create implements attendance.EventRepository.
func (r *eventRepository) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	day, err := civilDate(event.CivilDay)
	if err != nil {
		return attendance.Event{}, err
	}

	query := `
		INSERT INTO attendance_events (
			id, worker_id, site_id, kind, occurred_at, civil_day,
			work_description, km, offsite_reason, offsite_hours,
			material_desc, material_amount,
			latitude, longitude, accuracy_m, distance_m
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING is_paid, created_at
	`

	err = q.QueryRow(ctx, query,
		event.ID,
		event.WorkerID,
		event.SiteID,
		event.Kind,
		event.OccurredAt,
		day,
		event.WorkDescription,
		event.Km,
		event.OffsiteReason,
		event.OffsiteHours,
		event.MaterialDesc,
		event.MaterialAmount,
		event.Latitude,
		event.Longitude,
		event.AccuracyM,
		event.DistanceM,
	).Scan(&event.IsPaid, &event.CreatedAt)

	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return event, nil
}

// GetByID implements attendance.EventRepository.
func (r *eventRepository) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + ` FROM attendance_events WHERE id = $1`

	e, err := scanEvent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to get attendance event by ID: %w", err)
	}

	return e, nil
}

// GetLatestByKind implements attendance.EventRepository.
func (r *eventRepository) GetLatestByKind(ctx context.Context, workerID string, kind attendance.EventKind) (*attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE worker_id = $1 AND kind = $2
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT 1
	`

	e, err := scanEvent(q.QueryRow(ctx, query, workerID, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest %s event: %w", kind, err)
	}

	return &e, nil
}

// ListByWorker implements attendance.EventRepository.
func (r *eventRepository) ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE worker_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		ORDER BY occurred_at ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, workerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query worker events: %w", err)
	}

	return collectEvents(rows)
}

// ListByKindSince implements attendance.EventRepository.
func (r *eventRepository) ListByKindSince(ctx context.Context, kind attendance.EventKind, since time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE kind = $1 AND occurred_at >= $2
		ORDER BY occurred_at ASC
	`

	rows, err := q.Query(ctx, query, kind, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s events: %w", kind, err)
	}

	return collectEvents(rows)
}

// List implements attendance.EventRepository.
func (r *eventRepository) List(ctx context.Context, filter attendance.EventFilter, from, to *time.Time) ([]attendance.Event, int64, error) {
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

	if filter.Kind != nil && *filter.Kind != "" {
		baseWhere += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.IsPaid != nil {
		baseWhere += fmt.Sprintf(" AND is_paid = $%d", argIdx)
		args = append(args, *filter.IsPaid)
		argIdx++
	}

	// Instant range, already resolved from civil days by the caller
	if from != nil {
		baseWhere += fmt.Sprintf(" AND occurred_at >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		baseWhere += fmt.Sprintf(" AND occurred_at < $%d", argIdx)
		args = append(args, *to)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_events WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance events: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance_events
		WHERE %s
		ORDER BY occurred_at DESC
		LIMIT $%d OFFSET $%d
	`, eventColumns, baseWhere, argIdx, argIdx+1)

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
		return nil, 0, fmt.Errorf("failed to query attendance events: %w", err)
	}

	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// UpdateOccurredAt implements attendance.EventRepository.
func (r *eventRepository) UpdateOccurredAt(ctx context.Context, id string, occurredAt time.Time, civilDay string, editedBy *string) error {
	q := GetQuerier(ctx, r.db)

	day, err := civilDate(&civilDay)
	if err != nil {
		return err
	}

	query := `
		UPDATE attendance_events
		SET occurred_at = $2,
		    civil_day = $3,
		    edited_at = NOW(),
		    edited_by = $4
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, id, occurredAt, day, editedBy)
	if err != nil {
		return fmt.Errorf("failed to update event time: %w", err)
	}
	if result.RowsAffected() == 0 {
		return attendance.ErrEventNotFound
	}

	return nil
}

// MarkPaid implements attendance.EventRepository.
func (r *eventRepository) MarkPaid(ctx context.Context, ids []string, paidBy string, paidAt time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_events
		SET is_paid = TRUE,
		    paid_at = $2,
		    paid_by = $3
		WHERE id = ANY($1) AND is_paid = FALSE
	`

	result, err := q.Exec(ctx, query, ids, paidAt, paidBy)
	if err != nil {
		return 0, fmt.Errorf("failed to mark events paid: %w", err)
	}

	return result.RowsAffected(), nil
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepository{
		db: db,
	}
}
