// Package mocks holds testify mocks of the repository interfaces shared by service tests.
package mocks

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/stretchr/testify/mock"
)

// PassthroughTx runs the callback without a database transaction.
type PassthroughTx struct{}

func (PassthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type WorkerRepository struct{ mock.Mock }

func (m *WorkerRepository) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(worker.Worker), args.Error(1)
}

func (m *WorkerRepository) LockForUpdate(ctx context.Context, id string) (worker.Worker, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(worker.Worker), args.Error(1)
}

func (m *WorkerRepository) List(ctx context.Context) ([]worker.Worker, error) {
	args := m.Called(ctx)
	return args.Get(0).([]worker.Worker), args.Error(1)
}

func (m *WorkerRepository) ListRateOverrides(ctx context.Context, workerID string) ([]worker.RateOverride, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).([]worker.RateOverride), args.Error(1)
}

type SiteRepository struct{ mock.Mock }

func (m *SiteRepository) GetByID(ctx context.Context, id string) (site.Site, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(site.Site), args.Error(1)
}

func (m *SiteRepository) List(ctx context.Context) ([]site.Site, error) {
	args := m.Called(ctx)
	return args.Get(0).([]site.Site), args.Error(1)
}

type EventRepository struct{ mock.Mock }

func (m *EventRepository) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	args := m.Called(ctx, event)
	if fn, ok := args.Get(0).(func(context.Context, attendance.Event) attendance.Event); ok {
		return fn(ctx, event), args.Error(1)
	}
	return args.Get(0).(attendance.Event), args.Error(1)
}

func (m *EventRepository) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(attendance.Event), args.Error(1)
}

func (m *EventRepository) GetLatestByKind(ctx context.Context, workerID string, kind attendance.EventKind) (*attendance.Event, error) {
	args := m.Called(ctx, workerID, kind)
	e, _ := args.Get(0).(*attendance.Event)
	return e, args.Error(1)
}

func (m *EventRepository) ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]attendance.Event, error) {
	args := m.Called(ctx, workerID, from, to)
	return args.Get(0).([]attendance.Event), args.Error(1)
}

func (m *EventRepository) ListByKindSince(ctx context.Context, kind attendance.EventKind, since time.Time) ([]attendance.Event, error) {
	args := m.Called(ctx, kind, since)
	return args.Get(0).([]attendance.Event), args.Error(1)
}

func (m *EventRepository) List(ctx context.Context, filter attendance.EventFilter, from, to *time.Time) ([]attendance.Event, int64, error) {
	args := m.Called(ctx, filter, from, to)
	return args.Get(0).([]attendance.Event), args.Get(1).(int64), args.Error(2)
}

func (m *EventRepository) UpdateOccurredAt(ctx context.Context, id string, occurredAt time.Time, civilDay string, editedBy *string) error {
	args := m.Called(ctx, id, occurredAt, civilDay, editedBy)
	return args.Error(0)
}

func (m *EventRepository) MarkPaid(ctx context.Context, ids []string, paidBy string, paidAt time.Time) (int64, error) {
	args := m.Called(ctx, ids, paidBy, paidAt)
	return args.Get(0).(int64), args.Error(1)
}

type TripRepository struct{ mock.Mock }

func (m *TripRepository) ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]payroll.Trip, error) {
	args := m.Called(ctx, workerID, from, to)
	return args.Get(0).([]payroll.Trip), args.Error(1)
}

type CloseRequestRepository struct{ mock.Mock }

func (m *CloseRequestRepository) Create(ctx context.Context, req closerequest.CloseRequest) (closerequest.CloseRequest, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, closerequest.CloseRequest) closerequest.CloseRequest); ok {
		return fn(ctx, req), args.Error(1)
	}
	return args.Get(0).(closerequest.CloseRequest), args.Error(1)
}

func (m *CloseRequestRepository) GetByID(ctx context.Context, id string) (closerequest.CloseRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(closerequest.CloseRequest), args.Error(1)
}

func (m *CloseRequestRepository) LockByID(ctx context.Context, id string) (closerequest.CloseRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(closerequest.CloseRequest), args.Error(1)
}

func (m *CloseRequestRepository) GetPendingByWorker(ctx context.Context, workerID string) (*closerequest.CloseRequest, error) {
	args := m.Called(ctx, workerID)
	c, _ := args.Get(0).(*closerequest.CloseRequest)
	return c, args.Error(1)
}

func (m *CloseRequestRepository) List(ctx context.Context, filter closerequest.CloseRequestFilter) ([]closerequest.CloseRequest, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]closerequest.CloseRequest), args.Get(1).(int64), args.Error(2)
}

func (m *CloseRequestRepository) ListByArrivalSince(ctx context.Context, since time.Time) ([]closerequest.CloseRequest, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]closerequest.CloseRequest), args.Error(1)
}

func (m *CloseRequestRepository) Decide(ctx context.Context, id string, decision closerequest.Decision) error {
	args := m.Called(ctx, id, decision)
	return args.Error(0)
}
