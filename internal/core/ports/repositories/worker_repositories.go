package repositories

import (
	"context"
	"time"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// WorkerReader defines read operations for workers and attendance. The
// payroll engine only ever reads these; ownership sits upstream.
type WorkerReader interface {
	// FindWorkerByID retrieves a worker by id.
	FindWorkerByID(ctx context.Context, workerID int64) (*domain.Worker, error)

	// ListWorkers retrieves workers, optionally restricted to active ones.
	ListWorkers(ctx context.Context, onlyActive bool) ([]domain.Worker, error)

	// ListAttendance retrieves a worker's attendance rows within [from, to],
	// ascending by date.
	ListAttendance(ctx context.Context, workerID int64, from, to time.Time) ([]domain.Attendance, error)
}

// WorkerWriter defines the minimal write surface that keeps the payroll
// engine exercisable end to end.
type WorkerWriter interface {
	// SaveWorker persists a new worker and returns its generated id.
	SaveWorker(ctx context.Context, worker domain.Worker) (int64, error)

	// UpdateWorker updates a worker's details.
	UpdateWorker(ctx context.Context, worker domain.Worker) error

	// SaveAttendance persists one worker-day and returns its generated id.
	SaveAttendance(ctx context.Context, attendance domain.Attendance) (int64, error)
}

// WorkerRepositoryFacade combines all worker-related repository interfaces.
type WorkerRepositoryFacade interface {
	WorkerReader
	WorkerWriter
}
