package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
)

const workerColumns = `worker_id, name, phone, daily_rate, project_id, is_active, created_at, last_updated_at`

type PgxWorkerRepository struct {
	BaseRepository
}

// newPgxWorkerRepository creates a new repository for workers and attendance.
func newPgxWorkerRepository(pool *pgxpool.Pool) portsrepo.WorkerRepositoryFacade {
	return &PgxWorkerRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxWorkerRepository implements portsrepo.WorkerRepositoryFacade
var _ portsrepo.WorkerRepositoryFacade = (*PgxWorkerRepository)(nil)

func scanWorker(row rowScanner) (domain.Worker, error) {
	var w domain.Worker
	err := row.Scan(
		&w.WorkerID,
		&w.Name,
		&w.Phone,
		&w.DailyRate,
		&w.ProjectID,
		&w.IsActive,
		&w.CreatedAt,
		&w.LastUpdatedAt,
	)
	return w, err
}

// FindWorkerByID retrieves a worker by id.
func (r *PgxWorkerRepository) FindWorkerByID(ctx context.Context, workerID int64) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE worker_id = $1;`

	w, err := scanWorker(r.Pool.QueryRow(ctx, query, workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("worker %d: %w", workerID, apperrors.ErrWorkerNotFound)
		}
		return nil, fmt.Errorf("failed to find worker %d: %w", workerID, err)
	}
	return &w, nil
}

// ListWorkers retrieves workers, optionally restricted to active ones.
func (r *PgxWorkerRepository) ListWorkers(ctx context.Context, onlyActive bool) ([]domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY worker_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []domain.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker row: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating worker rows: %w", err)
	}
	return workers, nil
}

// ListAttendance retrieves a worker's attendance rows within [from, to],
// ascending by date.
func (r *PgxWorkerRepository) ListAttendance(ctx context.Context, workerID int64, from, to time.Time) ([]domain.Attendance, error) {
	query := `
		SELECT attendance_id, worker_id, date, status, overtime_hours, project_id
		FROM attendance
		WHERE worker_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date;
	`
	rows, err := r.Pool.Query(ctx, query, workerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for worker %d: %w", workerID, err)
	}
	defer rows.Close()

	var records []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		if err := rows.Scan(&a.AttendanceID, &a.WorkerID, &a.Date, &a.Status, &a.OvertimeHours, &a.ProjectID); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}
	return records, nil
}

// SaveWorker persists a new worker and returns its generated id.
func (r *PgxWorkerRepository) SaveWorker(ctx context.Context, worker domain.Worker) (int64, error) {
	query := `
		INSERT INTO workers (name, phone, daily_rate, project_id, is_active, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING worker_id;
	`
	var workerID int64
	err := r.Pool.QueryRow(ctx, query,
		worker.Name,
		worker.Phone,
		worker.DailyRate,
		worker.ProjectID,
		worker.IsActive,
		worker.CreatedAt,
		worker.LastUpdatedAt,
	).Scan(&workerID)
	if err != nil {
		return 0, fmt.Errorf("failed to save worker %s: %w", worker.Name, err)
	}
	return workerID, nil
}

// UpdateWorker updates a worker's details.
func (r *PgxWorkerRepository) UpdateWorker(ctx context.Context, worker domain.Worker) error {
	query := `
		UPDATE workers
		SET name = $2, phone = $3, daily_rate = $4, is_active = $5, last_updated_at = $6
		WHERE worker_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query,
		worker.WorkerID,
		worker.Name,
		worker.Phone,
		worker.DailyRate,
		worker.IsActive,
		worker.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update worker %d: %w", worker.WorkerID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("worker %d: %w", worker.WorkerID, apperrors.ErrWorkerNotFound)
	}
	return nil
}

// SaveAttendance persists one worker-day and returns its generated id.
func (r *PgxWorkerRepository) SaveAttendance(ctx context.Context, attendance domain.Attendance) (int64, error) {
	query := `
		INSERT INTO attendance (worker_id, date, status, overtime_hours, project_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING attendance_id;
	`
	var attendanceID int64
	err := r.Pool.QueryRow(ctx, query,
		attendance.WorkerID,
		attendance.Date,
		attendance.Status,
		attendance.OvertimeHours,
		attendance.ProjectID,
	).Scan(&attendanceID)
	if err != nil {
		return 0, fmt.Errorf("failed to save attendance for worker %d: %w", attendance.WorkerID, err)
	}
	return attendanceID, nil
}
