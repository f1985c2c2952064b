package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	"github.com/mizan-erp/mizan_backend/internal/core/ports"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
)

// workerServiceImpl implements the WorkerSvcFacade interface
type workerServiceImpl struct {
	BaseService
	workerRepo portsrepo.WorkerRepositoryFacade
	clock      ports.Clock
}

// NewWorkerService creates a new worker service
func NewWorkerService(workerRepo portsrepo.WorkerRepositoryFacade, clock ports.Clock) portssvc.WorkerSvcFacade {
	return &workerServiceImpl{
		workerRepo: workerRepo,
		clock:      clock,
	}
}

var _ portssvc.WorkerSvcFacade = (*workerServiceImpl)(nil)

func (s *workerServiceImpl) CreateWorker(ctx context.Context, req dto.CreateWorkerRequest) (*domain.Worker, error) {
	now := s.clock.Now()
	worker := domain.Worker{
		Name:      req.Name,
		Phone:     req.Phone,
		DailyRate: req.DailyRate,
		ProjectID: req.ProjectID,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	workerID, err := s.workerRepo.SaveWorker(ctx, worker)
	if err != nil {
		s.LogError(ctx, err, "Failed to save worker", slog.String("name", req.Name))
		return nil, err
	}
	worker.WorkerID = workerID

	s.LogInfo(ctx, "Worker created", slog.Int64("worker_id", workerID))
	return &worker, nil
}

func (s *workerServiceImpl) GetWorkerByID(ctx context.Context, workerID int64) (*domain.Worker, error) {
	return s.workerRepo.FindWorkerByID(ctx, workerID)
}

func (s *workerServiceImpl) ListWorkers(ctx context.Context, onlyActive bool) ([]domain.Worker, error) {
	return s.workerRepo.ListWorkers(ctx, onlyActive)
}

func (s *workerServiceImpl) UpdateWorker(ctx context.Context, workerID int64, req dto.UpdateWorkerRequest) (*domain.Worker, error) {
	worker, err := s.workerRepo.FindWorkerByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.Phone != nil {
		worker.Phone = *req.Phone
	}
	if req.DailyRate != nil {
		// Rate changes only affect payrolls calculated from here on.
		worker.DailyRate = *req.DailyRate
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}
	worker.LastUpdatedAt = s.clock.Now()

	if err := s.workerRepo.UpdateWorker(ctx, *worker); err != nil {
		s.LogError(ctx, err, "Failed to update worker", slog.Int64("worker_id", workerID))
		return nil, err
	}
	return worker, nil
}

func (s *workerServiceImpl) RecordAttendance(ctx context.Context, workerID int64, req dto.AttendanceRequest) (int64, error) {
	if _, err := s.workerRepo.FindWorkerByID(ctx, workerID); err != nil {
		return 0, err
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return 0, err
	}

	attendance := domain.Attendance{
		WorkerID:      workerID,
		Date:          date,
		Status:        req.Status,
		OvertimeHours: req.OvertimeHours,
		ProjectID:     req.ProjectID,
	}

	attendanceID, err := s.workerRepo.SaveAttendance(ctx, attendance)
	if err != nil {
		s.LogError(ctx, err, "Failed to save attendance",
			slog.Int64("worker_id", workerID),
			slog.String("date", req.Date))
		return 0, err
	}
	return attendanceID, nil
}

func (s *workerServiceImpl) ListAttendance(ctx context.Context, workerID int64, from, to time.Time) ([]domain.Attendance, error) {
	return s.workerRepo.ListAttendance(ctx, workerID, from, to)
}
