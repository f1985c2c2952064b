package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// CreateWorkerRequest defines the data needed to register a worker.
type CreateWorkerRequest struct {
	Name      string          `json:"name" binding:"required"`
	Phone     string          `json:"phone"`
	DailyRate decimal.Decimal `json:"dailyRate" binding:"required"`
	ProjectID *int64          `json:"projectID"`
}

// UpdateWorkerRequest defines the data allowed for updating a worker.
type UpdateWorkerRequest struct {
	Name      *string          `json:"name"`
	Phone     *string          `json:"phone"`
	DailyRate *decimal.Decimal `json:"dailyRate"`
	IsActive  *bool            `json:"isActive"`
}

// AttendanceRequest records one worker-day.
type AttendanceRequest struct {
	Date          string                  `json:"date" binding:"required"` // yyyy-MM-dd
	Status        domain.AttendanceStatus `json:"status" binding:"required,oneof=PRESENT ABSENT HALF_DAY OVERTIME"`
	OvertimeHours decimal.Decimal         `json:"overtimeHours"`
	ProjectID     *int64                  `json:"projectID"`
}

// WorkerResponse defines the data returned for a worker.
type WorkerResponse struct {
	WorkerID  int64           `json:"workerID"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	DailyRate decimal.Decimal `json:"dailyRate"`
	ProjectID *int64          `json:"projectID"`
	IsActive  bool            `json:"isActive"`
}

// ToWorkerResponse converts a domain.Worker to its response DTO.
func ToWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		WorkerID:  w.WorkerID,
		Name:      w.Name,
		Phone:     w.Phone,
		DailyRate: w.DailyRate,
		ProjectID: w.ProjectID,
		IsActive:  w.IsActive,
	}
}

// ToWorkerResponses converts a slice of workers to response DTOs.
func ToWorkerResponses(workers []domain.Worker) []WorkerResponse {
	res := make([]WorkerResponse, len(workers))
	for i := range workers {
		res[i] = ToWorkerResponse(&workers[i])
	}
	return res
}

// AttendanceResponse defines the data returned for an attendance row.
type AttendanceResponse struct {
	AttendanceID  int64                   `json:"attendanceID"`
	WorkerID      int64                   `json:"workerID"`
	Date          string                  `json:"date"`
	Status        domain.AttendanceStatus `json:"status"`
	OvertimeHours decimal.Decimal         `json:"overtimeHours"`
	ProjectID     *int64                  `json:"projectID"`
}

// ToAttendanceResponses converts attendance rows to response DTOs.
func ToAttendanceResponses(rows []domain.Attendance) []AttendanceResponse {
	res := make([]AttendanceResponse, len(rows))
	for i, a := range rows {
		res[i] = AttendanceResponse{
			AttendanceID:  a.AttendanceID,
			WorkerID:      a.WorkerID,
			Date:          FormatDate(a.Date),
			Status:        a.Status,
			OvertimeHours: a.OvertimeHours,
			ProjectID:     a.ProjectID,
		}
	}
	return res
}
