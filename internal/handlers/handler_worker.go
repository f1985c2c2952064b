package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
	"github.com/mizan-erp/mizan_backend/internal/middleware"
)

// workerHandler handles HTTP requests related to workers and attendance.
type workerHandler struct {
	workerService  portssvc.WorkerSvcFacade
	payrollService portssvc.PayrollSvcFacade
}

// registerWorkerRoutes registers routes related to workers, attendance and
// per-worker payroll reads.
func registerWorkerRoutes(rg *gin.RouterGroup, workerService portssvc.WorkerSvcFacade, payrollService portssvc.PayrollSvcFacade) {
	h := &workerHandler{workerService: workerService, payrollService: payrollService}

	workers := rg.Group("/workers")
	{
		workers.POST("", h.createWorker)
		workers.GET("", h.listWorkers)
		workers.GET("/:id", h.getWorker)
		workers.PUT("/:id", h.updateWorker)
		workers.POST("/:id/attendance", h.recordAttendance)
		workers.GET("/:id/attendance", h.listAttendance)
		workers.GET("/:id/payroll/calculate", h.calculatePayroll)
		workers.GET("/:id/payrolls", h.listPayrolls)
		workers.GET("/:id/advances", h.listAdvances)
	}
}

// createWorker godoc
// @Summary Register a worker
// @Tags workers
// @Accept  json
// @Produce  json
// @Param   worker body dto.CreateWorkerRequest true "Worker details"
// @Success 201 {object} dto.WorkerResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /workers [post]
func (h *workerHandler) createWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateWorker", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	worker, err := h.workerService.CreateWorker(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "create worker")
		return
	}
	c.JSON(http.StatusCreated, dto.ToWorkerResponse(worker))
}

// listWorkers godoc
// @Summary List workers
// @Tags workers
// @Produce  json
// @Param   active query bool false "Only active workers"
// @Success 200 {array} dto.WorkerResponse
// @Security BearerAuth
// @Router /workers [get]
func (h *workerHandler) listWorkers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	onlyActive, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))

	workers, err := h.workerService.ListWorkers(c.Request.Context(), onlyActive)
	if err != nil {
		respondError(c, logger, err, "list workers")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponses(workers))
}

// getWorker godoc
// @Summary Get a worker by ID
// @Tags workers
// @Produce  json
// @Param   id path int true "Worker ID"
// @Success 200 {object} dto.WorkerResponse
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id} [get]
func (h *workerHandler) getWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	worker, err := h.workerService.GetWorkerByID(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, logger, err, "get worker")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// updateWorker godoc
// @Summary Update a worker's details
// @Tags workers
// @Accept  json
// @Produce  json
// @Param   id path int true "Worker ID"
// @Param   worker body dto.UpdateWorkerRequest true "Fields to update"
// @Success 200 {object} dto.WorkerResponse
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id} [put]
func (h *workerHandler) updateWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateWorker", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	worker, err := h.workerService.UpdateWorker(c.Request.Context(), workerID, req)
	if err != nil {
		respondError(c, logger, err, "update worker")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// recordAttendance godoc
// @Summary Record attendance for a worker
// @Description Records one worker-day. OVERTIME rows carry the overtime hours.
// @Tags workers
// @Accept  json
// @Produce  json
// @Param   id path int true "Worker ID"
// @Param   attendance body dto.AttendanceRequest true "Attendance details"
// @Success 201 {object} map[string]int64 "attendanceID"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id}/attendance [post]
func (h *workerHandler) recordAttendance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordAttendance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	attendanceID, err := h.workerService.RecordAttendance(c.Request.Context(), workerID, req)
	if err != nil {
		respondError(c, logger, err, "record attendance")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attendanceID": attendanceID})
}

// listAttendance godoc
// @Summary List a worker's attendance for a period
// @Tags workers
// @Produce  json
// @Param   id path int true "Worker ID"
// @Param   from query string true "Period start (yyyy-MM-dd)"
// @Param   to query string true "Period end (yyyy-MM-dd)"
// @Success 200 {array} dto.AttendanceResponse
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id}/attendance [get]
func (h *workerHandler) listAttendance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params dto.CalculatePayrollParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	from, to, err := dto.ParseDateRange(params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "list attendance")
		return
	}

	rows, err := h.workerService.ListAttendance(c.Request.Context(), workerID, from, to)
	if err != nil {
		respondError(c, logger, err, "list attendance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAttendanceResponses(rows))
}

// calculatePayroll godoc
// @Summary Calculate a worker's wages for a period
// @Description Dry-run wage calculation from attendance, deductions and unsettled advances. Nothing is persisted.
// @Tags payroll
// @Produce  json
// @Param   id path int true "Worker ID"
// @Param   from query string true "Period start (yyyy-MM-dd)"
// @Param   to query string true "Period end (yyyy-MM-dd)"
// @Success 200 {object} domain.PayrollCalculation
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id}/payroll/calculate [get]
func (h *workerHandler) calculatePayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params dto.CalculatePayrollParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	from, to, err := dto.ParseDateRange(params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "calculate payroll")
		return
	}

	calc, err := h.payrollService.CalculatePayroll(c.Request.Context(), workerID, from, to)
	if err != nil {
		respondError(c, logger, err, "calculate payroll")
		return
	}
	c.JSON(http.StatusOK, calc)
}

// listPayrolls godoc
// @Summary List a worker's payroll entries
// @Tags payroll
// @Produce  json
// @Param   id path int true "Worker ID"
// @Success 200 {array} dto.PayrollResponse
// @Security BearerAuth
// @Router /workers/{id}/payrolls [get]
func (h *workerHandler) listPayrolls(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payrolls, err := h.payrollService.ListPayrollsByWorker(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, logger, err, "list payrolls")
		return
	}

	res := make([]dto.PayrollResponse, len(payrolls))
	for i := range payrolls {
		res[i] = dto.ToPayrollResponse(&payrolls[i])
	}
	c.JSON(http.StatusOK, res)
}

// listAdvances godoc
// @Summary List a worker's advances
// @Tags payroll
// @Produce  json
// @Param   id path int true "Worker ID"
// @Param   unsettled query bool false "Only unsettled advances"
// @Success 200 {array} dto.AdvanceResponse
// @Security BearerAuth
// @Router /workers/{id}/advances [get]
func (h *workerHandler) listAdvances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	unsettledOnly, _ := strconv.ParseBool(c.DefaultQuery("unsettled", "false"))

	advances, err := h.payrollService.ListAdvancesByWorker(c.Request.Context(), workerID, unsettledOnly)
	if err != nil {
		respondError(c, logger, err, "list advances")
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponses(advances))
}
