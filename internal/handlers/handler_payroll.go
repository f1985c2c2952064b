package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
	"github.com/mizan-erp/mizan_backend/internal/middleware"
)

// payrollHandler handles HTTP requests related to payroll and advances.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// registerPayrollRoutes registers routes related to payroll entries and advances.
func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: payrollService}

	payrolls := rg.Group("/payrolls")
	{
		payrolls.POST("", h.generatePayroll)
		payrolls.POST("/pay", h.processWagePayment)
		payrolls.GET("/:id", h.getPayroll)
	}

	rg.POST("/advances", h.processAdvance)
}

// generatePayroll godoc
// @Summary Generate a payroll entry
// @Description Calculates the wage breakdown for a worker and period, persists it as DRAFT and accrues the gross wage on the wages payable account
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   payroll body dto.GeneratePayrollRequest true "Payroll period"
// @Success 201 {object} dto.PayrollResponse
// @Failure 400 {object} map[string]string "Invalid input format or date range"
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /payrolls [post]
func (h *payrollHandler) generatePayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GeneratePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GeneratePayroll", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payroll, err := h.payrollService.GeneratePayroll(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "generate payroll")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPayrollResponse(payroll))
}

// processWagePayment godoc
// @Summary Pay a draft payroll entry
// @Description Settles a DRAFT payroll entry exactly once: pays the net wage from the source account, relieves the wage liability and settles the listed advances, all in one atomic unit
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   payment body dto.WagePaymentRequest true "Payment details"
// @Success 200 {object} dto.PayrollResponse
// @Failure 404 {object} map[string]string "Payroll or account not found"
// @Failure 409 {object} map[string]string "Payroll already paid"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /payrolls/pay [post]
func (h *payrollHandler) processWagePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WagePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessWagePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payroll, err := h.payrollService.ProcessWagePayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "process wage payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollResponse(payroll))
}

// getPayroll godoc
// @Summary Get a payroll entry by ID
// @Tags payroll
// @Produce  json
// @Param   id path int true "Payroll ID"
// @Success 200 {object} dto.PayrollResponse
// @Failure 404 {object} map[string]string "Payroll not found"
// @Security BearerAuth
// @Router /payrolls/{id} [get]
func (h *payrollHandler) getPayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payrollID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payroll, err := h.payrollService.GetPayrollByID(c.Request.Context(), payrollID)
	if err != nil {
		respondError(c, logger, err, "get payroll")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollResponse(payroll))
}

// processAdvance godoc
// @Summary Issue a worker advance
// @Description Hands cash to a worker ahead of wages: transfers from the source account to advances receivable and records the advance for later settlement
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   advance body dto.AdvanceRequest true "Advance details"
// @Success 201 {object} dto.AdvanceResponse
// @Failure 400 {object} map[string]string "Invalid input format or non-positive amount"
// @Failure 404 {object} map[string]string "Worker or account not found"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /advances [post]
func (h *payrollHandler) processAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessAdvance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	advance, err := h.payrollService.ProcessAdvance(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "process advance")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAdvanceResponse(advance))
}
