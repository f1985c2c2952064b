package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
)

// statusFromError maps the core error taxonomy to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrWorkerNotFound),
		errors.Is(err, apperrors.ErrEntryNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrTransactionAlreadyVoid),
		errors.Is(err, apperrors.ErrPayrollAlreadyPaid),
		errors.Is(err, apperrors.ErrAccountHasDependents):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a core error. Internal failures get a generic message
// so storage details never leak to clients.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
		return
	}
	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}
