package handlers

import (
	"errors"
	"net/http"

	"model-gate-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrEvaluationNotFound),
		errors.Is(err, domain.ErrDriftReportNotFound),
		errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrNoProductionModel):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrDriftReportConflict),
		errors.Is(err, domain.ErrConcurrentPromotion),
		errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidArtifactLocation),
		errors.Is(err, domain.ErrInvalidLineageRef),
		errors.Is(err, domain.ErrInvalidStage),
		errors.Is(err, domain.ErrInvalidRunStatus),
		errors.Is(err, domain.ErrInvalidMargin),
		errors.Is(err, domain.ErrInvalidThreshold),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidTestDatasetRef),
		errors.Is(err, domain.ErrDataMismatch),
		errors.Is(err, domain.ErrSchemaMismatch),
		errors.Is(err, domain.ErrInsufficientData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Fatal gate errors: surfaced with detail so operators can tell a
	// consistency violation from a generic failure.
	case errors.Is(err, domain.ErrModelLoad),
		errors.Is(err, domain.ErrPromotion):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
