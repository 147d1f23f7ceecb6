package handlers

import (
	"net/http"
	"strconv"

	"model-gate-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) RunDriftCheck(c *gin.Context) {
	var req dto.RunDriftCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.driftSvc.DetectDrift(c.Request.Context(),
		req.Date, req.PThreshold, req.ReferenceRef)
	if err != nil {
		log.WithError(err).WithField("window_date", req.Date).Error("drift check failed")
		// A report may still have been produced when only the retraining
		// trigger failed. Surface it so the caller does not re-run the check.
		if report != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":  err.Error(),
				"report": dto.ToDriftReportResponse(report),
			})
			return
		}
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDriftReportResponse(report))
}

func (h *Handler) ListDriftReports(c *gin.Context) {
	// A date query narrows the listing to the single report for that
	// window and reference.
	if date := c.Query("date"); date != "" {
		report, err := h.driftSvc.GetReport(c.Request.Context(), date, c.Query("reference"))
		if err != nil {
			mapDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ToDriftReportResponse(report))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, total, err := h.driftSvc.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		log.WithError(err).Error("list drift reports failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DriftReportResponse, 0, len(reports))
	for _, r := range reports {
		items = append(items, dto.ToDriftReportResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListDriftReportsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetLatestDriftReport(c *gin.Context) {
	report, err := h.driftSvc.LatestReport(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDriftReportResponse(report))
}
