package handlers

import (
	"net/http"
	"strconv"

	"model-gate-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CreateEvaluation(c *gin.Context) {
	var req dto.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.evalSvc.Evaluate(c.Request.Context(),
		req.CandidateVersionID, req.TestDatasetRef, req.ThresholdMargin)
	if err != nil {
		log.WithError(err).WithField("candidate_version_id", req.CandidateVersionID).
			Error("evaluation failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEvaluationResultResponse(result))
}

func (h *Handler) ListEvaluations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	results, total, err := h.evalSvc.List(c.Request.Context(), limit, offset)
	if err != nil {
		log.WithError(err).Error("list evaluations failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.EvaluationResultResponse, 0, len(results))
	for _, r := range results {
		items = append(items, dto.ToEvaluationResultResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListEvaluationResultsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetLatestEvaluation(c *gin.Context) {
	result, err := h.evalSvc.Latest(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEvaluationResultResponse(result))
}

func (h *Handler) ListModelEvaluations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	results, err := h.evalSvc.ListByCandidate(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.EvaluationResultResponse, 0, len(results))
	for _, r := range results {
		items = append(items, dto.ToEvaluationResultResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}
