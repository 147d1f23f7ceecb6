package handlers

import (
	"net/http"
	"strconv"

	"model-gate-service/internal/adapters/primary/http/dto"
	ports "model-gate-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) RegisterCandidate(c *gin.Context) {
	var req dto.RegisterCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.registrySvc.RegisterCandidate(c.Request.Context(),
		req.ArtifactLocation, req.MetricValue, req.LineageRef, req.TestDatasetRef)
	if err != nil {
		log.WithError(err).Error("register candidate failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelRecordResponse(record))
}

func (h *Handler) ListModels(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.ModelListFilter{
		Stage:  c.Query("stage"),
		Limit:  limit,
		Offset: offset,
	}

	records, total, err := h.registrySvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list models failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelRecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, dto.ToModelRecordResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListModelRecordsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	record, err := h.registrySvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelRecordResponse(record))
}

func (h *Handler) TagModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	var req dto.TagModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.registrySvc.Tag(c.Request.Context(), id, req.StageTag)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelRecordResponse(record))
}

func (h *Handler) GetChampion(c *gin.Context) {
	record, err := h.registrySvc.GetProductionModel(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelRecordResponse(record))
}
