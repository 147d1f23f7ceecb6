package handlers

import (
	"net/http"

	"model-gate-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) PromoteModel(c *gin.Context) {
	var req dto.PromoteModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alias, err := h.promoSvc.Promote(c.Request.Context(), req.VersionID)
	if err != nil {
		log.WithError(err).WithField("version_id", req.VersionID).Error("promotion failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductionAliasResponse(alias))
}
