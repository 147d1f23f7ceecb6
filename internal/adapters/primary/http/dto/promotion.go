package dto

import (
	"time"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
)

type PromoteModelRequest struct {
	VersionID uuid.UUID `json:"version_id" binding:"required"`
}

type ProductionAliasResponse struct {
	AliasName        string     `json:"alias_name"`
	CurrentVersionID *uuid.UUID `json:"current_version_id"`
	AssignedAt       string     `json:"assigned_at"`
}

func ToProductionAliasResponse(a *domain.ProductionAlias) ProductionAliasResponse {
	return ProductionAliasResponse{
		AliasName:        a.Name,
		CurrentVersionID: a.CurrentVersionID,
		AssignedAt:       a.AssignedAt.Format(time.RFC3339),
	}
}
