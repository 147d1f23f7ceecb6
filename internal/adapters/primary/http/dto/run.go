package dto

import (
	"time"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
)

type CreateRunRequest struct {
	TriggerReason string `json:"trigger_reason"`
}

type UpdateRunRequest struct {
	Status string `json:"status" binding:"required"`
}

type AppendRunEventRequest struct {
	Stage   string `json:"stage" binding:"required"`
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

type StageEventResponse struct {
	Stage   string `json:"stage"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	At      string `json:"at"`
}

type PipelineRunResponse struct {
	RunID         uuid.UUID            `json:"run_id"`
	TriggerReason string               `json:"trigger_reason"`
	Status        string               `json:"status"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at"`
	Events        []StageEventResponse `json:"events"`
}

func ToPipelineRunResponse(r *domain.PipelineRun) PipelineRunResponse {
	events := make([]StageEventResponse, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, StageEventResponse{
			Stage:   e.Stage,
			Status:  string(e.Status),
			Message: e.Message,
			At:      e.At.Format(time.RFC3339),
		})
	}
	return PipelineRunResponse{
		RunID:         r.ID,
		TriggerReason: r.TriggerReason,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
		Events:        events,
	}
}
