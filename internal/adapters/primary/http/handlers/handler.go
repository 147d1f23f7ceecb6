package handlers

import (
	"model-gate-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	registrySvc *services.RegistryService
	evalSvc     *services.EvaluationService
	promoSvc    *services.PromotionService
	driftSvc    *services.DriftService
	runSvc      *services.PipelineRunService
}

func New(
	registrySvc *services.RegistryService,
	evalSvc *services.EvaluationService,
	promoSvc *services.PromotionService,
	driftSvc *services.DriftService,
	runSvc *services.PipelineRunService,
) *Handler {
	return &Handler{
		registrySvc: registrySvc,
		evalSvc:     evalSvc,
		promoSvc:    promoSvc,
		driftSvc:    driftSvc,
		runSvc:      runSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Model registry
	r.POST("/models", h.RegisterCandidate)
	r.GET("/models", h.ListModels)
	r.GET("/models/:id", h.GetModel)
	r.PATCH("/models/:id/stage", h.TagModel)
	r.GET("/champion", h.GetChampion)

	// Evaluation gate
	r.POST("/evaluations", h.CreateEvaluation)
	r.GET("/evaluations", h.ListEvaluations)
	r.GET("/evaluations/latest", h.GetLatestEvaluation)
	r.GET("/models/:id/evaluations", h.ListModelEvaluations)

	// Promotion protocol
	r.POST("/promotions", h.PromoteModel)

	// Drift detection
	r.POST("/drift-checks", h.RunDriftCheck)
	r.GET("/drift-reports", h.ListDriftReports)
	r.GET("/drift-reports/latest", h.GetLatestDriftReport)

	// Pipeline runs
	r.POST("/runs", h.CreateRun)
	r.GET("/runs/:id", h.GetRun)
	r.PATCH("/runs/:id", h.UpdateRun)
	r.POST("/runs/:id/events", h.AppendRunEvent)
}
