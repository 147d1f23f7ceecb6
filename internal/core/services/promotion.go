package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

// PromotionService performs the atomic hand-off of the champion alias to
// an approved candidate. The swap is serialized through the repository's
// compare-and-set: of two concurrent promotions reading the same prior
// champion, exactly one wins; the loser gets ErrConcurrentPromotion and
// must re-evaluate against the new champion.
type PromotionService struct {
	records   ports.ModelRecordRepository
	alias     ports.AliasRepository
	artifacts ports.ArtifactStore
	runs      ports.PipelineRunRepository
}

func NewPromotionService(
	records ports.ModelRecordRepository,
	alias ports.AliasRepository,
	artifacts ports.ArtifactStore,
	runs ports.PipelineRunRepository,
) *PromotionService {
	return &PromotionService{records: records, alias: alias, artifacts: artifacts, runs: runs}
}

// Promote rebinds the champion alias to versionID and exports the bundle
// to the production prefix. All-or-nothing for external observers: if the
// export fails after the swap, the alias is rolled back to the previous
// holder before the error surfaces.
func (s *PromotionService) Promote(ctx context.Context, versionID uuid.UUID) (*domain.ProductionAlias, error) {
	record, err := s.records.GetByVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if record.StageTag != domain.StageApproved {
		return nil, fmt.Errorf("%w: version %s is %s", domain.ErrInvalidState, versionID, record.StageTag)
	}

	alias, err := s.promote(ctx, record)
	if err != nil {
		s.recordStage(ctx, record.LineageRef, "promotion", domain.RunStatusFailed, err.Error())
		return nil, err
	}

	s.recordStage(ctx, record.LineageRef, "promotion", domain.RunStatusSucceeded,
		fmt.Sprintf("champion=%s", versionID))
	return alias, nil
}

func (s *PromotionService) promote(ctx context.Context, record *domain.ModelRecord) (*domain.ProductionAlias, error) {
	current, err := s.alias.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read production alias: %w", err)
	}
	previous := current.CurrentVersionID

	swapped, err := s.alias.CompareAndSwap(ctx, previous, &record.VersionID)
	if err != nil {
		return nil, err
	}

	if previous != nil {
		log.WithFields(log.Fields{
			"demoted":  previous,
			"promoted": record.VersionID,
		}).Info("champion alias reassigned")
	} else {
		log.WithField("promoted", record.VersionID).Info("first champion assigned")
	}

	now := time.Now().UTC()
	metadata := map[string]string{
		"version_id":  record.VersionID.String(),
		"promoted_at": now.Format(time.RFC3339),
		"lineage_ref": record.LineageRef,
	}
	productionLocation, err := s.artifacts.ExportToProduction(ctx, record.ArtifactLocation, record.VersionID, metadata)
	if err != nil {
		if _, rbErr := s.alias.CompareAndSwap(ctx, &record.VersionID, previous); rbErr != nil {
			// The alias now points at a version without a production
			// export. Loudly surfaced; an operator must intervene.
			log.WithError(rbErr).WithField("version_id", record.VersionID).
				Error("alias rollback failed after export failure")
		}
		return nil, fmt.Errorf("%w: export artifact: %v", domain.ErrPromotion, err)
	}

	record.ProductionLocation = productionLocation
	record.PromotedAt = &now
	record.UpdatedAt = now
	if err := s.records.Update(ctx, record); err != nil {
		// The swap and export both succeeded; the alias stays. Only the
		// record metadata write is reported.
		return nil, fmt.Errorf("update promotion metadata for %s: %w", record.VersionID, err)
	}

	return swapped, nil
}

func (s *PromotionService) recordStage(ctx context.Context, lineageRef, stage string, status domain.RunStatus, message string) {
	runID, err := uuid.Parse(lineageRef)
	if err != nil {
		return
	}
	event := domain.StageEvent{Stage: stage, Status: status, Message: message, At: time.Now().UTC()}
	if err := s.runs.AppendEvent(ctx, runID, event); err != nil {
		log.WithError(err).WithField("run_id", runID).Warn("record stage event failed")
	}
}
