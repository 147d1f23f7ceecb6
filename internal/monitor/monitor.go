// Package monitor runs the scheduled daily drift check. The HTTP endpoint
// remains the primary invocation path; the schedule just covers the
// common "check yesterday every morning" deployment without an external
// scheduler.
package monitor

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"model-gate-service/internal/core/domain"
)

type DriftChecker interface {
	DetectDrift(ctx context.Context, date string, threshold float64, referenceRef string) (*domain.DriftReport, error)
}

type Monitor struct {
	cron     *cron.Cron
	checker  DriftChecker
	schedule string
}

func New(checker DriftChecker, schedule string) *Monitor {
	return &Monitor{
		cron:     cron.New(),
		checker:  checker,
		schedule: schedule,
	}
}

func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, m.run); err != nil {
		return err
	}
	m.cron.Start()
	log.WithField("schedule", m.schedule).Info("drift monitor started")
	return nil
}

func (m *Monitor) Stop() {
	m.cron.Stop()
}

// run checks the previous UTC calendar day with the default threshold and
// reference.
func (m *Monitor) run() {
	date := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	report, err := m.checker.DetectDrift(ctx, date, 0, "")
	if err != nil {
		log.WithError(err).WithField("date", date).Error("scheduled drift check failed")
		return
	}
	log.WithFields(log.Fields{
		"date":                 date,
		"retraining_triggered": report.RetrainingTriggered,
	}).Info("scheduled drift check completed")
}
