package jobs

import (
	"time"

	"github.com/feedbridge/glsbridge/internal/session"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// SessionCleanupJob evicts expired checkout sessions every minute, so relay
// point data stashed for abandoned checkouts does not pile up.
type SessionCleanupJob struct {
	store  *session.Store
	cron   *cron.Cron
	logger *otelzap.Logger
}

// NewSessionCleanupJob creates the cleanup job for the given store.
func NewSessionCleanupJob(store *session.Store, logger *otelzap.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		store:  store,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the cleanup to run every minute.
func (j *SessionCleanupJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		if evicted := j.store.Evict(time.Now()); evicted > 0 {
			j.logger.Info("Evicted expired checkout sessions", zap.Int("count", evicted))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Session cleanup job started")
	return nil
}

// Stop stops the cleanup job.
func (j *SessionCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Session cleanup job stopped")
}
