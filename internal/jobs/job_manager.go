// Package jobs holds the background jobs of the service.
package jobs

import (
	"fmt"

	"github.com/feedbridge/glsbridge/internal/session"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// JobManager coordinates all scheduled jobs in the service.
type JobManager struct {
	sessionCleanupJob *SessionCleanupJob
}

// NewJobManager creates a job manager wired to the given dependencies.
func NewJobManager(sessions *session.Store, logger *otelzap.Logger) *JobManager {
	return &JobManager{
		sessionCleanupJob: NewSessionCleanupJob(sessions, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.sessionCleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start session cleanup job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.sessionCleanupJob.Stop()
}
