package main

import (
	"context"

	"github.com/feedbridge/glsbridge/internal/config"
	"github.com/feedbridge/glsbridge/internal/jobs"
	"github.com/feedbridge/glsbridge/internal/session"
	"github.com/feedbridge/glsbridge/internal/storage/agencyrepo"
	"github.com/feedbridge/glsbridge/internal/telemetry"
	"github.com/feedbridge/glsbridge/pkg/applier"
	"github.com/feedbridge/glsbridge/pkg/applier/gls"
	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func loadConfig() (*config.Config, error) {
	// Optional .env for local development; environment wins otherwise.
	_ = godotenv.Load()
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

// initAgencyStore connects the express-eligibility range store. Without a
// configured database the service falls back to an empty in-memory store, in
// which case express delivery is never eligible.
func initAgencyStore(cfg *config.Config, logger *otelzap.Logger) (gls.AgencyRangeStore, error) {
	if cfg.DatabaseDSN == "" {
		logger.Warn("No database configured, express eligibility lookups disabled")
		return agencyrepo.NewMemoryRepository(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return agencyrepo.NewGormAgencyRepository(db), nil
}

func initSessionStore(cfg *config.Config) *session.Store {
	return session.NewStore(cfg.SessionTTL)
}

func initJobs(sessions *session.Store, logger *otelzap.Logger) *jobs.JobManager {
	return jobs.NewJobManager(sessions, logger)
}

func initApplierRegistry(
	cfg *config.Config,
	agencies gls.AgencyRangeStore,
	metrics *telemetry.Metrics,
	logger *otelzap.Logger,
	tracer trace.Tracer,
) *applier.Registry {
	registry := applier.NewRegistry()

	if cfg.GLSEnabled {
		registry.Register(gls.New(gls.Config{
			Username:   cfg.GLSUsername,
			Password:   cfg.GLSPassword,
			WSDLURL:    cfg.GLSWSDLURL,
			AgencyCode: cfg.GLSAgencyCode,
			UseMock:    cfg.GLSUseMock,
		}, agencies, logger, tracer, metrics.LookupRecorder(gls.CarrierCode)))
	}

	return registry
}
