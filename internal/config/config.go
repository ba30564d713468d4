package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// GLS
	GLSUsername   string `envconfig:"GLS_API_USERNAME"`
	GLSPassword   string `envconfig:"GLS_API_PASSWORD"`
	GLSWSDLURL    string `envconfig:"GLS_WSDL_URL" default:"https://wsclient.gls-france.com/SoapGI/SoapGI.asmx?wsdl"`
	GLSAgencyCode string `envconfig:"GLS_AGENCY_CODE"`
	GLSEnabled    bool   `envconfig:"GLS_ENABLED" default:"true"`
	GLSUseMock    bool   `envconfig:"GLS_USE_MOCK" default:"false"`

	// Storage
	DatabaseDSN string `envconfig:"DATABASE_DSN"`

	// Sessions
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"gls-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("gls.enabled", c.GLSEnabled),
		attribute.Bool("gls.mock", c.GLSUseMock),
	}
}
