package gls_test

import (
	"context"
	"testing"

	"github.com/feedbridge/glsbridge/pkg/applier/gls"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestValidator(api gls.APIClient) *gls.RelayPointValidator {
	logger := otelzap.New(zap.NewNop())
	return gls.NewRelayPointValidator(api, gls.Credentials{
		UserName: "test-user",
		Password: "test-pass",
	}, logger, nil)
}

// lookupMetricsStub counts telemetry callbacks.
type lookupMetricsStub struct {
	lookups   int
	failures  int
	cacheHits int
}

func (s *lookupMetricsStub) LookupCompleted(_ float64, failed bool) {
	s.lookups++
	if failed {
		s.failures++
	}
}

func (s *lookupMetricsStub) CacheHit() {
	s.cacheHits++
}

func TestValidator_FormatCheck(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"ten digits", "1234567890", true},
		{"ten digits with surrounding spaces", "  1234567890  ", true},
		{"nine digits", "123456789", false},
		{"eleven digits", "12345678901", false},
		{"letters", "12345abcde", false},
		{"unicode digits", "１２３４５６７８９０", false},
		{"inner whitespace", "12345 67890", false},
		{"empty", "", false},
		{"blank", "   ", false},
	}

	mockAPI := gls.NewMockAPIClient()
	validator := newTestValidator(mockAPI)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: false}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, validator.IsValid(context.Background(), tt.id, cfg))
		})
	}

	// The structural check never reaches the network.
	assert.Equal(t, 0, mockAPI.Calls())
}

func TestValidator_APICheck_EchoMatch(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	validator := newTestValidator(mockAPI)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.True(t, validator.IsValid(context.Background(), "2500012345", cfg))
	assert.Equal(t, 1, mockAPI.Calls())
}

func TestValidator_APICheck_EchoMismatch(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	mockAPI.OnGetParcelShopByID = func(_ context.Context, req *gls.ParcelShopRequest) (*gls.ParcelShopResponse, error) {
		return &gls.ParcelShopResponse{
			ParcelShop: &gls.ParcelShop{ParcelShopID: "9999999999"},
		}, nil
	}
	validator := newTestValidator(mockAPI)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.False(t, validator.IsValid(context.Background(), "2500012345", cfg))
}

func TestValidator_APICheck_EmptyResponse(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	mockAPI.OnGetParcelShopByID = func(_ context.Context, _ *gls.ParcelShopRequest) (*gls.ParcelShopResponse, error) {
		return &gls.ParcelShopResponse{}, nil
	}
	validator := newTestValidator(mockAPI)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.False(t, validator.IsValid(context.Background(), "2500012345", cfg))
}

func TestValidator_APICheck_FailureCached(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	validator := newTestValidator(mockAPI)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.False(t, validator.IsValid(context.Background(), "2500012345", cfg))
	assert.False(t, validator.IsValid(context.Background(), "2500012345", cfg))

	// The failed lookup is cached as not-found; no second network call.
	assert.Equal(t, 1, mockAPI.Calls())
}

func TestValidator_APICheck_SuccessCached(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	validator := newTestValidator(mockAPI)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.True(t, validator.IsValid(context.Background(), "2500012345", cfg))
	assert.True(t, validator.IsValid(context.Background(), "2500012345", cfg))
	assert.Equal(t, 1, mockAPI.Calls())
}

func TestValidator_APICheck_BlankIDShortCircuits(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	validator := newTestValidator(mockAPI)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.False(t, validator.IsValid(context.Background(), "   ", cfg))
	assert.Equal(t, 0, mockAPI.Calls())
}

func TestValidator_APICheck_MissingCredentialsShortCircuits(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	logger := otelzap.New(zap.NewNop())
	validator := gls.NewRelayPointValidator(mockAPI, gls.Credentials{}, logger, nil)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.False(t, validator.IsValid(context.Background(), "2500012345", cfg))
	assert.Equal(t, 0, mockAPI.Calls())
}

func TestValidator_RecordsLookupTelemetry(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	stub := &lookupMetricsStub{}
	logger := otelzap.New(zap.NewNop())
	validator := gls.NewRelayPointValidator(mockAPI, gls.Credentials{
		UserName: "test-user",
		Password: "test-pass",
	}, logger, stub)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.True(t, validator.IsValid(context.Background(), "2500012345", cfg))
	assert.True(t, validator.IsValid(context.Background(), "2500012345", cfg))

	assert.Equal(t, 1, stub.lookups)
	assert.Equal(t, 0, stub.failures)
	assert.Equal(t, 1, stub.cacheHits)
}

func TestValidator_RecordsLookupFailures(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	stub := &lookupMetricsStub{}
	logger := otelzap.New(zap.NewNop())
	validator := gls.NewRelayPointValidator(mockAPI, gls.Credentials{
		UserName: "test-user",
		Password: "test-pass",
	}, logger, stub)
	cfg := gls.DeliveryConfig{CheckRelayPointIDsWithAPI: true}

	assert.False(t, validator.IsValid(context.Background(), "2500012345", cfg))
	assert.False(t, validator.IsValid(context.Background(), "2500012345", cfg))

	assert.Equal(t, 1, stub.lookups)
	assert.Equal(t, 1, stub.failures)
	assert.Equal(t, 1, stub.cacheHits)
}

func TestValidator_ParcelShop_ReturnsAddress(t *testing.T) {
	mockAPI := gls.NewMockAPIClient()
	validator := newTestValidator(mockAPI)

	shop := validator.ParcelShop(context.Background(), "2500012345")
	assert.NotNil(t, shop)
	assert.Equal(t, "2500012345", shop.ParcelShopID)
	assert.NotEmpty(t, shop.Address.Name1)
}
