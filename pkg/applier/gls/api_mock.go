package gls

import (
	"context"
	"sync"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGetParcelShopByID func(ctx context.Context, req *ParcelShopRequest) (*ParcelShopResponse, error)

	mu    sync.Mutex
	calls int
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Calls returns how many lookup calls were issued. Cache tests use it to
// assert that repeated validations reuse the first lookup.
func (m *MockAPIClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// GetParcelShopByID returns a mock parcel shop echoing the requested ID.
func (m *MockAPIClient) GetParcelShopByID(ctx context.Context, req *ParcelShopRequest) (*ParcelShopResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnGetParcelShopByID != nil {
		return m.OnGetParcelShopByID(ctx, req)
	}

	return &ParcelShopResponse{
		ParcelShop: &ParcelShop{
			ParcelShopID: req.ParcelShopID,
			Address: ParcelShopAddress{
				Name1:       "Relais GLS " + req.ParcelShopID,
				Street:      "1 rue de la Poste",
				ZipCode:     "75001",
				City:        "Paris",
				CountryCode: "FR",
			},
		},
	}, nil
}
