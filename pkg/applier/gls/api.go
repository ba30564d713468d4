package gls

import (
	"context"
)

// EndpointGetParcelShopByID is the GLS web service operation used to resolve
// a parcel shop (relay point) by its identifier.
const EndpointGetParcelShopByID = "GetParcelShopById"

// APIClient defines the interface for GLS web service operations.
// This abstraction allows for mock implementations during testing
// and real SOAP implementations in production.
type APIClient interface {
	// GetParcelShopByID resolves a parcel shop by identifier.
	GetParcelShopByID(ctx context.Context, req *ParcelShopRequest) (*ParcelShopResponse, error)
}

// ============================================================================
// API Request/Response Types (match the GLS SOAP API structure)
// ============================================================================

// Credentials are the GLS web service credentials.
type Credentials struct {
	UserName string
	Password string
}

// ParcelShopRequest is the GetParcelShopById request.
type ParcelShopRequest struct {
	Credentials  Credentials
	ParcelShopID string
}

// ParcelShopResponse is the GetParcelShopById response. ParcelShop is nil
// when the service did not return a usable shop entry.
type ParcelShopResponse struct {
	ParcelShop *ParcelShop
}

// ParcelShop describes one relay point as returned by the GLS API. The
// service echoes the requested identifier; callers must verify that echo
// before trusting the rest of the payload.
type ParcelShop struct {
	ParcelShopID string
	Address      ParcelShopAddress
}

// ParcelShopAddress holds the display address fields of a parcel shop.
type ParcelShopAddress struct {
	Name1       string
	Name2       string
	Street      string
	ZipCode     string
	City        string
	CountryCode string
}

// APIError represents an error from the GLS API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
