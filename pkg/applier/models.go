package applier

import (
	"strconv"
	"strings"
)

// MarketplaceOrder identifies the marketplace order being evaluated.
type MarketplaceOrder struct {
	ID                     string
	StoreID                string
	MarketplaceName        string
	MarketplaceOrderNumber string
}

// MarketplaceAddress is the shipping address as imported from the
// marketplace. MiscData carries marketplace-specific auxiliary data; for
// pickup-point orders it holds the relay point identifier.
type MarketplaceAddress struct {
	FirstName   string
	LastName    string
	Company     string
	Street      string
	City        string
	Postcode    string
	CountryCode string
	Phone       string
	MiscData    string
}

// QuoteAddress is the shipping address of the platform quote built for the
// order. Appliers read it to decide eligibility; the assigner collaborator
// mutates ShippingMethod once a method code is chosen, and commit stages may
// later overwrite Company for display purposes.
type QuoteAddress struct {
	Company     string
	Street      []string
	City        string
	Postcode    string
	CountryCode string

	// ShippingMethod is the qualified method code assigned to the address
	// (carrier code prefix included). Empty until an assigner has run.
	ShippingMethod string
}

// Result is the outcome of a successful method assignment.
type Result struct {
	CarrierCode  string
	MethodCode   string
	CarrierTitle string
	MethodTitle  string

	additionalData map[string]string
}

// SetAdditionalData attaches a named value to the result for later stages.
func (r *Result) SetAdditionalData(key, value string) {
	if r.additionalData == nil {
		r.additionalData = make(map[string]string)
	}
	r.additionalData[key] = value
}

// AdditionalData returns the value attached under key, or "" when absent.
func (r *Result) AdditionalData(key string) string {
	return r.additionalData[key]
}

// Settings is a read-only accessor over merchant-configured values. The
// platform owns storage and edition of the settings; appliers only read them.
type Settings interface {
	Bool(name string) bool
	String(name string) string
}

// Values is a map-backed Settings implementation, typically decoded from a
// JSON payload or assembled in tests.
type Values map[string]any

// Bool reads a boolean setting. JSON payloads may carry booleans as native
// bools, numbers or strings; all of these are coerced.
func (v Values) Bool(name string) bool {
	switch value := v[name].(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case int:
		return value != 0
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		return err == nil && parsed
	default:
		return false
	}
}

// String reads a string setting, or "" when absent or not a string.
func (v Values) String(name string) string {
	value, _ := v[name].(string)
	return value
}
