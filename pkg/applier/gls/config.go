package gls

import (
	"github.com/feedbridge/glsbridge/pkg/applier"
)

// Merchant setting names, as stored by the platform configuration framework.
const (
	KeyRelayPointDeliveryEnabled    = "is_relay_point_delivery_enabled"
	KeyExpressDeliveryEnabled       = "is_express_delivery_enabled"
	KeyHomePlusDeliveryEnabled      = "is_home_plus_delivery_enabled"
	KeyHomeDeliveryEnabled          = "is_home_delivery_enabled"
	KeyCheckRelayPointIDsWithAPI    = "check_relay_point_ids_with_gls_api"
	KeyImportMissingRelayPointNames = "import_missing_relay_point_names_from_gls_api"
	KeyOnlyApplyIfAvailable         = "only_apply_if_available"
	KeyDefaultCarrierTitle          = "default_carrier_title"
	KeyDefaultMethodTitle           = "default_method_title"
)

// Carrier-agnostic delivery variant base codes. Qualified platform method
// codes are prefixed with the carrier code (e.g. "gls_relay_point").
const (
	BaseCodeRelay    = "relay"
	BaseCodeExpress  = "express"
	BaseCodeHomePlus = "fds"
	BaseCodeHome     = "tohome"
)

// DefaultMethodSuffix is appended to a base code to derive the default
// method code used when no matching platform method is available.
const DefaultMethodSuffix = "shopping_feed"

// DeliveryConfig is the immutable set of merchant toggles driving one
// evaluation. It is built once from the settings store when the evaluation
// starts and read-only afterwards.
type DeliveryConfig struct {
	RelayPointDelivery           bool
	ExpressDelivery              bool
	HomePlusDelivery             bool
	HomeDelivery                 bool
	CheckRelayPointIDsWithAPI    bool
	ImportMissingRelayPointNames bool
	OnlyApplyIfAvailable         bool
	DefaultCarrierTitle          string
	DefaultMethodTitle           string
}

// ConfigFromSettings reads the merchant settings into a DeliveryConfig.
func ConfigFromSettings(s applier.Settings) DeliveryConfig {
	cfg := DeliveryConfig{
		RelayPointDelivery:           s.Bool(KeyRelayPointDeliveryEnabled),
		ExpressDelivery:              s.Bool(KeyExpressDeliveryEnabled),
		HomePlusDelivery:             s.Bool(KeyHomePlusDeliveryEnabled),
		HomeDelivery:                 s.Bool(KeyHomeDeliveryEnabled),
		CheckRelayPointIDsWithAPI:    s.Bool(KeyCheckRelayPointIDsWithAPI),
		ImportMissingRelayPointNames: s.Bool(KeyImportMissingRelayPointNames),
		OnlyApplyIfAvailable:         s.Bool(KeyOnlyApplyIfAvailable),
		DefaultCarrierTitle:          s.String(KeyDefaultCarrierTitle),
		DefaultMethodTitle:           s.String(KeyDefaultMethodTitle),
	}
	if cfg.DefaultCarrierTitle == "" {
		cfg.DefaultCarrierTitle = "GLS"
	}
	if cfg.DefaultMethodTitle == "" {
		cfg.DefaultMethodTitle = "Delivery"
	}
	return cfg
}

// DeliveryVariant is one entry of the priority table used for the
// alternative (non pickup-point) delivery branches.
type DeliveryVariant struct {
	BaseCode string
	Enabled  bool

	// AddressBound marks variants whose eligibility also depends on an
	// address check (currently only express, via the agency range table).
	AddressBound bool
}

// AlternativeVariants returns the non pickup-point variants in priority
// order. The priority algorithm is driven by this table, so adding a
// delivery variant means adding a row here.
func (c DeliveryConfig) AlternativeVariants() []DeliveryVariant {
	return []DeliveryVariant{
		{BaseCode: BaseCodeExpress, Enabled: c.ExpressDelivery, AddressBound: true},
		{BaseCode: BaseCodeHomePlus, Enabled: c.HomePlusDelivery},
		{BaseCode: BaseCodeHome, Enabled: c.HomeDelivery},
	}
}

// DefaultMethodCode derives the fallback method code for a delivery base
// code, used when no matching platform method is currently available.
func DefaultMethodCode(baseCode string) string {
	return baseCode + "_" + DefaultMethodSuffix
}
