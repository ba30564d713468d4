// Package gls applies GLS delivery methods to marketplace orders. It selects
// one delivery variant (relay point, express, home plus or home) from the
// merchant toggles and the shipping address, validates relay point
// identifiers against the GLS web service, and records relay point display
// data for the carrier checkout stage.
package gls

import (
	"context"
	"strings"
	"time"

	"github.com/feedbridge/glsbridge/pkg/applier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CarrierCode is the platform carrier code prefixing qualified method codes.
const CarrierCode = "gls"

// KeyRelayPointID is the result additional-data key carrying the relay point
// identifier for pickup-point outcomes.
const KeyRelayPointID = "relay_point_id"

// SessionKeyRelayPointData is the session key under which the commit stage
// stores the relay point record for the next checkout step.
const SessionKeyRelayPointData = "gls_relay_information"

// MissingRelayPointNamePlaceholder replaces an unresolvable relay point
// display name. The GLS checkout integration refuses relay point data with
// any empty field, so the name is never left blank.
const MissingRelayPointNamePlaceholder = "__"

// AgencyRangeStore answers express-eligibility range queries against the GLS
// agency reference table. An empty entry ID means no agency covers the
// postcode.
type AgencyRangeStore interface {
	FindAgencyEntry(ctx context.Context, agencyCode, postcode string) (string, error)
}

// Config holds GLS applier configuration.
type Config struct {
	Username   string
	Password   string
	WSDLURL    string
	AgencyCode string
	UseMock    bool
}

// Applier selects and applies GLS delivery methods. It is safe for reuse
// across orders: all per-order state lives in the Evaluation returned by
// Begin.
type Applier struct {
	config    Config
	apiClient APIClient
	agencies  AgencyRangeStore
	logger    *otelzap.Logger
	tracer    trace.Tracer
	lookups   LookupMetrics
}

// New creates a new GLS applier. lookups may be nil to disable lookup
// telemetry.
func New(cfg Config, agencies AgencyRangeStore, logger *otelzap.Logger, tracer trace.Tracer, lookups LookupMetrics) *Applier {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			WSDLURL: cfg.WSDLURL,
			Timeout: 30 * time.Second,
		})
	}

	return &Applier{
		config:    cfg,
		apiClient: apiClient,
		agencies:  agencies,
		logger:    logger,
		tracer:    tracer,
		lookups:   lookups,
	}
}

// NewWithAPIClient creates a new GLS applier with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, agencies AgencyRangeStore, logger *otelzap.Logger, tracer trace.Tracer, lookups LookupMetrics) *Applier {
	return &Applier{
		config:    cfg,
		apiClient: apiClient,
		agencies:  agencies,
		logger:    logger,
		tracer:    tracer,
		lookups:   lookups,
	}
}

// CarrierCode returns the platform carrier code.
func (a *Applier) CarrierCode() string {
	return CarrierCode
}

// Label returns the carrier label.
func (a *Applier) Label() string {
	return "GLS"
}

// AgencyCode returns the configured GLS agency code, trimmed.
func (a *Applier) AgencyCode() string {
	return strings.TrimSpace(a.config.AgencyCode)
}

// Ping reports whether the applier is configured well enough to reach the
// GLS web service.
func (a *Applier) Ping(_ context.Context) error {
	if a.config.UseMock {
		return nil
	}
	if strings.TrimSpace(a.config.Username) == "" || strings.TrimSpace(a.config.Password) == "" {
		return applier.NewApplierError(CarrierCode, "MISSING_CREDENTIALS", "GLS API credentials are not configured")
	}
	if strings.TrimSpace(a.config.WSDLURL) == "" {
		return applier.NewApplierError(CarrierCode, "MISSING_ENDPOINT", "GLS WSDL URL is not configured")
	}
	return nil
}

// Begin starts a per-order evaluation. The evaluation owns a fresh relay
// point lookup cache shared by its Apply and Commit calls.
func (a *Applier) Begin(c applier.Collaborators) applier.Evaluation {
	return &Evaluation{
		applier: a,
		collab:  c,
		validator: NewRelayPointValidator(a.apiClient, Credentials{
			UserName: a.config.Username,
			Password: a.config.Password,
		}, a.logger, a.lookups),
	}
}

// Evaluation is one GLS evaluation pass over a single order.
type Evaluation struct {
	applier   *Applier
	collab    applier.Collaborators
	validator *RelayPointValidator
}

// Apply selects the GLS delivery variant for the order.
//
// The relay point branch has absolute priority: once a valid relay point ID
// resolves to a method code, the other variants are not considered. The
// remaining variants are tried in the fixed order express, home plus, home;
// express additionally requires the address to fall inside a configured
// agency postcode range. When none of the retained variants has an available
// platform method, the default code of the highest-priority retained variant
// is used instead.
func (e *Evaluation) Apply(
	ctx context.Context,
	order *applier.MarketplaceOrder,
	shipping *applier.MarketplaceAddress,
	quote *applier.QuoteAddress,
	settings applier.Settings,
) (*applier.Result, error) {
	if e.applier.tracer != nil {
		var span trace.Span
		ctx, span = e.applier.tracer.Start(ctx, "gls.apply")
		defer span.End()
	}

	cfg := ConfigFromSettings(settings)

	chosenMethodCode := ""
	relayPointID := ""
	isRelayPointDelivery := false

	if cfg.RelayPointDelivery {
		if id := strings.TrimSpace(shipping.MiscData); id != "" && e.validator.IsValid(ctx, id, cfg) {
			relayPointID = id
			chosenMethodCode = e.availableMethodCode(ctx, BaseCodeRelay, quote)

			// Do not consider other delivery variants when a valid relay
			// point ID is at hand and availability is not required.
			if chosenMethodCode == "" && !cfg.OnlyApplyIfAvailable {
				chosenMethodCode = DefaultMethodCode(BaseCodeRelay)
			}
		}
	}

	if chosenMethodCode != "" {
		isRelayPointDelivery = true
	} else {
		var candidates []string

		for _, variant := range cfg.AlternativeVariants() {
			if !variant.Enabled {
				continue
			}
			if variant.AddressBound && !e.isExpressDeliveryAvailable(ctx, quote) {
				continue
			}
			candidates = append(candidates, variant.BaseCode)
		}

		if len(candidates) == 0 {
			return nil, nil
		}

		for _, baseCode := range candidates {
			if code := e.availableMethodCode(ctx, baseCode, quote); code != "" {
				chosenMethodCode = code
				break
			}
		}

		// Only the highest-priority retained variant may fall back to its
		// default code.
		if chosenMethodCode == "" {
			chosenMethodCode = DefaultMethodCode(candidates[0])
		}
	}

	if chosenMethodCode == "" {
		return nil, nil
	}

	result, err := e.collab.Assigner.Assign(ctx, CarrierCode, chosenMethodCode, order, quote, settings)
	if err != nil {
		return nil, err
	}

	if result != nil && isRelayPointDelivery {
		result.SetAdditionalData(KeyRelayPointID, relayPointID)
	}

	e.applier.logger.Info("GLS method selected",
		zap.String("order_id", order.ID),
		zap.String("method_code", chosenMethodCode),
		zap.Bool("relay_point_delivery", isRelayPointDelivery),
	)

	return result, nil
}

// RelayPointRecord is the relay point data handed to the GLS checkout stage
// through the session.
type RelayPointRecord struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  []string `json:"address"`
	PostCode string   `json:"post_code"`
	City     string   `json:"city"`
}

// Commit stores the relay point record for the next checkout stage. The
// session state is reset first, so outcomes without a relay point always
// leave it empty. The display name falls back to the company on the quote
// address, then to the GLS API (when name import is enabled, reusing the
// lookup cached during Apply), then to a fixed placeholder.
func (e *Evaluation) Commit(
	ctx context.Context,
	quote *applier.QuoteAddress,
	result *applier.Result,
	settings applier.Settings,
) error {
	e.collab.Session.SetData(SessionKeyRelayPointData, RelayPointRecord{})

	if result == nil {
		return nil
	}

	relayPointID := result.AdditionalData(KeyRelayPointID)
	if relayPointID == "" {
		return nil
	}

	cfg := ConfigFromSettings(settings)
	name := strings.TrimSpace(quote.Company)

	if name == "" && cfg.ImportMissingRelayPointNames {
		if shop := e.validator.ParcelShop(ctx, relayPointID); shop != nil {
			name = strings.TrimSpace(shop.Address.Name1)
		}
	}

	if name == "" {
		name = MissingRelayPointNamePlaceholder
	}

	e.collab.Session.SetData(SessionKeyRelayPointData, RelayPointRecord{
		ID:       relayPointID,
		Name:     name,
		Address:  quote.Street,
		PostCode: quote.Postcode,
		City:     quote.City,
	})

	return nil
}

// availableMethodCode returns the first available method code whose
// qualified form starts with the carrier prefix and the given base code, or
// "" when the platform offers none.
func (e *Evaluation) availableMethodCode(ctx context.Context, baseCode string, quote *applier.QuoteAddress) string {
	qualifiedCodes, err := e.collab.Methods.AvailableMethodCodes(ctx, quote)
	if err != nil {
		e.applier.logger.Warn("could not list available method codes", zap.Error(err))
		return ""
	}

	qualifiedPrefix := CarrierCode + "_"

	for _, qualified := range qualifiedCodes {
		if strings.HasPrefix(qualified, qualifiedPrefix+baseCode) {
			return strings.TrimPrefix(qualified, qualifiedPrefix)
		}
	}

	return ""
}

// isExpressDeliveryAvailable reports whether express delivery can serve the
// quote address: France only, and the postcode must fall inside a range of
// the configured agency in the reference table. Missing configuration and
// lookup errors both degrade to "not available".
func (e *Evaluation) isExpressDeliveryAvailable(ctx context.Context, quote *applier.QuoteAddress) bool {
	agencyCode := e.applier.AgencyCode()
	postcode := strings.TrimSpace(quote.Postcode)
	countryCode := strings.ToUpper(strings.TrimSpace(quote.CountryCode))

	if agencyCode == "" || postcode == "" || countryCode != "FR" {
		return false
	}

	entryID, err := e.applier.agencies.FindAgencyEntry(ctx, agencyCode, postcode)
	if err != nil {
		e.applier.logger.Warn("agency range lookup failed",
			zap.String("agency_code", agencyCode),
			zap.String("postcode", postcode),
			zap.Error(err),
		)
		return false
	}

	return strings.TrimSpace(entryID) != ""
}

// BaseCodeOfMethod maps a method code back to its delivery variant base
// code, or "" when the code matches no known variant.
func BaseCodeOfMethod(methodCode string) string {
	for _, baseCode := range []string{BaseCodeRelay, BaseCodeExpress, BaseCodeHomePlus, BaseCodeHome} {
		if strings.HasPrefix(methodCode, baseCode) {
			return baseCode
		}
	}
	return ""
}
