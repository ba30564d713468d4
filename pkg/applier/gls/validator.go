package gls

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// LookupMetrics receives relay point lookup telemetry. A nil value disables
// recording.
type LookupMetrics interface {
	// LookupCompleted reports one remote lookup with its duration in seconds
	// and whether it failed.
	LookupCompleted(duration float64, failed bool)

	// CacheHit reports a lookup answered from the evaluation cache.
	CacheHit()
}

// relayPointIDPattern is the structural format of a GLS relay point ID:
// exactly ten ASCII digits.
var relayPointIDPattern = regexp.MustCompile(`^[0-9]{10}$`)

// RelayPointValidator checks relay point identifiers, either structurally or
// against the GLS API, and caches lookup results for the lifetime of one
// order evaluation. It must be constructed per evaluation and never shared
// across orders: a cached "not found" from one order must not leak into
// another order that happens to carry the same identifier.
type RelayPointValidator struct {
	api         APIClient
	credentials Credentials
	logger      *otelzap.Logger
	lookups     LookupMetrics

	// cache is keyed by the raw identifier. A nil entry records a failed or
	// impossible lookup, so repeated checks never re-issue the network call.
	cache map[string]*ParcelShop
}

// NewRelayPointValidator creates a fresh validator with an empty lookup cache.
func NewRelayPointValidator(api APIClient, credentials Credentials, logger *otelzap.Logger, lookups LookupMetrics) *RelayPointValidator {
	return &RelayPointValidator{
		api: api,
		credentials: Credentials{
			UserName: strings.TrimSpace(credentials.UserName),
			Password: strings.TrimSpace(credentials.Password),
		},
		logger:  logger,
		lookups: lookups,
		cache:   make(map[string]*ParcelShop),
	}
}

// IsValid reports whether the identifier designates a usable relay point
// under the given configuration. With the API check disabled it is a pure
// format check; with it enabled, the GLS API must resolve the identifier and
// echo it back exactly.
func (v *RelayPointValidator) IsValid(ctx context.Context, relayPointID string, cfg DeliveryConfig) bool {
	if cfg.CheckRelayPointIDsWithAPI {
		return v.ParcelShop(ctx, relayPointID) != nil
	}
	return relayPointIDPattern.MatchString(strings.TrimSpace(relayPointID))
}

// ParcelShop resolves the relay point through the GLS API, at most once per
// identifier per evaluation. It returns nil when the identifier is unknown,
// the credentials are missing, or the lookup fails; failures are cached as
// not-found and never retried within the evaluation.
func (v *RelayPointValidator) ParcelShop(ctx context.Context, relayPointID string) *ParcelShop {
	if shop, seen := v.cache[relayPointID]; seen {
		if v.lookups != nil {
			v.lookups.CacheHit()
		}
		return shop
	}
	v.cache[relayPointID] = nil

	trimmedID := strings.TrimSpace(relayPointID)
	if trimmedID == "" || v.credentials.UserName == "" || v.credentials.Password == "" {
		return nil
	}

	started := time.Now()
	resp, err := v.api.GetParcelShopByID(ctx, &ParcelShopRequest{
		Credentials:  v.credentials,
		ParcelShopID: trimmedID,
	})
	if v.lookups != nil {
		v.lookups.LookupCompleted(time.Since(started).Seconds(), err != nil)
	}
	if err != nil {
		// Fail closed: an unverifiable relay point cannot be fulfilled.
		v.logger.Warn("GLS parcel shop lookup failed",
			zap.String("relay_point_id", trimmedID),
			zap.Error(err),
		)
		return nil
	}

	if resp == nil || resp.ParcelShop == nil {
		return nil
	}

	if strings.TrimSpace(resp.ParcelShop.ParcelShopID) != trimmedID {
		v.logger.Warn("GLS parcel shop lookup echoed a different ID",
			zap.String("requested", trimmedID),
			zap.String("echoed", resp.ParcelShop.ParcelShopID),
		)
		return nil
	}

	v.cache[relayPointID] = resp.ParcelShop
	return resp.ParcelShop
}
