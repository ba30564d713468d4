// Package applier provides an abstraction layer for marketplace shipping
// method appliers. An applier inspects a marketplace order and its shipping
// address and decides which carrier method code, if any, should be assigned
// to the quote address built for that order.
package applier

import (
	"context"
)

// Applier defines the interface that all carrier method appliers must implement.
type Applier interface {
	// CarrierCode returns the platform carrier code (e.g. "gls").
	CarrierCode() string

	// Label returns a human-readable carrier label.
	Label() string

	// Begin starts a new per-order evaluation bound to the given collaborators.
	// Each order must get its own evaluation: evaluations carry mutable
	// per-order state (such as remote lookup caches) that must never be shared
	// across orders.
	Begin(c Collaborators) Evaluation
}

// Evaluation is a single-order evaluation pass. Apply selects a method code
// and Commit persists any follow-up data for the next checkout stage. Both
// calls share the evaluation's internal state, so remote lookups performed
// during Apply are reused by Commit.
type Evaluation interface {
	// Apply decides which method code applies to the order, delegates the
	// actual assignment to the MethodAssigner collaborator, and returns the
	// assignment result. A nil result with a nil error means no method
	// applies, which is a valid terminal outcome: the caller must do nothing.
	Apply(
		ctx context.Context,
		order *MarketplaceOrder,
		shipping *MarketplaceAddress,
		quote *QuoteAddress,
		settings Settings,
	) (*Result, error)

	// Commit persists checkout follow-up data for the applied result into the
	// session collaborator. It always resets the session state first, so
	// committing a result without follow-up data is an idempotent no-op.
	Commit(ctx context.Context, quote *QuoteAddress, result *Result, settings Settings) error
}

// Collaborators bundles the per-evaluation external collaborators handed to
// an applier when an evaluation begins.
type Collaborators struct {
	// Methods yields the qualified method codes the platform currently offers
	// for the quote address.
	Methods MethodCodeProvider

	// Assigner performs the actual carrier/method assignment on the quote
	// address once the applier has chosen a method code.
	Assigner MethodAssigner

	// Session receives the data committed for the next checkout stage.
	Session SessionWriter
}

// MethodCodeProvider returns the ordered set of qualified method codes
// (carrier-prefixed) that the platform currently offers for an address.
type MethodCodeProvider interface {
	AvailableMethodCodes(ctx context.Context, quote *QuoteAddress) ([]string, error)
}

// MethodCodes is a fixed-list MethodCodeProvider for platform-computed code
// sets that are already resolved upstream.
type MethodCodes []string

// AvailableMethodCodes returns the fixed list regardless of the address.
func (m MethodCodes) AvailableMethodCodes(_ context.Context, _ *QuoteAddress) ([]string, error) {
	return m, nil
}

// MethodAssigner applies a chosen carrier method to the quote address. The
// applier only decides which code to pass in; how the platform assigns it is
// the assigner's concern.
type MethodAssigner interface {
	Assign(
		ctx context.Context,
		carrierCode string,
		methodCode string,
		order *MarketplaceOrder,
		quote *QuoteAddress,
		settings Settings,
	) (*Result, error)
}

// AssignFunc adapts a function to the MethodAssigner interface.
type AssignFunc func(
	ctx context.Context,
	carrierCode string,
	methodCode string,
	order *MarketplaceOrder,
	quote *QuoteAddress,
	settings Settings,
) (*Result, error)

// Assign calls the wrapped function.
func (f AssignFunc) Assign(
	ctx context.Context,
	carrierCode string,
	methodCode string,
	order *MarketplaceOrder,
	quote *QuoteAddress,
	settings Settings,
) (*Result, error) {
	return f(ctx, carrierCode, methodCode, order, quote, settings)
}

// SessionWriter persists data for a later checkout stage. Appliers only write
// to the session; no read contract is required from them.
type SessionWriter interface {
	SetData(key string, value any)
}

// HealthChecker is optionally implemented by appliers that can report
// readiness of their external dependencies.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
