package applier

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry manages registered method appliers. Registration order matters:
// the host tries appliers in order and keeps the first one that yields a
// result.
type Registry struct {
	byCode  map[string]Applier
	ordered []Applier
	mu      sync.RWMutex
}

// NewRegistry creates a new applier registry.
func NewRegistry() *Registry {
	return &Registry{
		byCode: make(map[string]Applier),
	}
}

// Register adds an applier to the registry, keeping registration order.
// Registering the same carrier code again replaces the previous applier in
// place.
func (r *Registry) Register(a Applier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := a.CarrierCode()
	if _, exists := r.byCode[code]; exists {
		for i, registered := range r.ordered {
			if registered.CarrierCode() == code {
				r.ordered[i] = a
				break
			}
		}
	} else {
		r.ordered = append(r.ordered, a)
	}
	r.byCode[code] = a
}

// Get returns an applier by carrier code.
func (r *Registry) Get(code string) (Applier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.byCode[code]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrApplierNotFound, code)
}

// All returns all registered appliers in registration order.
func (r *Registry) All() []Applier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Applier, len(r.ordered))
	copy(result, r.ordered)
	return result
}

// Names returns the carrier codes of all registered appliers in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ordered))
	for _, a := range r.ordered {
		names = append(names, a.CarrierCode())
	}
	return names
}

// Count returns the number of registered appliers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}

// ApplyFirst evaluates appliers in registration order and returns the first
// non-nil result together with the evaluation that produced it, so the caller
// can commit on the same evaluation state. A failing applier does not stop
// the pass; its error is collected as an EvaluationError carrying the carrier
// code and the next applier is tried. A nil result with no errors means no
// applier had a method to offer.
func (r *Registry) ApplyFirst(
	ctx context.Context,
	c Collaborators,
	order *MarketplaceOrder,
	shipping *MarketplaceAddress,
	quote *QuoteAddress,
	settings Settings,
) (*Result, Evaluation, []error) {
	var errs []error

	for _, a := range r.All() {
		ev := a.Begin(c)
		result, err := ev.Apply(ctx, order, shipping, quote, settings)
		if err != nil {
			errs = append(errs, &EvaluationError{Carrier: a.CarrierCode(), Err: err})
			continue
		}
		if result != nil {
			return result, ev, errs
		}
	}

	return nil, nil, errs
}

// ProbeAll pings every applier that reports health, in parallel, and returns
// the failures keyed by carrier code.
func (r *Registry) ProbeAll(ctx context.Context) map[string]error {
	failures := make(map[string]error)
	mu := &sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)

	for _, a := range r.All() {
		checker, ok := a.(HealthChecker)
		if !ok {
			continue
		}
		code := a.CarrierCode()
		g.Go(func() error {
			if err := checker.Ping(ctx); err != nil {
				mu.Lock()
				failures[code] = err
				mu.Unlock()
			}
			return nil
		})
	}

	g.Wait()
	return failures
}
