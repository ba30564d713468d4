package agencyrepo

import (
	"context"
	"strconv"
	"sync"
)

// MemoryRange is one agency postcode range held in memory.
type MemoryRange struct {
	AgencyCode   string
	ZipcodeStart string
	ZipcodeEnd   string
}

// MemoryRepository is an in-memory AgencyRangeStore for tests and
// database-less deployments. With no ranges configured, express delivery is
// simply never eligible.
type MemoryRepository struct {
	mu     sync.RWMutex
	ranges []MemoryRange
}

// NewMemoryRepository creates an in-memory repository with the given ranges.
func NewMemoryRepository(ranges ...MemoryRange) *MemoryRepository {
	return &MemoryRepository{ranges: ranges}
}

// Add appends a range.
func (r *MemoryRepository) Add(entry MemoryRange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranges = append(r.ranges, entry)
}

// FindAgencyEntry mirrors the SQL range query: string comparison on the
// bounds, first match wins.
func (r *MemoryRepository) FindAgencyEntry(_ context.Context, agencyCode, postcode string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, entry := range r.ranges {
		if entry.AgencyCode == agencyCode &&
			entry.ZipcodeStart <= postcode &&
			entry.ZipcodeEnd >= postcode {
			return strconv.Itoa(i + 1), nil
		}
	}
	return "", nil
}
