// Package agencyrepo answers express-eligibility range queries against the
// GLS agency reference table.
package agencyrepo

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
)

// GormAgencyRepository implements the gls.AgencyRangeStore contract on top
// of the carrier-owned Postgres table.
type GormAgencyRepository struct {
	db *gorm.DB
}

// NewGormAgencyRepository creates a new GORM agency repository.
func NewGormAgencyRepository(db *gorm.DB) *GormAgencyRepository {
	return &GormAgencyRepository{db: db}
}

// FindAgencyEntry returns the ID of an agency row whose postcode range
// contains the given postcode, or "" when no range matches. Postcodes are
// compared as strings, matching how the reference table stores its bounds.
func (r *GormAgencyRepository) FindAgencyEntry(ctx context.Context, agencyCode, postcode string) (string, error) {
	var dto AgencyEntryDTO

	err := r.db.WithContext(ctx).
		Where("agencycode = ?", agencyCode).
		Where("zipcode_start <= ?", postcode).
		Where("zipcode_end >= ?", postcode).
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return strconv.FormatUint(uint64(dto.ID), 10), nil
}

// AutoMigrate creates the reference table when it does not exist yet. Meant
// for development setups; production deployments share the carrier's table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&AgencyEntryDTO{})
}
