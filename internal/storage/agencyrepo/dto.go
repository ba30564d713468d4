package agencyrepo

// AgencyEntryDTO maps one row of the GLS agency reference table. The table
// is owned and populated by the GLS carrier integration; this service only
// issues range queries against it.
type AgencyEntryDTO struct {
	ID           uint   `gorm:"primaryKey;column:id_agency_entry"`
	AgencyCode   string `gorm:"column:agencycode;index"`
	ZipcodeStart string `gorm:"column:zipcode_start"`
	ZipcodeEnd   string `gorm:"column:zipcode_end"`
}

// TableName returns the carrier-owned table name.
func (AgencyEntryDTO) TableName() string {
	return "gls_agencies_list"
}
