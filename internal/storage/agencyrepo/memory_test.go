package agencyrepo_test

import (
	"context"
	"testing"

	"github.com/feedbridge/glsbridge/internal/storage/agencyrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_FindAgencyEntry(t *testing.T) {
	repo := agencyrepo.NewMemoryRepository(
		agencyrepo.MemoryRange{AgencyCode: "FR0075", ZipcodeStart: "75000", ZipcodeEnd: "75999"},
		agencyrepo.MemoryRange{AgencyCode: "FR0069", ZipcodeStart: "69000", ZipcodeEnd: "69999"},
	)

	tests := []struct {
		name       string
		agencyCode string
		postcode   string
		wantEntry  bool
	}{
		{"inside first range", "FR0075", "75011", true},
		{"lower bound inclusive", "FR0075", "75000", true},
		{"upper bound inclusive", "FR0075", "75999", true},
		{"below range", "FR0075", "74999", false},
		{"above range", "FR0075", "76000", false},
		{"other agency's range", "FR0075", "69001", false},
		{"second agency matches", "FR0069", "69001", true},
		{"unknown agency", "FR0033", "75011", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := repo.FindAgencyEntry(context.Background(), tt.agencyCode, tt.postcode)
			require.NoError(t, err)
			if tt.wantEntry {
				assert.NotEmpty(t, entry)
			} else {
				assert.Empty(t, entry)
			}
		})
	}
}

func TestMemoryRepository_Empty(t *testing.T) {
	repo := agencyrepo.NewMemoryRepository()

	entry, err := repo.FindAgencyEntry(context.Background(), "FR0075", "75011")
	require.NoError(t, err)
	assert.Empty(t, entry)
}

func TestMemoryRepository_Add(t *testing.T) {
	repo := agencyrepo.NewMemoryRepository()
	repo.Add(agencyrepo.MemoryRange{AgencyCode: "FR0075", ZipcodeStart: "75000", ZipcodeEnd: "75999"})

	entry, err := repo.FindAgencyEntry(context.Background(), "FR0075", "75011")
	require.NoError(t, err)
	assert.Equal(t, "1", entry)
}
