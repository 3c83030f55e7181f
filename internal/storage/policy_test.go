package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadPolicy_Validate(t *testing.T) {
	policy := NewUploadPolicy(50<<20, DefaultAllowedTypes())

	tests := []struct {
		name      string
		mediaType string
		size      int64
		wantErr   error
	}{
		{"pdf ok", "application/pdf", 1024, nil},
		{"jpeg ok", "image/jpeg", 50 << 20, nil},
		{"ooxml spreadsheet ok", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", 10, nil},
		{"legacy word ok", "application/msword", 10, nil},
		{"executable rejected", "application/x-executable", 10, ErrUnsupportedType},
		{"zip rejected", "application/zip", 10, ErrUnsupportedType},
		{"one byte over ceiling", "application/pdf", 50<<20 + 1, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Validate(tt.mediaType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUploadPolicy_SizeCheckedBeforeType(t *testing.T) {
	// Both violations present: the enumerable reason must be deterministic.
	policy := NewUploadPolicy(100, []string{"application/pdf"})
	err := policy.Validate("application/x-executable", 101)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestCategorySet(t *testing.T) {
	set := NewCategorySet([]string{"TQM", "KPI", "TQM", ""})

	assert.True(t, set.IsValid("TQM"))
	assert.True(t, set.IsValid("KPI"))
	assert.False(t, set.IsValid("tqm"))
	assert.False(t, set.IsValid(""))
	assert.False(t, set.IsValid("OTHER"))
	assert.Equal(t, []string{"TQM", "KPI"}, set.List())

	// The returned slice is a copy.
	set.List()[0] = "mutated"
	assert.Equal(t, []string{"TQM", "KPI"}, set.List())
}
