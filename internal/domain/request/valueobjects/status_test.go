package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatus(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		want    Status
		wantErr bool
	}{
		{"pending", 1, StatusPending, false},
		{"in progress", 2, StatusInProgress, false},
		{"resolved", 3, StatusResolved, false},
		{"zero", 0, 0, true},
		{"unknown", 9, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStatus(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Resolved", StatusResolved.Label())
	assert.Equal(t, "Unknown", Status(42).Label())
}

func TestStatusFromCode_NilIsPending(t *testing.T) {
	assert.Equal(t, StatusPending, StatusFromCode(nil))
	assert.Equal(t, "Pending", StatusLabelForCode(nil))

	code := 3
	assert.Equal(t, StatusResolved, StatusFromCode(&code))

	unknown := 77
	assert.Equal(t, "Unknown", StatusLabelForCode(&unknown))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusPending.IsPending())
	assert.True(t, StatusInProgress.IsInProgress())
	assert.True(t, StatusResolved.IsResolved())
	assert.False(t, StatusResolved.IsPending())
}
