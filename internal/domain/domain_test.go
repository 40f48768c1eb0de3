package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/pkg/ptr"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

func TestTimeOfDay_Contains(t *testing.T) {
	tests := []struct {
		band TimeOfDay
		time string
		want bool
	}{
		{Morning, "08:00", true},
		{Morning, "11:59", true},
		{Morning, "12:00", false},
		{Morning, "07:30", false},
		{Afternoon, "12:00", true},
		{Afternoon, "16:59", true},
		{Afternoon, "17:00", false},
		{Evening, "17:00", true},
		{Evening, "21:00", true},
		{Evening, "16:00", false},
	}

	for _, tt := range tests {
		slot := Slot{Date: "2026-02-18", Time: types.TimeString(tt.time)}
		assert.Equal(t, tt.want, slot.InBand(tt.band), "%s %s", tt.band, tt.time)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	band, ok := ParseTimeOfDay(" Morning ")
	require.True(t, ok)
	assert.Equal(t, Morning, band)

	_, ok = ParseTimeOfDay("noon")
	assert.False(t, ok)

	_, ok = ParseTimeOfDay("")
	assert.False(t, ok)
}

func TestSortSlots(t *testing.T) {
	slots := []Slot{
		{Date: "2026-02-19", Time: "09:00"},
		{Date: "2026-02-18", Time: "14:00"},
		{Date: "2026-02-18", Time: "09:00"},
	}
	SortSlots(slots)

	assert.Equal(t, SlotKey{Date: "2026-02-18", Time: "09:00"}, slots[0].Key())
	assert.Equal(t, SlotKey{Date: "2026-02-18", Time: "14:00"}, slots[1].Key())
	assert.Equal(t, SlotKey{Date: "2026-02-19", Time: "09:00"}, slots[2].Key())
}

func TestParseAppointmentID(t *testing.T) {
	for input, want := range map[string]int64{"3": 3, " 42 ": 42, "#7": 7, "5.0": 5} {
		id, err := ParseAppointmentID(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, id, input)
	}

	for _, input := range []string{"", "abc", "-1", "0", "1.5"} {
		_, err := ParseAppointmentID(input)
		assert.ErrorIs(t, err, ErrInvalidAppointmentID, input)
	}
}

func TestAppointment_Clone(t *testing.T) {
	orig := &Appointment{ID: 1, Email: ptr.Ptr("ann@example.com"), Status: StatusConfirmed}
	clone := orig.Clone()
	*clone.Email = "changed@example.com"
	clone.Status = StatusCancelled

	assert.Equal(t, "ann@example.com", *orig.Email)
	assert.True(t, orig.IsActive())
	assert.True(t, clone.IsCancelled())
}
