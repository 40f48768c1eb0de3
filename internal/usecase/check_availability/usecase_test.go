package check_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	slotRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/slot"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/normalizer"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/logger"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC) }

type failingSlots struct{}

func (failingSlots) List(context.Context, domain.SlotFilter) ([]domain.Slot, error) {
	return nil, errors.New("connection reset")
}

func slot(date, tm string) domain.Slot {
	return domain.Slot{Date: date, Time: types.TimeString(tm)}
}

func newUseCase(t *testing.T, taken ...domain.SlotKey) *UseCase {
	t.Helper()
	ctx := context.Background()

	repo := slotRepo.NewMemoryRepository()
	_, err := repo.EnsureCatalog(ctx, []domain.Slot{
		slot("2026-02-18", "09:00"),
		slot("2026-02-18", "10:00"),
		slot("2026-02-18", "11:00"),
		slot("2026-02-18", "14:00"),
		slot("2026-02-18", "15:00"),
		slot("2026-02-19", "09:00"),
		slot("2026-02-19", "10:00"),
		slot("2026-02-19", "13:00"),
		slot("2026-02-20", "09:00"),
		slot("2026-02-20", "14:00"),
	})
	require.NoError(t, err)
	for _, key := range taken {
		require.NoError(t, repo.Reserve(ctx, key))
	}

	return NewUseCase(repo, normalizer.New(time.UTC, fixedClock{}), logger.NewNop())
}

func TestUseCase_Execute(t *testing.T) {
	tests := []struct {
		name          string
		taken         []domain.SlotKey
		req           Request
		wantSuccess   bool
		wantFailure   domain.FailureKind
		wantMessage   string
		wantDisplays  []string
		wantSlotCount int
	}{
		{
			name:        "date and morning band",
			taken:       []domain.SlotKey{{Date: "2026-02-18", Time: "11:00"}},
			req:         Request{Date: "2026-02-18", PreferredTime: "morning"},
			wantSuccess: true,
			wantMessage: "We have 2 available time slots.",
			wantDisplays: []string{
				"Wednesday, February 18 at 9:00 AM",
				"Wednesday, February 18 at 10:00 AM",
			},
			wantSlotCount: 2,
		},
		{
			name:          "tomorrow resolves against clinic clock",
			req:           Request{Date: "tomorrow", PreferredTime: "afternoon"},
			wantSuccess:   true,
			wantMessage:   "We have 2 available time slots.",
			wantDisplays:  []string{"Wednesday, February 18 at 2:00 PM", "Wednesday, February 18 at 3:00 PM"},
			wantSlotCount: 2,
		},
		{
			name:          "unparseable date searches every date",
			req:           Request{Date: "someday soon"},
			wantSuccess:   true,
			wantMessage:   "We have 10 available time slots.",
			wantSlotCount: 10,
		},
		{
			name:        "empty date falls back to next available",
			req:         Request{Date: "2026-03-01"},
			wantFailure: domain.FailureNoAvailability,
			wantMessage: "I'm sorry, we don't have any available appointments on that date. Here are the next available times.",
			wantDisplays: []string{
				"Wednesday, February 18 at 9:00 AM",
				"Wednesday, February 18 at 10:00 AM",
				"Wednesday, February 18 at 11:00 AM",
				"Wednesday, February 18 at 2:00 PM",
				"Wednesday, February 18 at 3:00 PM",
			},
		},
		{
			name:        "evening band has nothing anywhere",
			req:         Request{PreferredTime: "evening"},
			wantFailure: domain.FailureNoAvailability,
			wantMessage: "I'm sorry, we don't have any available appointments on that date. Would you like to try a different date?",
		},
		{
			name:         "fallback keeps the band",
			taken:        []domain.SlotKey{{Date: "2026-02-19", Time: "13:00"}},
			req:          Request{Date: "2026-02-19", PreferredTime: "afternoon"},
			wantFailure:  domain.FailureNoAvailability,
			wantMessage:  "I'm sorry, we don't have any available appointments on that date. Here are the next available times.",
			wantDisplays: []string{"Wednesday, February 18 at 2:00 PM", "Wednesday, February 18 at 3:00 PM", "Friday, February 20 at 2:00 PM"},
		},
		{
			name:        "unknown band is ignored",
			req:         Request{Date: "2026-02-20", PreferredTime: "whenever"},
			wantSuccess: true,
			wantMessage: "We have 2 available time slots.",
			wantDisplays: []string{
				"Friday, February 20 at 9:00 AM",
				"Friday, February 20 at 2:00 PM",
			},
			wantSlotCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(t, tt.taken...)

			resp, err := uc.Execute(context.Background(), &tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, resp.Success)
			assert.Equal(t, tt.wantFailure, resp.Failure)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Len(t, resp.Slots, tt.wantSlotCount)
			if tt.wantDisplays != nil {
				displays := make([]string, 0, len(resp.AvailableSlots))
				for _, v := range resp.AvailableSlots {
					displays = append(displays, v.Display)
				}
				assert.Equal(t, tt.wantDisplays, displays)
			}
		})
	}
}

func TestUseCase_NoBandSlotsAnywhere(t *testing.T) {
	uc := newUseCase(t,
		domain.SlotKey{Date: "2026-02-18", Time: "14:00"},
		domain.SlotKey{Date: "2026-02-18", Time: "15:00"},
		domain.SlotKey{Date: "2026-02-19", Time: "13:00"},
		domain.SlotKey{Date: "2026-02-20", Time: "14:00"},
	)

	resp, err := uc.Execute(context.Background(), &Request{PreferredTime: "afternoon"})
	require.NoError(t, err)
	assert.Equal(t, domain.FailureNoAvailability, resp.Failure)
	assert.Equal(t, "I'm sorry, we don't have any available appointments on that date. Would you like to try a different date?", resp.Message)
	assert.Empty(t, resp.AvailableSlots)
}

func TestUseCase_FallbackToOtherDate(t *testing.T) {
	uc := newUseCase(t,
		domain.SlotKey{Date: "2026-02-18", Time: "14:00"},
		domain.SlotKey{Date: "2026-02-18", Time: "15:00"},
		domain.SlotKey{Date: "2026-02-19", Time: "13:00"},
	)

	resp, err := uc.Execute(context.Background(), &Request{Date: "2026-02-18", PreferredTime: "afternoon"})
	require.NoError(t, err)
	assert.Equal(t, "I'm sorry, we don't have any available appointments on that date. Here are the next available times.", resp.Message)
	require.Len(t, resp.AvailableSlots, 1)
	assert.Equal(t, "2026-02-20", resp.AvailableSlots[0].Date)
	assert.Equal(t, "2:00 PM", resp.AvailableSlots[0].Time)
}

func TestUseCase_StoreError(t *testing.T) {
	uc := NewUseCase(failingSlots{}, normalizer.New(time.UTC, fixedClock{}), logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Date: "2026-02-18"})
	assert.ErrorIs(t, err, ErrInternal)
}
