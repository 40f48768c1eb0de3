package calls

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/calllog"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/integrations/staffalert"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/calls/models"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/logger"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC) }

type recordingNotifier struct {
	alerts []staffalert.Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, alert staffalert.Alert) error {
	n.alerts = append(n.alerts, alert)
	return n.err
}

type brokenRepo struct{}

func (brokenRepo) Append(context.Context, domain.CallLogEntry) error { return errors.New("redis down") }
func (brokenRepo) Recent(context.Context, int) ([]domain.CallLogEntry, int, error) {
	return nil, 0, errors.New("redis down")
}
func (brokenRepo) Clear(context.Context) error { return errors.New("redis down") }

var clinic = domain.ClinicInfo{
	Name:       "SmileCare Orthodontics",
	Phone:      "(555) 123-4567",
	StaffEmail: "staff@smilecareortho.com",
}

func TestService_LogFunctionCall(t *testing.T) {
	ctx := context.Background()
	repo := calllog.NewMemoryRepository(10)
	svc := NewService(repo, nil, clinic, fixedClock{}, logger.NewNop())

	err := svc.LogFunctionCall(ctx, models.FunctionCall{
		CallID:   "call-1",
		Function: "book_appointment",
		Params:   json.RawMessage(`{"date":"tomorrow"}`),
		Result:   map[string]interface{}{"success": false},
		Success:  false,
	})
	require.NoError(t, err)

	// Некорректные параметры не ломают запись
	require.NoError(t, svc.LogFunctionCall(ctx, models.FunctionCall{Function: "get_faq", Params: json.RawMessage(`{oops`), Result: "ok", Success: true}))

	page, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, page.Logs, 2)
	assert.Equal(t, 2, page.Total)

	latest, first := page.Logs[0], page.Logs[1]
	assert.Equal(t, "get_faq", latest.Function)
	assert.Nil(t, latest.Params)

	assert.Equal(t, domain.CallLogFunctionCall, first.Type)
	assert.Equal(t, "call-1", first.CallID)
	assert.JSONEq(t, `{"date":"tomorrow"}`, string(first.Params))
	assert.JSONEq(t, `{"success":false}`, string(first.Result))
	require.NotNil(t, first.Success)
	assert.False(t, *first.Success)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, fixedClock{}.Now(), first.Timestamp)
}

func TestService_LogCallEnded(t *testing.T) {
	ctx := context.Background()
	repo := calllog.NewMemoryRepository(10)
	svc := NewService(repo, nil, clinic, fixedClock{}, logger.NewNop())

	duration := 93.5
	require.NoError(t, svc.LogCallEnded(ctx, models.CallEnded{CallID: "call-2", Duration: &duration, EndReason: "customer-ended-call", Summary: "Booked a consultation"}))

	page, err := svc.Recent(ctx, 50)
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, domain.CallLogCallEnded, page.Logs[0].Type)
	assert.Equal(t, 93.5, *page.Logs[0].Duration)
	assert.Equal(t, "Booked a consultation", page.Logs[0].Summary)
}

func TestService_Escalate(t *testing.T) {
	ctx := context.Background()
	repo := calllog.NewMemoryRepository(10)
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, clinic, fixedClock{}, logger.NewNop())

	resp := svc.Escalate(ctx, models.EscalationRequest{CallID: "call-3", CallerPhone: "+15550100101", Reason: "billing", Message: "wants a refund"})
	assert.Equal(t, &models.EscalationResponse{
		Success:        true,
		Message:        "I'm transferring you to our staff now. Please hold.",
		Action:         "transfer",
		TransferNumber: "(555) 123-4567",
	}, resp)

	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, "SmileCare Orthodontics", notifier.alerts[0].Clinic)
	assert.Equal(t, "billing", notifier.alerts[0].Reason)

	page, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, domain.CallLogEscalation, page.Logs[0].Type)
	assert.Equal(t, "+15550100101", page.Logs[0].CallerPhone)
}

func TestService_EscalateSurvivesFailures(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("webhook down")}
	svc := NewService(brokenRepo{}, notifier, clinic, fixedClock{}, logger.NewNop())

	resp := svc.Escalate(context.Background(), models.EscalationRequest{Reason: "complaint"})
	assert.True(t, resp.Success)
	assert.Len(t, notifier.alerts, 1)
}

func TestService_RepositoryErrors(t *testing.T) {
	svc := NewService(brokenRepo{}, nil, clinic, fixedClock{}, logger.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.LogCallEnded(ctx, models.CallEnded{}), ErrInternal)
	_, err := svc.Recent(ctx, 5)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, svc.Clear(ctx), ErrInternal)
}

func TestService_Clear(t *testing.T) {
	ctx := context.Background()
	svc := NewService(calllog.NewMemoryRepository(10), nil, clinic, fixedClock{}, logger.NewNop())

	require.NoError(t, svc.LogCallEnded(ctx, models.CallEnded{CallID: "x"}))
	require.NoError(t, svc.Clear(ctx))

	page, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Logs)
	assert.Equal(t, 0, page.Total)
}
