package vapi_webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/calllog"
	slotRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/slot"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/normalizer"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/calls"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/catalog"
	catalogModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/catalog/models"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/faq"
	bookAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/book_appointment"
	cancelAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/cancel_appointment"
	checkAvailability "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/check_availability"
	findAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/find_appointment"
	rescheduleAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/logger"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/memtx"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC) }

type recordingMetrics struct {
	mu        sync.Mutex
	outcomes  map[string]string
	conflicts []string
}

func (m *recordingMetrics) ObserveFunctionCall(function, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[function] = outcome
}

func (m *recordingMetrics) IncSlotConflict(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts = append(m.conflicts, operation)
}

// brokenFinder ломается на любом запросе
type brokenFinder struct{}

func (brokenFinder) Execute(context.Context, *findAppointment.Request) (*findAppointment.Response, error) {
	return nil, errors.New("find_appointment: internal error")
}

// slowChecker ждёт отмены контекста
type slowChecker struct{}

func (slowChecker) Execute(ctx context.Context, _ *checkAvailability.Request) (*checkAvailability.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fixture struct {
	handler *Handler
	logs    *calllog.MemoryRepository
	calls   *calls.Service
	metrics *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tp := fixedClock{}
	norm := normalizer.New(time.UTC, tp)
	slots := slotRepo.NewMemoryRepository()
	appointments := appointmentRepo.NewMemoryRepository().WithTimeProvider(tp)
	tx := memtx.NewManager()
	log := logger.NewNop()

	book := bookAppointment.NewUseCase(slots, appointments, tx, norm, log)
	_, err := catalog.NewService(slots, book, time.UTC, tp, log).Seed(context.Background(), catalogModels.DefaultSeed())
	require.NoError(t, err)

	clinic := domain.ClinicInfo{Name: "SmileCare Orthodontics", Phone: "(555) 123-4567"}
	logs := calllog.NewMemoryRepository(100)
	callsSvc := calls.NewService(logs, nil, clinic, tp, log)
	metrics := &recordingMetrics{outcomes: map[string]string{}}

	handler := NewHandler(
		UseCases{
			CheckAvailability:     checkAvailability.NewUseCase(slots, norm, log),
			BookAppointment:       book,
			FindAppointment:       findAppointment.NewUseCase(appointments, log),
			RescheduleAppointment: rescheduleAppointment.NewUseCase(slots, appointments, tx, norm, log),
			CancelAppointment:     cancelAppointment.NewUseCase(slots, appointments, tx, log),
		},
		faq.NewService(clinic, log),
		callsSvc,
		metrics,
		time.Second,
		log,
	)

	return &fixture{handler: handler, logs: logs, calls: callsSvc, metrics: metrics}
}

func (f *fixture) post(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/vapi/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.Handle(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func functionCall(name, params string) string {
	return `{"message":{"type":"function-call","functionCall":{"name":"` + name + `","parameters":` + params + `}},"call":{"id":"call-1","customer":{"number":"+15550100101"}}}`
}

func result(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	res, ok := body["result"].(map[string]interface{})
	require.True(t, ok, "result envelope missing: %v", body)
	return res
}

func TestHandler_CheckAvailability(t *testing.T) {
	f := newFixture(t)

	rec, body := f.post(t, functionCall(FnCheckAvailability, `{"date":"2026-02-18"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	res := result(t, body)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "We have 4 available time slots.", res["message"])

	slots := res["availableSlots"].([]interface{})
	require.Len(t, slots, 4)
	first := slots[0].(map[string]interface{})
	assert.Equal(t, "2026-02-18", first["date"])
	assert.Equal(t, "9:00 AM", first["time"])
	assert.Equal(t, "Wednesday, February 18 at 9:00 AM", first["display"])
	assert.Equal(t, outcomeSuccess, f.metrics.outcomes[FnCheckAvailability])
}

func TestHandler_StringifiedParameters(t *testing.T) {
	f := newFixture(t)

	_, body := f.post(t, functionCall(FnCheckAvailability, `"{\"date\":\"2026-02-19\",\"preferredTime\":\"afternoon\"}"`))

	res := result(t, body)
	assert.Equal(t, true, res["success"])
	assert.Len(t, res["availableSlots"], 1)
}

func TestHandler_BookTwiceCountsConflict(t *testing.T) {
	f := newFixture(t)
	params := `{"patientName":"Ann","phone":"555-010-1111","date":"2026-02-18","time":"09:00","isNewPatient":"yes"}`

	_, body := f.post(t, functionCall(FnBookAppointment, params))
	res := result(t, body)
	require.Equal(t, true, res["success"])
	assert.Contains(t, res["message"], "Since this is your first visit")
	appointment := res["appointment"].(map[string]interface{})
	assert.Equal(t, "Ann", appointment["patientName"])
	assert.Equal(t, "9:00 AM", appointment["time"])

	_, body = f.post(t, functionCall(FnBookAppointment, `{"patientName":"Bob","phone":"555-010-2222","date":"2026-02-18","time":"9am"}`))
	res = result(t, body)
	assert.Equal(t, false, res["success"])
	assert.Equal(t, "I'm sorry, that time slot just became unavailable. Let me find other available times for you.", res["message"])
	assert.NotContains(t, res, "appointment")

	assert.Equal(t, []string{FnBookAppointment}, f.metrics.conflicts)
	assert.Equal(t, outcomeFailure, f.metrics.outcomes[FnBookAppointment])
}

func TestHandler_FindRescheduleCancel(t *testing.T) {
	f := newFixture(t)

	_, body := f.post(t, functionCall(FnFindAppointment, `{"phone":"(555) 010-0101"}`))
	res := result(t, body)
	require.Equal(t, true, res["success"])
	list := res["appointments"].([]interface{})
	require.Len(t, list, 1)
	id := list[0].(map[string]interface{})["id"].(float64)

	_, body = f.post(t, functionCall(FnRescheduleAppointment, `{"appointmentId":`+jsonNumber(id)+`,"newDate":"2026-02-19","newTime":"1pm"}`))
	res = result(t, body)
	require.Equal(t, true, res["success"], res["message"])
	assert.Equal(t, "1:00 PM", res["appointment"].(map[string]interface{})["time"])

	_, body = f.post(t, functionCall(FnCancelAppointment, `{"appointmentId":"`+jsonNumber(id)+`","reason":"feeling better"}`))
	res = result(t, body)
	require.Equal(t, true, res["success"])
	assert.Equal(t, "cancelled", res["appointment"].(map[string]interface{})["status"])

	_, body = f.post(t, functionCall(FnFindAppointment, `{"phone":"555-010-0101"}`))
	res = result(t, body)
	assert.Equal(t, false, res["success"])
	assert.Empty(t, res["appointments"])
}

func TestHandler_FAQAndEscalation(t *testing.T) {
	f := newFixture(t)

	_, body := f.post(t, functionCall(FnGetFAQ, `{"question":"Do you take insurance coverage?"}`))
	res := result(t, body)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "insurance", res["category"])

	_, body = f.post(t, functionCall(FnEscalateToStaff, `{"reason":"billing question","message":"caller disputes a charge"}`))
	res = result(t, body)
	assert.Equal(t, map[string]interface{}{
		"success":        true,
		"message":        "I'm transferring you to our staff now. Please hold.",
		"action":         "transfer",
		"transferNumber": "(555) 123-4567",
	}, res)

	page, err := f.calls.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, page.Logs, 3)
	assert.Equal(t, domain.CallLogFunctionCall, page.Logs[0].Type)
	assert.Equal(t, FnEscalateToStaff, page.Logs[0].Function)
	assert.Equal(t, domain.CallLogEscalation, page.Logs[1].Type)
	assert.Equal(t, "+15550100101", page.Logs[1].CallerPhone)
	assert.Equal(t, "billing question", page.Logs[1].Reason)
}

func TestHandler_UnknownFunction(t *testing.T) {
	f := newFixture(t)

	_, body := f.post(t, functionCall("order_pizza", `{}`))
	assert.Equal(t, map[string]interface{}{"success": false, "message": "Unknown function: order_pizza"}, result(t, body))

	page, err := f.calls.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, "order_pizza", page.Logs[0].Function)
	assert.False(t, *page.Logs[0].Success)
}

func TestHandler_SystemFailureEscalates(t *testing.T) {
	f := newFixture(t)
	f.handler.useCases.FindAppointment = brokenFinder{}

	rec, body := f.post(t, functionCall(FnFindAppointment, `{"phone":"555-010-0101"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	res := result(t, body)
	assert.Equal(t, false, res["success"])
	assert.Equal(t, true, res["escalate"])
	assert.Equal(t, "I apologize, but I encountered an error. Let me transfer you to our staff.", res["message"])
	assert.Equal(t, "(555) 123-4567", res["transferNumber"])
	assert.Equal(t, "find_appointment: internal error", res["error"])
	assert.Equal(t, outcomeError, f.metrics.outcomes[FnFindAppointment])
}

func TestHandler_RequestTimeout(t *testing.T) {
	f := newFixture(t)
	f.handler.useCases.CheckAvailability = slowChecker{}
	f.handler.requestTimeout = 20 * time.Millisecond

	_, body := f.post(t, functionCall(FnCheckAvailability, `{}`))
	res := result(t, body)
	assert.Equal(t, true, res["escalate"])
	assert.Equal(t, context.DeadlineExceeded.Error(), res["error"])

	// Вызов записан в журнал несмотря на таймаут
	page, err := f.calls.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, page.Logs, 1)
}

func TestHandler_InvalidParameters(t *testing.T) {
	f := newFixture(t)

	_, body := f.post(t, functionCall(FnBookAppointment, `[1,2,3]`))
	res := result(t, body)
	assert.Equal(t, true, res["escalate"])
}

func TestHandler_OtherMessages(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "status update", body: `{"message":{"type":"status-update","status":"in-progress"},"call":{"id":"c"}}`},
		{name: "unknown type", body: `{"message":{"type":"hang"}}`},
		{name: "no message", body: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := f.post(t, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, map[string]interface{}{"success": true}, body)
		})
	}

	page, err := f.calls.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, page.Logs)
}

func TestHandler_EndOfCallReport(t *testing.T) {
	f := newFixture(t)

	_, body := f.post(t, `{"message":{"type":"end-of-call-report","endedReason":"customer-ended-call","summary":"Booked"},"call":{"id":"call-9","duration":61.5}}`)
	assert.Equal(t, map[string]interface{}{"success": true}, body)

	page, err := f.calls.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	entry := page.Logs[0]
	assert.Equal(t, domain.CallLogCallEnded, entry.Type)
	assert.Equal(t, "call-9", entry.CallID)
	assert.Equal(t, 61.5, *entry.Duration)
	assert.Equal(t, "customer-ended-call", entry.EndReason)
}

func TestHandler_MalformedJSON(t *testing.T) {
	f := newFixture(t)

	rec, body := f.post(t, `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Webhook processing failed", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestNormalizeParameters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: ``, want: `{}`},
		{in: `null`, want: `{}`},
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: `"{\"a\":1}"`, want: `{"a":1}`},
		{in: `"plain"`, want: `"plain"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(normalizeParameters(json.RawMessage(tt.in))), tt.in)
	}
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
