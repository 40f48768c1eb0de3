package vapi_webhook

import (
	"context"
	"time"

	callsModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/calls/models"
	faqModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/faq/models"
	bookAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/book_appointment"
	cancelAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/cancel_appointment"
	checkAvailability "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/check_availability"
	findAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/find_appointment"
	rescheduleAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/reschedule_appointment"
)

type CheckAvailabilityUseCase interface {
	Execute(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error)
}

type BookAppointmentUseCase interface {
	Execute(ctx context.Context, req *bookAppointment.Request) (*bookAppointment.Response, error)
}

type FindAppointmentUseCase interface {
	Execute(ctx context.Context, req *findAppointment.Request) (*findAppointment.Response, error)
}

type RescheduleAppointmentUseCase interface {
	Execute(ctx context.Context, req *rescheduleAppointment.Request) (*rescheduleAppointment.Response, error)
}

type CancelAppointmentUseCase interface {
	Execute(ctx context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error)
}

type FAQService interface {
	Get(req faqModels.Request) *faqModels.Response
}

type CallsService interface {
	LogFunctionCall(ctx context.Context, call callsModels.FunctionCall) error
	LogCallEnded(ctx context.Context, report callsModels.CallEnded) error
	Escalate(ctx context.Context, req callsModels.EscalationRequest) *callsModels.EscalationResponse
	TransferNumber() string
}

type Metrics interface {
	ObserveFunctionCall(function, outcome string, duration time.Duration)
	IncSlotConflict(operation string)
}

type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
