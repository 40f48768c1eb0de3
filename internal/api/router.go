package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/middleware"
)

// Routes обработчики сервиса
type Routes struct {
	Webhook        http.HandlerFunc
	CallLogs       http.HandlerFunc
	ClearCallLogs  http.HandlerFunc
	ClinicInfo     http.HandlerFunc
	Appointments   http.HandlerFunc
	AvailableSlots http.HandlerFunc
	FAQs           http.HandlerFunc
	Stats          http.HandlerFunc
	Health         http.HandlerFunc

	WebhookSecret string
	CORSOrigins   []string

	// Metrics nil отключает метрики, MetricsHandler по умолчанию promhttp.Handler()
	Metrics        middleware.HTTPMetrics
	MetricsPath    string
	MetricsHandler http.Handler

	Logger middleware.Logger
}

// NewRouter собирает маршруты и middleware
func NewRouter(routes Routes) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	if routes.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(routes.Metrics))

		metricsHandler := routes.MetricsHandler
		if metricsHandler == nil {
			metricsHandler = promhttp.Handler()
		}
		r.Handle(routes.MetricsPath, metricsHandler).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", routes.Health).Methods(http.MethodGet)

	// ============================================================
	// VOICE PLATFORM
	// ============================================================

	vapi := r.PathPrefix("/api/vapi").Subrouter()

	secured := middleware.WebhookSecret(routes.WebhookSecret, routes.Logger)
	vapi.Handle("/webhook", secured(routes.Webhook)).Methods(http.MethodPost)

	vapi.HandleFunc("/logs", routes.CallLogs).Methods(http.MethodGet)
	vapi.HandleFunc("/logs", routes.ClearCallLogs).Methods(http.MethodDelete)

	// ============================================================
	// DASHBOARD
	// ============================================================

	dashboard := r.PathPrefix("/api/dashboard").Subrouter()
	dashboard.HandleFunc("/clinic-info", routes.ClinicInfo).Methods(http.MethodGet)
	dashboard.HandleFunc("/appointments", routes.Appointments).Methods(http.MethodGet)
	dashboard.HandleFunc("/available-slots", routes.AvailableSlots).Methods(http.MethodGet)
	dashboard.HandleFunc("/faqs", routes.FAQs).Methods(http.MethodGet)
	dashboard.HandleFunc("/stats", routes.Stats).Methods(http.MethodGet)

	// CORS и request id снаружи роутера: preflight не совпадает ни с одним маршрутом
	return middleware.RequestID(middleware.CORS(routes.CORSOrigins)(r))
}
