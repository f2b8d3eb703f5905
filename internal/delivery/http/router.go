package http

import (
	"net/http"

	"clinic-scheduling/internal/delivery/http/handler"
	"clinic-scheduling/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router             *mux.Router
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	reportHandler      *handler.ReportHandler
	auditLogHandler    *handler.AuditLogHandler
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
	metricsGatherer    prometheus.Gatherer
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	reportHandler *handler.ReportHandler,
	auditLogHandler *handler.AuditLogHandler,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	metricsGatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		reportHandler:      reportHandler,
		auditLogHandler:    auditLogHandler,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
		metricsGatherer:    metricsGatherer,
	}
}

// Setup registers every route. CORS wraps the whole router because mux
// only runs Use middleware on matched routes, and no route accepts OPTIONS.
func (r *Router) Setup() http.Handler {
	// Prometheus scrape endpoint
	r.router.Handle("/metrics", promhttp.HandlerFor(r.metricsGatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctor registry
	api.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/appointments", r.doctorHandler.GetDoctorAppointments).Methods(http.MethodGet)

	// Appointment scheduler
	api.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.CompleteAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	// Weekly reports
	reports := api.PathPrefix("/reports/specialties/{specialty}").Subrouter()
	reports.HandleFunc("/utilization", r.reportHandler.GetUtilization).Methods(http.MethodGet)
	reports.HandleFunc("/performance", r.reportHandler.GetPerformance).Methods(http.MethodGet)

	api.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
