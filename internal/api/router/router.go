package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/voxcare-ai/voxcare-server/internal/appointments"
	"github.com/voxcare-ai/voxcare-server/internal/conversation"
	httpmiddleware "github.com/voxcare-ai/voxcare-server/internal/http/middleware"
	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	TranscriptStream    http.Handler
	AppointmentsHandler *appointments.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ConversationHandler != nil {
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/utterance", cfg.ConversationHandler.Utterance)
			r.Post("/language", cfg.ConversationHandler.Language)
			r.Get("/transcript", cfg.ConversationHandler.Transcript)
			if cfg.TranscriptStream != nil {
				r.Handle("/stream", cfg.TranscriptStream)
			}
		})
	}

	if cfg.AppointmentsHandler != nil {
		r.Post("/log-appointment", cfg.AppointmentsHandler.LogAppointment)
		r.Get("/appointments", cfg.AppointmentsHandler.ListAppointments)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
