package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/voxcare-ai/voxcare-server/internal/api/router"
	"github.com/voxcare-ai/voxcare-server/internal/appointments"
	appconfig "github.com/voxcare-ai/voxcare-server/internal/config"
	"github.com/voxcare-ai/voxcare-server/internal/conversation"
	"github.com/voxcare-ai/voxcare-server/internal/observability/metrics"
	"github.com/voxcare-ai/voxcare-server/internal/sentiment"
	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

func main() {
	// Load .env if present, then configuration from the environment.
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voxcare API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	provider, err := conversation.NewGeminiProvider(ctx, conversation.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		ModelID: cfg.GeminiModelID,
	})
	if err != nil {
		logger.Error("failed to create gemini provider", "error", err)
		os.Exit(1)
	}
	defer provider.Close()

	newStore := transcriptStoreFactory(cfg, logger)

	// Persistence sink: the JSON-array file store served by this process,
	// reached by the recorder through its HTTP contract.
	store, err := appointments.NewFileStore(cfg.AppointmentsFile, logger)
	if err != nil {
		logger.Error("failed to open appointments store", "error", err)
		os.Exit(1)
	}
	appointmentsHandler := appointments.NewHandler(store, logger)

	sinkURL := cfg.AppointmentLogURL
	if sinkURL == "" {
		sinkURL = "http://127.0.0.1:" + cfg.Port
	}
	sink := appointments.NewClient(sinkURL, 10*time.Second)

	convMetrics := metrics.NewConversationMetrics(nil)

	analyzer := sentiment.NewAnalyzer(provider, cfg.SentimentTimeout, logger)
	recorder := sentiment.NewRecorder(analyzer, sink, cfg.RecorderBuffer, logger)
	defer recorder.Close()
	go watchOutcomes(recorder, convMetrics, logger)

	manager := conversation.NewManager(provider, newStore, cfg.DefaultLanguage, cfg.ModelTimeout, logger)
	defer manager.Close()
	streamHub := conversation.NewStreamHub(logger)
	defer streamHub.Close()

	dispatcher := conversation.NewDispatcher(conversation.StaticAvailability{}, convMetrics, logger)
	service := conversation.NewService(manager, dispatcher, recorder, streamHub, convMetrics, logger)
	conversationHandler := conversation.NewHandler(service, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversationHandler,
		TranscriptStream:    streamHub,
		AppointmentsHandler: appointmentsHandler,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// transcriptStoreFactory picks the per-session transcript store backend.
func transcriptStoreFactory(cfg *appconfig.Config, logger *logging.Logger) func() conversation.TranscriptStore {
	if !cfg.UseRedisTranscripts || cfg.RedisAddr == "" {
		return func() conversation.TranscriptStore {
			return conversation.NewMemoryTranscript()
		}
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	logger.Info("using redis transcript store", "addr", cfg.RedisAddr)

	return func() conversation.TranscriptStore {
		return conversation.NewRedisTranscript(client, uuid.NewString(), cfg.TranscriptTTL, nil)
	}
}

// watchOutcomes logs every enrichment outcome and feeds the metrics, so the
// fire-and-forget path stays observable.
func watchOutcomes(recorder *sentiment.Recorder, m *metrics.ConversationMetrics, logger *logging.Logger) {
	for out := range recorder.Outcomes() {
		m.ObserveSentiment(string(out.Result.Sentiment), out.AnalysisErr != nil)
		if out.PersistErr != nil {
			m.ObservePersistFailure()
			logger.Error("appointment lost: sink write failed",
				"department", out.Details.Department,
				"slot", out.Details.TimeSlot,
				"error", out.PersistErr,
			)
		}
	}
}
