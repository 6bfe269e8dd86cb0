package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	v1handlers "github.com/careline/relay/internal/api/v1/handlers"
	"github.com/careline/relay/internal/config"
	"github.com/careline/relay/internal/services"
	"github.com/careline/relay/pkg/chat"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogging()

	svcs, err := services.InitializeServices()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	router := setupRouter(svcs)

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(config.GetAllowedOrigins()),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillahandlers.ExposedHeaders([]string{chat.InteractionIDHeader}),
	)

	addr := config.GetListenAddr()
	server := &http.Server{
		Addr:              addr,
		Handler:           cors(router),
		ReadHeaderTimeout: 5 * time.Second,
		// No WriteTimeout: responses deliberately outlive the answer by the
		// keep-alive window.
	}

	log.Info().Str("addr", addr).Msg("Server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("ListenAndServe error")
	}
}

func setupRouter(svcs *services.Services) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	v1handlers.RegisterV1Routes(router, svcs)
	return router
}

func setupLogging() {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetEnvOrDefault("LOG_LEVEL", "info")))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetEnvOrDefault("LOG_FORMAT", "") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
