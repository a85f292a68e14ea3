package main

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"corehabit-api/internal/coach"
	"corehabit-api/internal/config"
)

func newRouter(svc *coach.Service, logger *zap.Logger, cfg config.ServerConfig) http.Handler {
	h := &handlers{svc: svc, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods("GET")
	r.HandleFunc("/api/macros", h.computeMacros).Methods("POST")
	r.HandleFunc("/api/plans", h.createPlan).Methods("POST")
	r.HandleFunc("/api/plans/{id}", h.getPlan).Methods("GET")
	r.HandleFunc("/api/plans/{id}/checkins", h.submitCheckIn).Methods("POST")
	r.HandleFunc("/api/plans/{id}/checkins", h.listCheckIns).Methods("GET")
	r.HandleFunc("/api/progression/preview", h.preview).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(loggingMiddleware(logger, r))
}

func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)))
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
