package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"mindpath/internal/service"
	"mindpath/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	IntakeService   *service.IntakeService
	ResultService   *service.ResultService
	HealthService   *service.HealthService
	QuestionCatalog handler.QuestionCatalog
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	assessmentHandler := handler.NewAssessmentHandler(c.IntakeService, c.QuestionCatalog)
	resultHandler := handler.NewResultHandler(c.ResultService)
	healthHandler := handler.NewHealthHandler(c.HealthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/questions", assessmentHandler.ListQuestions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessments", assessmentHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{submissionId}/analysis", resultHandler.Poll).Methods("GET", "OPTIONS")

	// Health check
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
