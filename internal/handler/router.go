package handler

import (
	"net/http"

	"doc-qa-service/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(answerHandler *AnswerHandler, logger domain.Logger, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger), Recoverer(logger))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "doc-qa-service"})
	}).Methods("GET")

	router.HandleFunc("/answer", answerHandler.Answer).Methods("POST")

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/answer", answerHandler.Answer).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			RequestIDHeader,
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
