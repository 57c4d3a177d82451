package router

import (
	"net/http"

	"github.com/BerylCAtieno/umrah-docs-api/internal/handlers"
	"github.com/BerylCAtieno/umrah-docs-api/internal/middleware"
	"github.com/BerylCAtieno/umrah-docs-api/internal/services"
	"github.com/BerylCAtieno/umrah-docs-api/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(docService services.DocumentService, maxFileSize int64, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	docHandler := handlers.NewDocumentHandler(docService, maxFileSize, logger)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Record endpoints
	api.HandleFunc("/records/{id}", docHandler.GetRecord).Methods(http.MethodGet)
	api.HandleFunc("/records/{id}/address", docHandler.UpdateAddress).Methods(http.MethodPut)
	api.HandleFunc("/records/{id}/photo", docHandler.UploadPhoto).Methods(http.MethodPost)
	api.HandleFunc("/records/{id}/photo", docHandler.DeletePhoto).Methods(http.MethodDelete)
	api.HandleFunc("/records/{id}/documents/{field}", docHandler.UploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/records/{id}/documents/{field}", docHandler.DeleteDocument).Methods(http.MethodDelete)
	api.HandleFunc("/records/{id}/documents/{field}/original", docHandler.GetOriginal).Methods(http.MethodGet)

	// CORS wraps the whole router so preflight requests are answered before
	// method matching.
	return middleware.CORS()(r)
}
