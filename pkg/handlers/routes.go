package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes wires every endpoint and the shared middleware.
func (app *Application) Routes() http.Handler {
	router := mux.NewRouter()
	router.Use(app.RequestID, app.AccessLog, SecurityHeaders)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/recommendations", app.RecommendationsJSON).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/moods", app.MoodsJSON).Methods(http.MethodGet)
	api.HandleFunc("/genres", app.GenresJSON).Methods(http.MethodGet)

	router.HandleFunc("/healthz", app.Health).Methods(http.MethodGet)
	if app.Metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(app.Metrics, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return router
}
