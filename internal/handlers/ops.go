// Package handlers serves the bot's operational HTTP endpoints.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwebster45206/dungeon-bot/pkg/storage"
)

// NewOpsMux routes /health and /metrics.
func NewOpsMux(store storage.Storage, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/health", NewHealthHandler(store, logger))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
