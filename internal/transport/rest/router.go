// Package rest
package rest

import (
	"net/http"

	"netspeed-monitor/internal/config"
	"netspeed-monitor/internal/transport/rest/middleware"
)

type RouterDeps struct {
	Monitor *MonitorHandler
	Ws      http.HandlerFunc
	Metrics http.Handler
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg.AllowedOrigins))

	apiStack := middleware.New()
	apiStack.Use(middleware.JWT(cfg.JWTSecret))

	// HEALTH
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// METRICS
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics)
	}

	// WEBSOCKET
	if deps.Ws != nil {
		mux.HandleFunc("GET /ws", deps.Ws)
	}

	// MONITOR
	mux.Handle("GET /api/speed", apiStack.ThenFunc(deps.Monitor.Speed))
	mux.Handle("GET /api/info", apiStack.ThenFunc(deps.Monitor.Info))
	mux.Handle("GET /api/processes", apiStack.ThenFunc(deps.Monitor.Processes))
	mux.Handle("POST /api/usage/reset/{scope}", apiStack.ThenFunc(deps.Monitor.ResetUsage))

	return globalMw.Then(mux)
}
