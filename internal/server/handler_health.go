package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Uptime     string `json:"uptime"`
	Strategies int    `json:"strategies"`
	Store      string `json:"store"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	store := "disabled"
	if s.service.HasStore() {
		store = "sqlite"
	}
	respondOK(w, reqID, healthResponse{
		Status:     "healthy",
		Version:    "0.1.0",
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Strategies: len(s.service.Strategies()),
		Store:      store,
	})
}
