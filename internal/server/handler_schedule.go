package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/me/taskflow/pkg/model"
)

type validateResponse struct {
	Valid bool     `json:"valid"`
	Order []string `json:"order"`
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, s.service.Strategies())
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	strategy := model.StrategyID(chi.URLParam(r, "strategy"))

	var req model.ScheduleRequest
	if !decodeJSON(w, r, reqID, &req) {
		return
	}

	resp, err := s.service.Schedule(r.Context(), strategy, req.Tasks)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondOK(w, reqID, resp)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req model.ScheduleRequest
	if !decodeJSON(w, r, reqID, &req) {
		return
	}

	order, err := s.service.Validate(req.Tasks)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondOK(w, reqID, validateResponse{Valid: true, Order: order})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req model.ScheduleRequest
	if !decodeJSON(w, r, reqID, &req) {
		return
	}

	suggestions, err := s.service.Analyze(req.Tasks)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondOK(w, reqID, suggestions)
}
