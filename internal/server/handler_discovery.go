package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "taskflow API",
		Version:     "v1",
		Description: "Deadline- and dependency-aware task scheduling",
		Endpoints: []endpointInfo{
			{"/api/v1/strategies", []string{"GET"}, "List scheduling strategies"},
			{"/api/v1/schedule/{strategy}", []string{"POST"}, "Schedule a task batch with one strategy"},
			{"/api/v1/validate", []string{"POST"}, "Check a task batch for missing dependencies and cycles"},
			{"/api/v1/analysis", []string{"POST"}, "Per-task feasibility analysis of a batch"},
			{"/api/v1/users/{uid}/tasks", []string{"GET", "POST"}, "A user's stored tasks. GET accepts limit, offset and status"},
			{"/api/v1/users/{uid}/tasks/{tid}", []string{"GET", "PATCH", "DELETE"}, "Single stored task"},
			{"/api/v1/users/{uid}/tasks/{tid}/dependencies", []string{"POST"}, "Add a dependency to a stored task"},
			{"/api/v1/users/{uid}/tasks/{tid}/dependencies/{did}", []string{"DELETE"}, "Remove a dependency"},
			{"/api/v1/users/{uid}/schedule/{strategy}", []string{"POST"}, "Schedule a user's open tasks"},
			{"/api/v1/users/{uid}/analysis", []string{"GET"}, "Feasibility analysis of a user's open tasks"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
