package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/me/taskflow/pkg/model"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	uid := chi.URLParam(r, "uid")

	opts := model.DefaultListOptions()
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest,
				model.NewValidationError("invalid limit", model.FieldError{Field: "limit", Message: err.Error()}))
			return
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest,
				model.NewValidationError("invalid offset", model.FieldError{Field: "offset", Message: err.Error()}))
			return
		}
		opts.Offset = n
	}
	opts.Status = model.TaskStatus(q.Get("status"))
	opts.Clamp()

	tasks, total, err := s.service.ListTasks(r.Context(), uid, opts)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*model.TaskRecord{}
	}

	respondList(w, reqID, tasks, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(tasks) < total,
	})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	uid := chi.URLParam(r, "uid")

	var task model.Task
	if !decodeJSON(w, r, reqID, &task) {
		return
	}

	rec, err := s.service.CreateTask(r.Context(), uid, task)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondCreated(w, reqID, rec)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	rec, err := s.service.GetTask(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "tid"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondOK(w, reqID, rec)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var patch model.TaskPatch
	if !decodeJSON(w, r, reqID, &patch) {
		return
	}

	rec, err := s.service.UpdateTask(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "tid"), patch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondOK(w, reqID, rec)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	if err := s.service.DeleteTask(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "tid")); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondNoContent(w, reqID)
}

func (s *Server) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req struct {
		DependencyID string `json:"dependency_id"`
	}
	if !decodeJSON(w, r, reqID, &req) {
		return
	}
	if req.DependencyID == "" {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("dependency_id is required",
			model.FieldError{Field: "dependency_id", Message: "required"}))
		return
	}

	uid, tid := chi.URLParam(r, "uid"), chi.URLParam(r, "tid")
	if err := s.service.AddDependency(r.Context(), uid, tid, req.DependencyID); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondCreated(w, reqID, model.Dependency{TaskID: tid, DependencyID: req.DependencyID})
}

func (s *Server) handleRemoveDependency(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	err := s.service.RemoveDependency(r.Context(),
		chi.URLParam(r, "uid"), chi.URLParam(r, "tid"), chi.URLParam(r, "did"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondNoContent(w, reqID)
}

func (s *Server) handleScheduleUser(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	strategy := model.StrategyID(chi.URLParam(r, "strategy"))

	resp, err := s.service.ScheduleUser(r.Context(), chi.URLParam(r, "uid"), strategy)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondOK(w, reqID, resp)
}

func (s *Server) handleAnalyzeUser(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	suggestions, err := s.service.AnalyzeUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondOK(w, reqID, suggestions)
}
