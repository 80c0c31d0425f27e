package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/me/taskflow/internal/service"
	"github.com/me/taskflow/pkg/model"
)

// kindCodes maps scheduling error kinds onto API error codes and statuses.
var kindCodes = map[model.ErrorKind]struct {
	code   model.ErrorCode
	status int
}{
	model.KindMissingDependency:  {model.ErrMissingDependency, http.StatusBadRequest},
	model.KindCyclicDependency:   {model.ErrCyclicDependency, http.StatusBadRequest},
	model.KindNoFeasibleSchedule: {model.ErrNoFeasibleSchedule, http.StatusBadRequest},
	model.KindNoEntryPoint:       {model.ErrNoEntryPoint, http.StatusBadRequest},
	model.KindTaskLimitExceeded:  {model.ErrTaskLimitExceeded, http.StatusBadRequest},
	model.KindInvalidTask:        {model.ErrValidation, http.StatusBadRequest},
	model.KindUnknownStrategy:    {model.ErrNotFound, http.StatusNotFound},
}

// respondServiceError translates an error from the service layer into the
// standard error envelope.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := RequestIDFromContext(r.Context())

	var schedErr *model.SchedulingError
	var apiErr *model.APIError
	var transErr *model.InvalidTransitionError

	switch {
	case errors.As(err, &schedErr):
		m, ok := kindCodes[schedErr.Kind]
		if !ok {
			m.code, m.status = model.ErrInternal, http.StatusInternalServerError
		}
		respondError(w, reqID, m.status, &model.APIError{
			Code:    m.code,
			Message: schedErr.Error(),
			Details: schedErr.Fields,
		})
	case errors.As(err, &apiErr):
		respondError(w, reqID, apiStatus(apiErr.Code), apiErr)
	case errors.As(err, &transErr):
		respondError(w, reqID, http.StatusConflict, &model.APIError{
			Code:    model.ErrConflict,
			Message: transErr.Error(),
		})
	case errors.Is(err, service.ErrNoStore):
		respondError(w, reqID, http.StatusNotImplemented, &model.APIError{
			Code:    model.ErrInternal,
			Message: err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.logger.Warn("request aborted", "request_id", reqID, "error", err)
		respondError(w, reqID, http.StatusServiceUnavailable, &model.APIError{
			Code:    model.ErrInternal,
			Message: "request aborted: " + err.Error(),
		})
	default:
		s.logger.Error("request failed", "request_id", reqID, "error", err)
		respondError(w, reqID, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: "internal error",
		})
	}
}

func apiStatus(code model.ErrorCode) int {
	switch code {
	case model.ErrValidation:
		return http.StatusBadRequest
	case model.ErrNotFound:
		return http.StatusNotFound
	case model.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
