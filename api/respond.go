package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/blog-service/errs"
	"github.com/rs/zerolog"
)

const maxRequestBodySize = 1 << 20

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONWithStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONWithStatus(w http.ResponseWriter, status int, data any) {
	// Marshal first so a failure can still produce a 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		r.WriteJSONWithStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Status:  "error",
			Details: "An unexpected error occurred",
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}

	// Add full error chain for debugging (especially useful for database errors)
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
	}
	r.WriteJSONWithStatus(w, apiErr.StatusCode, response)
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, req *http.Request, v any) error {
	body := http.MaxBytesReader(w, req.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}
