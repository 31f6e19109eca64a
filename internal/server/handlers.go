// internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"

	"provider-visibility/internal/analysis/service"
	apperrors "provider-visibility/internal/common/errors"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var input service.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errHandler.HandleHTTPError(w, r, apperrors.NewInvalidRequestError("request body must be a JSON object: "+err.Error()))
		return
	}

	output, err := s.executor.Execute(r.Context(), &input)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
