package server

import (
	"encoding/json"
	"net/http"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, templateName, data); err != nil {
		// headers are gone by now, so the failure is only logged
		s.requestLogger(r).WithError(err).WithField("template", templateName).Error("failed to render template")
	}
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to write json response")
	}
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
