package server

import (
	"net/http"

	"aimploy/pkg/types"
)

type ApplicationsPageData struct {
	Title      string
	Candidates []*types.Candidate
}

func (s *Service) handleApplications(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.candidates.Candidates(r.Context())
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to list candidates")
		s.internalServerError(w)
		return
	}

	s.renderTemplate(w, r, http.StatusOK, "page.applications", ApplicationsPageData{
		Title:      "Submitted Applications",
		Candidates: candidates,
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
