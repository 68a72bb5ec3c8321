package transport

import "net/http"

func (s *Server) handleReconcileClientLinks(w http.ResponseWriter, r *http.Request) {
	report, err := s.services.Projects.ReconcileClientLinks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRecomputeAllHours(w http.ResponseWriter, r *http.Request) {
	n, err := s.services.Projects.RecomputeAllHours(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"projects": n})
}
