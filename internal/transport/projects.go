package transport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/domain/project"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q, err := projectQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	projects, err := s.services.Projects.List(r.Context(), claimFrom(r), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.services.Projects.Create(r.Context(), claimFrom(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.services.Projects.Get(r.Context(), claimFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req project.UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.services.Projects.Update(r.Context(), claimFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type assignRequest struct {
	Assignees []string `json:"assignees"`
}

func (s *Server) handleAssignProject(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.services.Projects.AssignEmployees(r.Context(), claimFrom(r), chi.URLParam(r, "id"), req.Assignees)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRecomputeProjectHours(w http.ResponseWriter, r *http.Request) {
	p, err := s.services.Projects.RecomputeHours(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAddProjectUpdate(w http.ResponseWriter, r *http.Request) {
	var req project.DailyUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.services.Projects.AddDailyUpdate(r.Context(), claimFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleListProjectUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := s.services.Projects.ProjectUpdates(r.Context(), claimFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": updates})
}

func (s *Server) handleListDailyUpdates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	updates, err := s.services.Projects.DailyUpdates(r.Context(), claimFrom(r), q.Get("projectId"), q.Get("employeeId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": updates})
}

func (s *Server) handleCreateDailyUpdate(w http.ResponseWriter, r *http.Request) {
	var req project.DailyUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		s.fail(w, r, apperr.Invalid("project", "project is required"))
		return
	}
	u, err := s.services.Projects.AddDailyUpdate(r.Context(), claimFrom(r), req.ProjectID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func projectQuery(r *http.Request) (project.Query, error) {
	v := r.URL.Query()
	q := project.Query{
		Status:     project.Status(v.Get("status")),
		Priority:   project.Priority(v.Get("priority")),
		ClientType: project.ClientType(v.Get("clientType")),
		Search:     strings.TrimSpace(v.Get("search")),
		ClientID:   v.Get("clientId"),
	}
	var err error
	if q.Assigned, err = boolParam(v.Get("assigned"), "assigned"); err != nil {
		return project.Query{}, err
	}
	if q.StockMarketFlag, err = boolParam(v.Get("stockMarketFlag"), "stockMarketFlag"); err != nil {
		return project.Query{}, err
	}
	return q, nil
}

func boolParam(raw, field string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Invalid(field, field+" must be true or false")
	}
	return &b, nil
}
