package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/teamportal/internal/domain/checklist"
	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/project"
	"github.com/rpggio/teamportal/internal/domain/training"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.services.Clients.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req client.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.services.Clients.Create(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.services.Clients.Get(r.Context(), claimFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListClientProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.services.Projects.ClientProjects(r.Context(), claimFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleCreateClientProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.services.Projects.CreateForClient(r.Context(), claimFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleAddClientComment(w http.ResponseWriter, r *http.Request) {
	var req client.CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.services.Clients.AddComment(r.Context(), claimFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.services.Employees.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.services.Employees.Create(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	e, err := s.services.Employees.Profile(r.Context(), claimFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd employee.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.services.Employees.UpdateProfile(r.Context(), claimFrom(r), upd)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleMyDailyUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := s.services.Projects.MyDailyUpdates(r.Context(), claimFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": updates})
}

func (s *Server) handleMyChecklists(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.services.Checklists.Mine(r.Context(), claimFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"checklistStatuses": statuses})
}

func (s *Server) handleSaveChecklist(w http.ResponseWriter, r *http.Request) {
	var req checklist.SaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	status, err := s.services.Checklists.Save(r.Context(), claimFrom(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleEmployeeChecklists(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.services.Checklists.ForEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"checklistStatuses": statuses})
}

func (s *Server) handleEmployeeAssignments(w http.ResponseWriter, r *http.Request) {
	projects, err := s.services.Projects.Assignments(r.Context(), claimFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleListTraining(w http.ResponseWriter, r *http.Request) {
	opts := training.ListOptions{EmployeeID: r.URL.Query().Get("employeeId")}
	updates, err := s.services.Training.List(r.Context(), claimFrom(r), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": updates})
}

func (s *Server) handleCreateTraining(w http.ResponseWriter, r *http.Request) {
	var req training.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.services.Training.Create(r.Context(), claimFrom(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}
