package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/repository"
	"github.com/rpggio/teamportal/internal/validate"
)

// Service handles project business logic.
type Service struct {
	projects  Repository
	clients   ClientStore
	employees EmployeeLookup
	updates   UpdateStore
	tx        TxRunner
	resolver  *Resolver
	logger    *slog.Logger
}

// NewService creates a new project service. A nil tx runs linked writes
// without a transaction; partial failures are then reported as consistency
// risks.
func NewService(
	projects Repository,
	clients ClientStore,
	employees EmployeeLookup,
	updates UpdateStore,
	tx TxRunner,
	resolver *Resolver,
	logger *slog.Logger,
) *Service {
	if resolver == nil {
		resolver = NewResolver(EmployeeScopeAll)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		projects:  projects,
		clients:   clients,
		employees: employees,
		updates:   updates,
		tx:        tx,
		resolver:  resolver,
		logger:    logger,
	}
}

// Resolver returns the visibility rules the service enforces.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ClientName        string           `json:"clientName"`
	Status            Status           `json:"status"`
	Priority          Priority         `json:"priority"`
	ProjectType       string           `json:"projectType"`
	Description       string           `json:"projectDescription"`
	ClientType        ClientType       `json:"clientType"`
	StartDate         string           `json:"startDate" validate:"omitempty,day"`
	EndDate           string           `json:"endDate" validate:"omitempty,day"`
	EstHoursRequired  float64          `json:"estHoursRequired" validate:"gte=0"`
	Assignees         []string         `json:"assignees"`
	ClientID          string           `json:"client"`
	Tags              []string         `json:"tags"`
	StockMarketFlag   bool             `json:"stockMarketFlag"`
	TelegramGroupLink string           `json:"telegramGroupLink" validate:"omitempty,url"`
	WhatsappLink      string           `json:"whatsappLink" validate:"omitempty,url"`
	VAIncharge        string           `json:"vaIncharge"`
	Freelancer        string           `json:"freelancer"`
	UpdateIncharge    string           `json:"updateIncharge"`
	Milestones        []MilestoneInput `json:"milestones" validate:"omitempty,dive"`
	MilestoneDetails  string           `json:"milestoneDetails"`
	FilesLinks        []FileLink       `json:"filesLinks" validate:"omitempty,dive"`
}

// UpdateRequest holds the fields to change. Nil fields are left alone. A nil
// Assignees keeps the roster; an empty one clears it. An empty ClientID
// detaches the project from its client. Milestones and FilesLinks replace
// the stored lists when non-nil. Assigned and LeadAssignee are not inputs;
// they always follow Assignees.
type UpdateRequest struct {
	ClientName        *string          `json:"clientName"`
	Status            *Status          `json:"status"`
	Priority          *Priority        `json:"priority"`
	ProjectType       *string          `json:"projectType"`
	Description       *string          `json:"projectDescription"`
	ClientType        *ClientType      `json:"clientType"`
	StartDate         *string          `json:"startDate"`
	EndDate           *string          `json:"endDate"`
	EstHoursRequired  *float64         `json:"estHoursRequired" validate:"omitempty,gte=0"`
	Assignees         []string         `json:"assignees"`
	ClientID          *string          `json:"client"`
	Tags              []string         `json:"tags"`
	StockMarketFlag   *bool            `json:"stockMarketFlag"`
	TelegramGroupLink *string          `json:"telegramGroupLink"`
	WhatsappLink      *string          `json:"whatsappLink"`
	VAIncharge        *string          `json:"vaIncharge"`
	Freelancer        *string          `json:"freelancer"`
	UpdateIncharge    *string          `json:"updateIncharge"`
	Milestones        []MilestoneInput `json:"milestones" validate:"omitempty,dive"`
	MilestoneDetails  *string          `json:"milestoneDetails"`
	FilesLinks        []FileLink       `json:"filesLinks" validate:"omitempty,dive"`
}

// MilestoneInput describes one milestone. A blank ID gets a new one.
type MilestoneInput struct {
	ID      string          `json:"id"`
	Name    string          `json:"name" validate:"notblank"`
	DueDate string          `json:"dueDate" validate:"omitempty,day"`
	Owner   string          `json:"owner"`
	Status  MilestoneStatus `json:"status"`
	Notes   string          `json:"notes"`
}

// Create creates a project. Client-role callers get a project in the intake
// state with no assignees, attached to their own client record when they
// have one.
func (s *Service) Create(ctx context.Context, claim identity.Claim, req CreateRequest) (*Project, error) {
	if !claim.IsAdmin() && !claim.IsClient() {
		return nil, ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := checkEnums(&req.Status, &req.Priority, &req.ClientType); err != nil {
		return nil, err
	}
	start, err := parseOptionalDay("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDay("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}

	milestones, err := buildMilestones(req.Milestones)
	if err != nil {
		return nil, err
	}
	files, err := buildFileLinks(req.FilesLinks)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Project{
		ID:                uuid.NewString(),
		ClientName:        strings.TrimSpace(req.ClientName),
		Status:            req.Status,
		Priority:          req.Priority,
		ProjectType:       strings.TrimSpace(req.ProjectType),
		Description:       req.Description,
		ClientType:        req.ClientType,
		StartDate:         start,
		EndDate:           end,
		EstHoursRequired:  req.EstHoursRequired,
		Tags:              normalizeTags(req.Tags),
		StockMarketFlag:   req.StockMarketFlag,
		TelegramGroupLink: strings.TrimSpace(req.TelegramGroupLink),
		WhatsappLink:      strings.TrimSpace(req.WhatsappLink),
		VAIncharge:        strings.TrimSpace(req.VAIncharge),
		Freelancer:        strings.TrimSpace(req.Freelancer),
		UpdateIncharge:    strings.TrimSpace(req.UpdateIncharge),
		MilestoneDetails:  req.MilestoneDetails,
		CreatedBy:         claim.Subject,
		Milestones:        milestones,
		FilesLinks:        files,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if claim.IsClient() {
		p.Status = StatusContactMade
		p.Priority = PriorityMedium
		p.StockMarketFlag = false
		if p.ClientType == "" {
			p.ClientType = ClientTypeNew
		}
		p.VAIncharge, p.Freelancer, p.UpdateIncharge = "", "", ""
		p.Milestones = []Milestone{}
		NewAssignment(nil).Apply(p)
	} else {
		if p.Status == "" {
			p.Status = StatusActive
		}
		if p.Priority == "" {
			p.Priority = PriorityMedium
		}
		if p.ClientType == "" {
			p.ClientType = ClientTypeExisting
		}
		a := NewAssignment(req.Assignees)
		if err := s.checkEmployees(ctx, referencedEmployees(a.Assignees, p.StaffRefs())); err != nil {
			return nil, err
		}
		a.Apply(p)
	}

	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" && claim.IsClient() {
		clientID = claim.ClientRef
	}
	if clientID != "" {
		c, err := s.requireClient(ctx, claim, clientID)
		if err != nil {
			return nil, err
		}
		p.ClientID = c.ID
		if p.ClientName == "" {
			p.ClientName = c.Organization
		}
	}
	if p.ClientName == "" && claim.IsClient() {
		p.ClientName = strings.TrimSpace(claim.Name)
		if p.ClientName == "" {
			p.ClientName = "Client"
		}
	}
	if p.ClientName == "" {
		return nil, apperr.Invalid("clientName", "this field is required")
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.projects.Create(ctx, p); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		return s.link(ctx, p.ID, "", p.ClientID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created", "project_id", p.ID, "client_id", p.ClientID, "created_by", p.CreatedBy)
	return s.load(ctx, p.ID)
}

// CreateForClient creates a project attached to clientID.
func (s *Service) CreateForClient(ctx context.Context, claim identity.Claim, clientID string, req CreateRequest) (*Project, error) {
	if err := client.Authorize(claim, clientID); err != nil {
		return nil, err
	}
	req.ClientID = clientID
	return s.Create(ctx, claim, req)
}

// Get returns a populated project the caller may view.
func (s *Service) Get(ctx context.Context, claim identity.Claim, id string) (*Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolver.CanView(claim, p) {
		return nil, ErrForbidden
	}
	return p, nil
}

// List returns the projects visible to the caller that match q, newest first.
func (s *Service) List(ctx context.Context, claim identity.Claim, q Query) ([]Project, error) {
	if err := checkEnums(&q.Status, &q.Priority, &q.ClientType); err != nil {
		return nil, err
	}
	f := s.resolver.ListFilter(claim, q)
	if f.None {
		return []Project{}, nil
	}
	projects, err := s.projects.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Update applies req to a project. Client-role callers may edit their own
// projects but not status, priority, assignees or the stock market flag.
func (s *Service) Update(ctx context.Context, claim identity.Claim, id string, req UpdateRequest) (*Project, error) {
	if !claim.IsAdmin() && !claim.IsClient() {
		return nil, ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := checkEnumPtrs(req.Status, req.Priority, req.ClientType); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolver.CanView(claim, p) {
		return nil, ErrForbidden
	}
	if claim.IsClient() && (req.Status != nil || req.Priority != nil || req.Assignees != nil || req.StockMarketFlag != nil ||
		req.VAIncharge != nil || req.Freelancer != nil || req.UpdateIncharge != nil || req.Milestones != nil) {
		return nil, ErrForbidden
	}

	staffBefore := p.StaffRefs()
	if err := applyFields(p, req); err != nil {
		return nil, err
	}

	previousClientID := p.ClientID
	if req.ClientID != nil {
		next := strings.TrimSpace(*req.ClientID)
		switch {
		case next == p.ClientID:
		case next == "":
			if claim.IsClient() {
				return nil, ErrForbidden
			}
			p.ClientID = ""
		default:
			c, err := s.requireClient(ctx, claim, next)
			if err != nil {
				return nil, err
			}
			p.ClientID = c.ID
		}
	}

	a := NewAssignment(p.Assignees)
	var check []string
	if req.Assignees != nil {
		a = NewAssignment(req.Assignees)
		check = a.Assignees
	}
	if !slices.Equal(staffBefore, p.StaffRefs()) {
		check = referencedEmployees(check, p.StaffRefs())
	}
	if err := s.checkEmployees(ctx, check); err != nil {
		return nil, err
	}
	a.Apply(p)

	p.UpdatedBy = claim.Subject
	p.UpdatedAt = time.Now().UTC()

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.projects.Update(ctx, p); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("updating project: %w", err)
		}
		if p.ClientID == previousClientID {
			return nil
		}
		return s.link(ctx, p.ID, previousClientID, p.ClientID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "project_id", p.ID, "updated_by", p.UpdatedBy)
	return s.load(ctx, p.ID)
}

// ClientProjects lists the projects attached to clientID.
func (s *Service) ClientProjects(ctx context.Context, claim identity.Claim, clientID string) ([]Project, error) {
	if err := client.Authorize(claim, clientID); err != nil {
		return nil, err
	}
	if _, err := s.requireClient(ctx, claim, clientID); err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx, Filter{ClientID: clientID})
	if err != nil {
		return nil, fmt.Errorf("listing client projects: %w", err)
	}
	return projects, nil
}

// Assignments lists the projects an employee is on. Staff may only ask
// about themselves.
func (s *Service) Assignments(ctx context.Context, claim identity.Claim, employeeID string) ([]Project, error) {
	switch {
	case claim.IsAdmin():
	case claim.IsStaff():
		if claim.EmployeeRef == "" || claim.EmployeeRef != employeeID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	if err := s.checkEmployees(ctx, []string{employeeID}); err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx, Filter{AssigneeID: employeeID})
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	return projects, nil
}

func (s *Service) load(ctx context.Context, id string) (*Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

func (s *Service) requireClient(ctx context.Context, claim identity.Claim, clientID string) (*client.Client, error) {
	if claim.IsClient() && claim.ClientRef != clientID {
		return nil, ErrForbidden
	}
	c, err := s.clients.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, client.ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return c, nil
}

func (s *Service) checkEmployees(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.employees.Missing(ctx, ids)
	if err != nil {
		return fmt.Errorf("checking employees: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", employee.ErrEmployeeNotFound, strings.Join(missing, ", "))
	}
	return nil
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.InTx(ctx, fn)
}

func applyFields(p *Project, req UpdateRequest) error {
	if req.ClientName != nil {
		name := strings.TrimSpace(*req.ClientName)
		if name == "" {
			return apperr.Invalid("clientName", "clientName must not be blank")
		}
		p.ClientName = name
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}
	if req.ProjectType != nil {
		p.ProjectType = strings.TrimSpace(*req.ProjectType)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ClientType != nil {
		p.ClientType = *req.ClientType
	}
	if req.StartDate != nil {
		day, err := parseOptionalDay("startDate", *req.StartDate)
		if err != nil {
			return err
		}
		p.StartDate = day
	}
	if req.EndDate != nil {
		day, err := parseOptionalDay("endDate", *req.EndDate)
		if err != nil {
			return err
		}
		p.EndDate = day
	}
	if req.EstHoursRequired != nil {
		p.EstHoursRequired = *req.EstHoursRequired
	}
	if req.Tags != nil {
		p.Tags = normalizeTags(req.Tags)
	}
	if req.StockMarketFlag != nil {
		p.StockMarketFlag = *req.StockMarketFlag
	}
	if req.TelegramGroupLink != nil {
		p.TelegramGroupLink = strings.TrimSpace(*req.TelegramGroupLink)
	}
	if req.WhatsappLink != nil {
		p.WhatsappLink = strings.TrimSpace(*req.WhatsappLink)
	}
	if req.VAIncharge != nil {
		p.VAIncharge = strings.TrimSpace(*req.VAIncharge)
	}
	if req.Freelancer != nil {
		p.Freelancer = strings.TrimSpace(*req.Freelancer)
	}
	if req.UpdateIncharge != nil {
		p.UpdateIncharge = strings.TrimSpace(*req.UpdateIncharge)
	}
	if req.MilestoneDetails != nil {
		p.MilestoneDetails = *req.MilestoneDetails
	}
	if req.Milestones != nil {
		milestones, err := buildMilestones(req.Milestones)
		if err != nil {
			return err
		}
		p.Milestones = milestones
	}
	if req.FilesLinks != nil {
		files, err := buildFileLinks(req.FilesLinks)
		if err != nil {
			return err
		}
		p.FilesLinks = files
	}
	return nil
}

func buildMilestones(in []MilestoneInput) ([]Milestone, error) {
	out := make([]Milestone, 0, len(in))
	for i, m := range in {
		field := fmt.Sprintf("milestones[%d]", i)
		status := m.Status
		if status == "" {
			status = MilestonePending
		}
		if !status.Valid() {
			return nil, apperr.Invalid(field+".status", fmt.Sprintf("unknown milestone status %q", m.Status))
		}
		due, err := parseOptionalDay(field+".dueDate", m.DueDate)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSpace(m.ID)
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, Milestone{
			ID:      id,
			Name:    strings.TrimSpace(m.Name),
			DueDate: due,
			Owner:   strings.TrimSpace(m.Owner),
			Status:  status,
			Notes:   m.Notes,
		})
	}
	return out, nil
}

func buildFileLinks(in []FileLink) ([]FileLink, error) {
	out := make([]FileLink, 0, len(in))
	for i, f := range in {
		if f.Type == "" {
			f.Type = FileKindLink
		}
		if f.Type != FileKindLink && f.Type != FileKindFile {
			return nil, apperr.Invalid(fmt.Sprintf("filesLinks[%d].type", i), fmt.Sprintf("unknown file type %q", f.Type))
		}
		f.Label = strings.TrimSpace(f.Label)
		f.URL = strings.TrimSpace(f.URL)
		out = append(out, f)
	}
	return out, nil
}

// referencedEmployees joins id lists without duplicates, keeping first
// occurrence order.
func referencedEmployees(lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, ids := range lists {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func checkEnums(status *Status, priority *Priority, clientType *ClientType) error {
	if *status != "" && !status.Valid() {
		return apperr.Invalid("status", fmt.Sprintf("unknown status %q", *status))
	}
	if *priority != "" && !priority.Valid() {
		return apperr.Invalid("priority", fmt.Sprintf("unknown priority %q", *priority))
	}
	if *clientType != "" && !clientType.Valid() {
		return apperr.Invalid("clientType", fmt.Sprintf("unknown client type %q", *clientType))
	}
	return nil
}

func checkEnumPtrs(status *Status, priority *Priority, clientType *ClientType) error {
	if status != nil && !status.Valid() {
		return apperr.Invalid("status", fmt.Sprintf("unknown status %q", *status))
	}
	if priority != nil && !priority.Valid() {
		return apperr.Invalid("priority", fmt.Sprintf("unknown priority %q", *priority))
	}
	if clientType != nil && !clientType.Valid() {
		return apperr.Invalid("clientType", fmt.Sprintf("unknown client type %q", *clientType))
	}
	return nil
}

func parseOptionalDay(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	day, err := validate.ParseDay(value)
	if err != nil {
		return nil, apperr.Invalid(field, field+" must be a date (YYYY-MM-DD or RFC 3339)")
	}
	return &day, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
