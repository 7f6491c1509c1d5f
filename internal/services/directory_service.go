package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/repository"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

// CompanyInput carries the fields of a new company
type CompanyInput struct {
	Name    string `json:"company_name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// EngineerInput carries the fields of a new engineer
type EngineerInput struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// SiteInput carries the fields of a new site
type SiteInput struct {
	Name      string    `json:"site_name"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
}

// AssignmentInput links an engineer to a site. AssignedBy defaults to the actor.
type AssignmentInput struct {
	EngineerID string    `json:"engineer_id"`
	SiteID     string    `json:"site_id"`
	AssignedBy string    `json:"assigned_by"`
	AssignedOn time.Time `json:"assigned_on"`
}

// DirectoryService manages the reference tables: companies, engineers, sites
// and assignments.
type DirectoryService struct {
	companies   repository.CompanyRepository
	engineers   repository.EngineerRepository
	sites       repository.SiteRepository
	assignments repository.AssignmentRepository
	audit       *AuditService
}

func NewDirectoryService(repos *repository.Repositories, audit *AuditService) *DirectoryService {
	return &DirectoryService{
		companies:   repos.Company,
		engineers:   repos.Engineer,
		sites:       repos.Site,
		assignments: repos.Assignment,
		audit:       audit,
	}
}

func (s *DirectoryService) CreateCompany(ctx context.Context, actor string, input CompanyInput) (*models.Company, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrValidation)
	}

	company := &models.Company{
		ID:      uuid.NewString(),
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
	}
	if err := checkFits(actor, company); err != nil {
		return nil, err
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	if _, err := s.audit.Log(ctx, models.ActionCreateCompany, "company", company.ID, actor, describe(company)); err != nil {
		return nil, err
	}

	logger.Info("Company created", "company_id", company.ID)
	return company, nil
}

func (s *DirectoryService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return s.companies.List(ctx)
}

// CreateEngineer adds an active engineer
func (s *DirectoryService) CreateEngineer(ctx context.Context, actor string, input EngineerInput) (*models.Engineer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: engineer name is required", ErrValidation)
	}
	if input.Role == "" {
		input.Role = models.RoleSiteEngineer
	}
	if !models.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}

	engineer := &models.Engineer{
		ID:     uuid.NewString(),
		Name:   input.Name,
		Role:   input.Role,
		Phone:  input.Phone,
		Email:  input.Email,
		Active: true,
	}
	if err := checkFits(actor, engineer); err != nil {
		return nil, err
	}
	if err := s.engineers.Create(ctx, engineer); err != nil {
		return nil, fmt.Errorf("failed to create engineer: %w", err)
	}
	if _, err := s.audit.Log(ctx, models.ActionCreateEngineer, "engineer", engineer.ID, actor, describe(engineer)); err != nil {
		return nil, err
	}

	logger.Info("Engineer created", "engineer_id", engineer.ID, "role", engineer.Role)
	return engineer, nil
}

func (s *DirectoryService) ListEngineers(ctx context.Context) ([]models.Engineer, error) {
	return s.engineers.List(ctx)
}

// ActiveEngineers lists engineers that can still receive allocations
func (s *DirectoryService) ActiveEngineers(ctx context.Context) ([]models.Engineer, error) {
	engineers, err := s.engineers.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]models.Engineer, 0, len(engineers))
	for _, e := range engineers {
		if e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

func (s *DirectoryService) FindEngineer(ctx context.Context, id string) (*models.Engineer, error) {
	engineer, err := s.engineers.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return engineer, err
}

// CreateSite opens an ongoing site with no end date
func (s *DirectoryService) CreateSite(ctx context.Context, actor string, input SiteInput) (*models.Site, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: site name is required", ErrValidation)
	}
	start := input.StartDate
	if start.IsZero() {
		start = models.Today()
	}

	site := &models.Site{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Location:  input.Location,
		StartDate: start,
		Status:    models.SiteStatusOngoing,
	}
	if err := checkFits(actor, site); err != nil {
		return nil, err
	}
	if err := s.sites.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}
	if _, err := s.audit.Log(ctx, models.ActionCreateSite, "site", site.ID, actor, describe(site)); err != nil {
		return nil, err
	}

	logger.Info("Site created", "site_id", site.ID)
	return site, nil
}

func (s *DirectoryService) ListSites(ctx context.Context) ([]models.Site, error) {
	return s.sites.List(ctx)
}

func (s *DirectoryService) FindSite(ctx context.Context, id string) (*models.Site, error) {
	site, err := s.sites.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return site, err
}

// AssignEngineer records an active assignment. Ids are not checked against
// the engineers and sites tables.
func (s *DirectoryService) AssignEngineer(ctx context.Context, actor string, input AssignmentInput) (*models.Assignment, error) {
	if input.EngineerID == "" || input.SiteID == "" {
		return nil, fmt.Errorf("%w: engineer_id and site_id are required", ErrValidation)
	}
	assignedBy := input.AssignedBy
	if assignedBy == "" {
		assignedBy = actor
	}
	assignedOn := input.AssignedOn
	if assignedOn.IsZero() {
		assignedOn = models.Today()
	}

	assignment := &models.Assignment{
		ID:         uuid.NewString(),
		EngineerID: input.EngineerID,
		SiteID:     input.SiteID,
		AssignedBy: assignedBy,
		AssignedOn: assignedOn,
		IsActive:   true,
	}
	if err := checkFits(actor, assignment); err != nil {
		return nil, err
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	if _, err := s.audit.Log(ctx, models.ActionAssignEngineer, "assignment", assignment.ID, actor, describe(assignment)); err != nil {
		return nil, err
	}

	logger.Info("Engineer assigned", "assignment_id", assignment.ID, "engineer_id", assignment.EngineerID,
		"site_id", assignment.SiteID)
	return assignment, nil
}

func (s *DirectoryService) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	return s.assignments.List(ctx)
}
