package repository

import (
	"context"

	"github.com/sjperalta/sitetrack-api/internal/models"
)

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	List(ctx context.Context) ([]models.Company, error)
	Create(ctx context.Context, company *models.Company) error
}

type companyRepository struct {
	t *table[models.Company]
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(store Store) CompanyRepository {
	return &companyRepository{t: &table[models.Company]{store: store, name: models.TableCompanies, decode: models.CompanyFromRow}}
}

func (r *companyRepository) List(ctx context.Context) ([]models.Company, error) {
	return r.t.list(ctx)
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.t.create(ctx, *company)
}

// EngineerRepository defines the interface for engineer data access
type EngineerRepository interface {
	List(ctx context.Context) ([]models.Engineer, error)
	FindByID(ctx context.Context, id string) (*models.Engineer, error)
	Create(ctx context.Context, engineer *models.Engineer) error
}

type engineerRepository struct {
	t *table[models.Engineer]
}

// NewEngineerRepository creates a new engineer repository
func NewEngineerRepository(store Store) EngineerRepository {
	return &engineerRepository{t: &table[models.Engineer]{store: store, name: models.TableEngineers, decode: models.EngineerFromRow}}
}

func (r *engineerRepository) List(ctx context.Context) ([]models.Engineer, error) {
	return r.t.list(ctx)
}

func (r *engineerRepository) FindByID(ctx context.Context, id string) (*models.Engineer, error) {
	return r.t.find(ctx, func(e models.Engineer) bool { return e.ID == id })
}

func (r *engineerRepository) Create(ctx context.Context, engineer *models.Engineer) error {
	return r.t.create(ctx, *engineer)
}

// SiteRepository defines the interface for site data access
type SiteRepository interface {
	List(ctx context.Context) ([]models.Site, error)
	FindByID(ctx context.Context, id string) (*models.Site, error)
	Create(ctx context.Context, site *models.Site) error
}

type siteRepository struct {
	t *table[models.Site]
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(store Store) SiteRepository {
	return &siteRepository{t: &table[models.Site]{store: store, name: models.TableSites, decode: models.SiteFromRow}}
}

func (r *siteRepository) List(ctx context.Context) ([]models.Site, error) {
	return r.t.list(ctx)
}

func (r *siteRepository) FindByID(ctx context.Context, id string) (*models.Site, error) {
	return r.t.find(ctx, func(s models.Site) bool { return s.ID == id })
}

func (r *siteRepository) Create(ctx context.Context, site *models.Site) error {
	return r.t.create(ctx, *site)
}

// AssignmentRepository defines the interface for assignment data access
type AssignmentRepository interface {
	List(ctx context.Context) ([]models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
}

type assignmentRepository struct {
	t *table[models.Assignment]
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(store Store) AssignmentRepository {
	return &assignmentRepository{t: &table[models.Assignment]{store: store, name: models.TableAssignments, decode: models.AssignmentFromRow}}
}

func (r *assignmentRepository) List(ctx context.Context) ([]models.Assignment, error) {
	return r.t.list(ctx)
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.t.create(ctx, *assignment)
}
