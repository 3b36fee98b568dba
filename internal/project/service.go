// Package project provisions project boards from templates and routes
// classified issues onto them. Everything except project creation
// itself is best-effort: field, view, and link failures are logged and
// recorded as warnings, never raised as errors.
package project

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/devflowhq/devflow/config"
	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/model"
)

// Options configures a single project creation.
type Options struct {
	// Organization overrides the repository owner for config lookup.
	Organization string
	// LinkRepository links the repo to the created board.
	LinkRepository bool
	// Description feeds the {{description}} template placeholder.
	Description string
}

// Result is the outcome of one project creation.
type Result struct {
	Repo     model.RepoRef `json:"repo"`
	Project  model.Project `json:"project"`
	Reused   bool          `json:"reused"`
	Warnings []string      `json:"warnings,omitempty"`
}

// BulkError records a failed repository in a bulk run.
type BulkError struct {
	Repo  model.RepoRef `json:"repo"`
	Error string        `json:"error"`
}

// BulkResult aggregates a bulk creation run. Per-repository failures
// are collected, never raised, so callers see the complete picture.
type BulkResult struct {
	Results     []Result    `json:"results"`
	Errors      []BulkError `json:"errors,omitempty"`
	Total       int         `json:"total"`
	Successful  int         `json:"successful"`
	SuccessRate float64     `json:"successRate"`
}

// Service is the project automation service.
type Service struct {
	projects ghclient.ProjectAPI
	cfg      *config.Config
	catalog  map[string]model.ProjectTemplate
	limiter  *rate.Limiter
}

// NewService creates a Service. The catalog may be nil to use the
// built-in templates.
func NewService(projects ghclient.ProjectAPI, cfg *config.Config, catalog map[string]model.ProjectTemplate) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	perMinute := cfg.GetProjectSettings().CreationsPerMinute
	return &Service{
		projects: projects,
		cfg:      cfg,
		catalog:  catalog,
		limiter:  rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
}

// templateFor picks the organization's template, falling back to the
// team board for unknown template ids.
func (s *Service) templateFor(orgID string) model.ProjectTemplate {
	org := s.cfg.Organization(orgID)
	tpl, ok := s.catalog[org.TemplateID]
	if !ok {
		log.Warn("unknown template id, falling back to team-board", "template", org.TemplateID, "org", org.ID)
		tpl = s.catalog["team-board"]
	}
	return tpl
}

// BoardTitle returns the board title the service would create for a
// repository. orgID overrides the repository owner for template
// selection, matching Options.Organization on creation; the router
// uses the same convention to find the board, which is what makes
// creation idempotent.
func (s *Service) BoardTitle(repo model.RepoRef, orgID string) string {
	if orgID == "" {
		orgID = repo.Owner
	}
	return Instantiate(s.templateFor(orgID), repo, "").Title
}

// CreateForRepository provisions a project board for a repository from
// its organization's template. If a board with the expected title
// already exists it is reused rather than duplicated.
func (s *Service) CreateForRepository(ctx context.Context, repo model.RepoRef, opts Options) (Result, error) {
	if repo.IsZero() {
		return Result{}, ghclient.NewValidationError("repository", "owner and name are required")
	}

	owner := repo.Owner
	if opts.Organization != "" {
		owner = opts.Organization
	}
	tpl := Instantiate(s.templateFor(owner), repo, opts.Description)

	result := Result{Repo: repo}

	// Reuse an existing board with the same title.
	existing, err := s.projects.FindProjectByTitle(ctx, repo.Owner, tpl.Title)
	if err == nil {
		log.Info("reusing existing project", "repo", repo.FullName(), "project", existing.Title)
		result.Project = existing
		result.Reused = true
		return result, nil
	}
	if !errors.Is(err, ghclient.ErrNotFound) {
		return Result{}, fmt.Errorf("failed to check for existing project: %w", err)
	}

	ownerID, err := s.projects.ResolveOwnerID(ctx, repo.Owner)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve project owner: %w", err)
	}

	created, err := s.projects.CreateProject(ctx, ownerID, tpl.Title)
	if err != nil {
		return Result{}, err
	}
	log.Info("created project", "repo", repo.FullName(), "project", created.Title, "number", created.Number)

	if err := s.projects.UpdateProjectSettings(ctx, created.ID, tpl.Description, tpl.Public); err != nil {
		result.warn("project settings", err)
	}

	for _, field := range tpl.Fields {
		if _, err := s.projects.CreateField(ctx, created.ID, field); err != nil {
			result.warn(fmt.Sprintf("field %q", field.Name), err)
			continue
		}
		created.Fields = append(created.Fields, field)
	}

	for _, view := range tpl.Views {
		if err := s.projects.CreateView(ctx, created.ID, view); err != nil {
			result.warn(fmt.Sprintf("view %q", view.Name), err)
			continue
		}
		created.Views = append(created.Views, view)
	}

	if opts.LinkRepository {
		if err := s.linkRepository(ctx, created.ID, repo); err != nil {
			result.warn("repository link", err)
		} else {
			created.LinkedRepo = repo.FullName()
		}
	}

	result.Project = created
	return result, nil
}

func (s *Service) linkRepository(ctx context.Context, projectID string, repo model.RepoRef) error {
	repoID, err := s.projects.RepositoryNodeID(ctx, repo)
	if err != nil {
		return err
	}
	return s.projects.LinkRepository(ctx, projectID, repoID)
}

// CreateForRepositories provisions boards for a list of repositories
// sequentially, paced by the configured rate limiter. A failure for
// one repository never aborts the batch.
func (s *Service) CreateForRepositories(ctx context.Context, repos []model.RepoRef, opts Options) BulkResult {
	bulk := BulkResult{Total: len(repos)}

	for _, repo := range repos {
		if err := s.limiter.Wait(ctx); err != nil {
			bulk.Errors = append(bulk.Errors, BulkError{Repo: repo, Error: err.Error()})
			continue
		}

		result, err := s.CreateForRepository(ctx, repo, opts)
		if err != nil {
			log.Warn("project creation failed", "repo", repo.FullName(), "error", err)
			bulk.Errors = append(bulk.Errors, BulkError{Repo: repo, Error: err.Error()})
			continue
		}
		bulk.Results = append(bulk.Results, result)
		bulk.Successful++
	}

	if bulk.Total > 0 {
		bulk.SuccessRate = float64(bulk.Successful) / float64(bulk.Total)
	}
	return bulk
}

func (r *Result) warn(step string, err error) {
	msg := fmt.Sprintf("%s: %v", step, err)
	log.Warn("non-fatal project setup step failed", "repo", r.Repo.FullName(), "step", step, "error", err)
	r.Warnings = append(r.Warnings, msg)
}
