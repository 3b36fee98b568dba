package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/model"
)

// Router places classified issues onto their repository's board and
// sets the status and priority fields.
type Router struct {
	projects ghclient.ProjectAPI
	issues   ghclient.IssueAPI
	service  *Service
}

// NewRouter creates a Router sharing the service's board naming
// convention.
func NewRouter(projects ghclient.ProjectAPI, issues ghclient.IssueAPI, service *Service) *Router {
	return &Router{
		projects: projects,
		issues:   issues,
		service:  service,
	}
}

// StatusFor maps a classification to the board status column.
func StatusFor(cls model.Classification) string {
	if cls.Priority == model.PriorityCritical || cls.Type == model.TypeBug {
		return "In Progress"
	}
	return "Backlog"
}

// RouteIssue adds the issue to its repository's board. orgID overrides
// the owner for board naming, matching the override used at creation.
// When the repository has no board a zero Routing is returned without
// error; the caller decides whether to provision one. Field updates
// are best-effort: unmatched fields are skipped silently.
func (r *Router) RouteIssue(ctx context.Context, issue model.Issue, cls model.Classification, orgID string) (model.Routing, error) {
	title := r.service.BoardTitle(issue.Repo, orgID)

	board, err := r.projects.FindProjectByTitle(ctx, issue.Repo.Owner, title)
	if errors.Is(err, ghclient.ErrNotFound) {
		log.Debug("no project board for repository", "repo", issue.Repo.FullName())
		return model.Routing{}, nil
	}
	if err != nil {
		return model.Routing{}, fmt.Errorf("failed to find project board: %w", err)
	}

	nodeID, err := r.issues.IssueNodeID(ctx, issue.Repo, issue.Number)
	if err != nil {
		return model.Routing{}, err
	}

	itemID, err := r.projects.AddProjectItem(ctx, board.ID, nodeID)
	if err != nil {
		return model.Routing{}, fmt.Errorf("failed to add issue to board: %w", err)
	}

	routing := model.Routing{ProjectID: board.ID, ItemID: itemID, Status: StatusFor(cls)}

	fields, err := r.projects.ListProjectFields(ctx, board.ID)
	if err != nil {
		log.Warn("could not list board fields, skipping field values", "repo", issue.Repo.FullName(), "error", err)
		return routing, nil
	}

	r.setSelectField(ctx, board.ID, itemID, fields, "status", routing.Status)
	r.setSelectField(ctx, board.ID, itemID, fields, "priority", string(cls.Priority))

	return routing, nil
}

// setSelectField sets a single-select field by case-insensitive name.
// Missing fields and missing options are skipped silently per the
// routing contract.
func (r *Router) setSelectField(ctx context.Context, projectID, itemID string, fields []ghclient.Field, name, value string) {
	for _, field := range fields {
		if !strings.EqualFold(field.Name, name) {
			continue
		}
		optionID := field.OptionID(value)
		if optionID == "" {
			log.Trace("field option not found", "field", name, "value", value)
			return
		}
		if err := r.projects.UpdateItemSelect(ctx, projectID, itemID, field.ID, optionID); err != nil {
			log.Warn("failed to set board field", "field", name, "error", err)
		}
		return
	}
	log.Trace("board field not found", "field", name)
}
