package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
)

// ListProjectsQuery lists the projects reports can be generated for.
type ListProjectsQuery struct{}

// QueryName returns the query name.
func (ListProjectsQuery) QueryName() string { return "list_projects" }

// ListProjectsHandler handles the ListProjectsQuery.
type ListProjectsHandler struct {
	loader *Loader
}

// NewListProjectsHandler creates a new ListProjectsHandler.
func NewListProjectsHandler(loader *Loader) *ListProjectsHandler {
	return &ListProjectsHandler{loader: loader}
}

// Handle executes the query.
func (h *ListProjectsHandler) Handle(ctx context.Context, _ ListProjectsQuery) ([]domain.ProjectSummary, error) {
	var projects []domain.ProjectSummary

	err := h.loader.Run(ctx, func(ctx context.Context) error {
		var err error
		projects, err = h.loader.DataSource().ListProjects(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if projects == nil {
		projects = []domain.ProjectSummary{}
	}
	return projects, nil
}
