package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/doable/adapter/cli"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

type projectInput struct {
	ProjectID string `json:"project_id" jsonschema:"required"`
	Refresh   bool   `json:"refresh,omitempty"`
}

type timeTrackingInput struct {
	ProjectID string `json:"project_id" jsonschema:"required"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

type generateInput struct {
	Type      string `json:"type" jsonschema:"required"`
	ProjectID string `json:"project_id" jsonschema:"required"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

// RegisterReportTools registers the report tools on srv.
func RegisterReportTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	t := reportTools{app: deps.App}

	srv.Tool("reports.projects").
		Description("List active projects that reports can be generated for").
		Handler(t.projects)

	srv.Tool("reports.status").
		Description("Status report: task counts, completion percentage and overall health").
		Handler(t.status)

	srv.Tool("reports.time_tracking").
		Description("Time tracking report: hours per task, employee, day and ISO week (from/to as YYYY-MM-DD)").
		Handler(t.timeTracking)

	srv.Tool("reports.workload").
		Description("Workload report: open tasks and estimated hours per employee with overallocation alerts").
		Handler(t.workload)

	srv.Tool("reports.progress").
		Description("Progress report: velocity, estimated completion, milestones and health indicators").
		Handler(t.progress)

	srv.Tool("reports.generate").
		Description("Generate a report by type (status, time_tracking, workload, progress)").
		Handler(t.generateTool)

	srv.Tool("system.health").
		Description("Check database and cache connectivity").
		Handler(t.health)

	return nil
}

// generatedReport wraps a report produced by reports.generate.
type generatedReport struct {
	Type   domain.ReportType `json:"type"`
	Report any               `json:"report"`
}

type reportTools struct {
	app *cli.App
}

func (t reportTools) ready() error {
	if t.app == nil || t.app.Reporter == nil {
		return cli.ErrNotInitialized
	}
	return nil
}

func (t reportTools) projects(ctx context.Context, _ struct{}) ([]domain.ProjectSummary, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	projects, err := t.app.Reporter.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.ProjectSummary{}
	}
	return projects, nil
}

func (t reportTools) status(ctx context.Context, input projectInput) (*domain.StatusReport, error) {
	report, err := t.generate(ctx, generateInput{
		Type:      domain.ReportTypeStatus.String(),
		ProjectID: input.ProjectID,
		Refresh:   input.Refresh,
	})
	if err != nil {
		return nil, err
	}
	return report.(*domain.StatusReport), nil
}

func (t reportTools) timeTracking(ctx context.Context, input timeTrackingInput) (*domain.TimeTrackingReport, error) {
	report, err := t.generate(ctx, generateInput{
		Type:      domain.ReportTypeTimeTracking.String(),
		ProjectID: input.ProjectID,
		From:      input.From,
		To:        input.To,
		Refresh:   input.Refresh,
	})
	if err != nil {
		return nil, err
	}
	return report.(*domain.TimeTrackingReport), nil
}

func (t reportTools) workload(ctx context.Context, input projectInput) (*domain.WorkloadReport, error) {
	report, err := t.generate(ctx, generateInput{
		Type:      domain.ReportTypeWorkload.String(),
		ProjectID: input.ProjectID,
		Refresh:   input.Refresh,
	})
	if err != nil {
		return nil, err
	}
	return report.(*domain.WorkloadReport), nil
}

func (t reportTools) progress(ctx context.Context, input projectInput) (*domain.ProgressReport, error) {
	report, err := t.generate(ctx, generateInput{
		Type:      domain.ReportTypeProgress.String(),
		ProjectID: input.ProjectID,
		Refresh:   input.Refresh,
	})
	if err != nil {
		return nil, err
	}
	return report.(*domain.ProgressReport), nil
}

func (t reportTools) generate(ctx context.Context, input generateInput) (any, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}

	reportType, err := domain.ParseReportType(input.Type)
	if err != nil {
		return nil, err
	}
	projectID, err := parseUUID(input.ProjectID)
	if err != nil {
		return nil, err
	}

	var window domain.TimeWindow
	if reportType == domain.ReportTypeTimeTracking {
		window, err = parseWindow(t.app, input.From, input.To)
		if err != nil {
			return nil, err
		}
	}

	if input.Refresh && t.app.Refresh != nil {
		if err := t.app.Refresh(ctx, projectID); err != nil {
			return nil, fmt.Errorf("failed to refresh cached reports: %w", err)
		}
	}

	reporter := t.app.Reporter
	switch reportType {
	case domain.ReportTypeStatus:
		return reporter.StatusReport(ctx, projectID)
	case domain.ReportTypeTimeTracking:
		return reporter.TimeTrackingReport(ctx, projectID, window)
	case domain.ReportTypeWorkload:
		return reporter.WorkloadReport(ctx, projectID)
	default:
		return reporter.ProgressReport(ctx, projectID)
	}
}

func (t reportTools) generateTool(ctx context.Context, input generateInput) (*generatedReport, error) {
	report, err := t.generate(ctx, input)
	if err != nil {
		return nil, err
	}
	reportType, _ := domain.ParseReportType(input.Type)
	return &generatedReport{Type: reportType, Report: report}, nil
}

func (t reportTools) health(ctx context.Context, _ struct{}) (*observability.OverallHealth, error) {
	if t.app == nil || t.app.Health == nil {
		return nil, cli.ErrNotInitialized
	}
	health := t.app.Health.Check(ctx)
	return &health, nil
}
