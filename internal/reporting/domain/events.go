package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/doable/internal/shared/domain"
)

const (
	// AggregateType is the aggregate name used for reporting events.
	AggregateType = "project"
	// RoutingKeyReportGenerated is published after a report is computed.
	RoutingKeyReportGenerated = "reporting.report.generated"
)

// ReportGenerated is emitted after a report has been computed for a project.
type ReportGenerated struct {
	sharedDomain.BaseEvent
	ReportType  ReportType `json:"report_type"`
	ProjectID   uuid.UUID  `json:"project_id"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// NewReportGenerated creates a ReportGenerated event.
func NewReportGenerated(reportType ReportType, projectID uuid.UUID, generatedAt time.Time) *ReportGenerated {
	return &ReportGenerated{
		BaseEvent:   sharedDomain.NewBaseEvent(projectID, AggregateType, RoutingKeyReportGenerated),
		ReportType:  reportType,
		ProjectID:   projectID,
		GeneratedAt: generatedAt.UTC(),
	}
}
