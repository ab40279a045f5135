// Package subscribers contains event consumers for the reporting context.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

// MetricReportsGenerated counts report.generated events by report type.
const MetricReportsGenerated = "doable.reports.generated"

// ReportActivitySubscriber records report generation activity from
// report.generated events.
type ReportActivitySubscriber struct {
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewReportActivitySubscriber creates a new subscriber.
func NewReportActivitySubscriber(metrics observability.Metrics, logger *slog.Logger) *ReportActivitySubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ReportActivitySubscriber{metrics: metrics, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (s *ReportActivitySubscriber) EventTypes() []string {
	return []string{domain.RoutingKeyReportGenerated}
}

// Handle processes an event.
func (s *ReportActivitySubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload struct {
		ReportType domain.ReportType `json:"report_type"`
		ProjectID  string            `json:"project_id"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode report event %s: %w", event.EventID, err)
	}

	s.metrics.Counter(MetricReportsGenerated, 1, observability.T("report_type", payload.ReportType.String()))
	s.logger.InfoContext(ctx, "report generated",
		"report_type", payload.ReportType,
		"project_id", payload.ProjectID,
		"event_id", event.EventID,
		observability.CorrelationIDKey, event.Metadata.CorrelationID,
	)
	return nil
}
