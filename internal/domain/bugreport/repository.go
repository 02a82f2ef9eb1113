package bugreport

import (
	"context"
)

// Repository defines data access for bug reports.
type Repository interface {
	Create(ctx context.Context, b BugReport) (BugReport, error)
	GetByID(ctx context.Context, id string) (BugReport, error)
	List(ctx context.Context, organization string, filter BugReportFilter) ([]BugReport, int, error)
	ListByReporter(ctx context.Context, reporterID string, filter BugReportFilter) ([]BugReport, int, error)
	Update(ctx context.Context, b BugReport) error
}

// Service defines bug report logic.
type Service interface {
	Create(ctx context.Context, req CreateBugReportRequest) (BugReportResponse, error)
	ListMine(ctx context.Context, filter BugReportFilter) (ListBugReportsResponse, error)
	ListAll(ctx context.Context, filter BugReportFilter) (ListBugReportsResponse, error)
	Update(ctx context.Context, req UpdateBugReportRequest) (BugReportResponse, error)
}
