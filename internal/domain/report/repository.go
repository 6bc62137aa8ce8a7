package report

import "context"

// Repository is the persistence contract for reports.  The analytics engine
// never talks to storage directly; callers hand it the snapshot returned by
// List.
type Repository interface {
	// Create persists a new report.
	Create(ctx context.Context, r *Report) error

	// GetByID returns the report with the given id, or a not-found error.
	GetByID(ctx context.Context, id string) (*Report, error)

	// List returns a read-only snapshot of all reports, newest submission first.
	List(ctx context.Context) ([]*Report, error)

	// CountByCounty returns the number of reports per county.
	CountByCounty(ctx context.Context) (map[string]int, error)
}
