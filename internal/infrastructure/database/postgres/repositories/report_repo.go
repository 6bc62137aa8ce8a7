// Package repositories provides the PostgreSQL-backed implementation of the
// report domain's Repository interface.
package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
	apperrors "github.com/uwazilabs/haki-analytics/pkg/errors"
)

// uniqueViolation is the postgres SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// ReportRepository implements report.Repository over pgx.  Every method takes
// a context for cancellation and uses parameterised queries exclusively.
type ReportRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewReportRepository constructs a ready-to-use repository.
func NewReportRepository(pool *pgxpool.Pool, logger logging.Logger) *ReportRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportRepository{pool: pool, logger: logger}
}

// Create persists a new report.  Duplicate ids surface as a conflict error.
func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	if err := rep.Validate(); err != nil {
		return err
	}

	const q = `
		INSERT INTO reports
			(id, county, agency, categories, incident_date, estimated_amount, description, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	categories := make([]string, len(rep.Categories))
	for i, c := range rep.Categories {
		categories[i] = string(c)
	}

	_, err := r.pool.Exec(ctx, q,
		rep.ID, rep.County, string(rep.Agency), categories,
		rep.IncidentDate, rep.EstimatedAmount, rep.Description, rep.SubmittedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.New(apperrors.ErrCodeReportAlreadyExists, "report already exists").
				WithDetail(rep.ID)
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to insert report")
	}

	r.logger.Debug("report created", logging.String("report_id", rep.ID))
	return nil
}

// GetByID returns the report with the given id.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*report.Report, error) {
	const q = `
		SELECT id, county, agency, categories, incident_date, estimated_amount, description, submitted_at
		FROM reports
		WHERE id = $1`

	rep, err := scanReport(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodeReportNotFound, "report not found").WithDetail(id)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to load report")
	}
	return rep, nil
}

// List returns all reports, newest submission first.
func (r *ReportRepository) List(ctx context.Context) ([]*report.Report, error) {
	const q = `
		SELECT id, county, agency, categories, incident_date, estimated_amount, description, submitted_at
		FROM reports
		ORDER BY submitted_at DESC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list reports")
	}
	defer rows.Close()

	var out []*report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan report row")
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "report row iteration failed")
	}
	return out, nil
}

// CountByCounty returns the number of reports per county.
func (r *ReportRepository) CountByCounty(ctx context.Context) (map[string]int, error) {
	const q = `SELECT county, COUNT(*) FROM reports GROUP BY county`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to count reports")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var county string
		var count int
		if err := rows.Scan(&county, &count); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan county count")
		}
		counts[county] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "county count iteration failed")
	}
	return counts, nil
}

// scanReport maps one row onto a domain Report.  The agency and category
// columns hold wire strings; unknown values are rejected here so the engine
// never sees an open enum.
func scanReport(row pgx.Row) (*report.Report, error) {
	var (
		rep        report.Report
		agency     string
		categories []string
	)
	if err := row.Scan(&rep.ID, &rep.County, &agency, &categories,
		&rep.IncidentDate, &rep.EstimatedAmount, &rep.Description, &rep.SubmittedAt); err != nil {
		return nil, err
	}

	parsedAgency, err := report.ParseAgency(agency)
	if err != nil {
		return nil, err
	}
	rep.Agency = parsedAgency

	rep.Categories = make([]report.Category, 0, len(categories))
	for _, c := range categories {
		parsed, err := report.ParseCategory(c)
		if err != nil {
			return nil, err
		}
		rep.Categories = append(rep.Categories, parsed)
	}
	return &rep, nil
}

var _ report.Repository = (*ReportRepository)(nil)
