// Package testutil holds in-memory test doubles shared across packages.
package testutil

import (
	"context"
	"sync"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

// MemoryReportRepo is an in-memory report.Repository.  Error fields, when
// set, are returned verbatim so tests can exercise failure paths.
type MemoryReportRepo struct {
	mu      sync.Mutex
	reports []*report.Report

	CreateErr error
	ListErr   error
}

// NewMemoryReportRepo seeds the repository with the given reports.
func NewMemoryReportRepo(reports ...*report.Report) *MemoryReportRepo {
	return &MemoryReportRepo{reports: append([]*report.Report(nil), reports...)}
}

func (m *MemoryReportRepo) Create(_ context.Context, r *report.Report) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reports {
		if existing.ID == r.ID {
			return errors.New(errors.ErrCodeReportAlreadyExists, "report already exists").WithDetail(r.ID)
		}
	}
	m.reports = append(m.reports, r)
	return nil
}

func (m *MemoryReportRepo) GetByID(_ context.Context, id string) (*report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.New(errors.ErrCodeReportNotFound, "report not found").WithDetail(id)
}

func (m *MemoryReportRepo) List(_ context.Context) ([]*report.Report, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*report.Report(nil), m.reports...), nil
}

func (m *MemoryReportRepo) CountByCounty(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, r := range m.reports {
		counts[r.County]++
	}
	return counts, nil
}

var _ report.Repository = (*MemoryReportRepo)(nil)
