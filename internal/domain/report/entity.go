// Package report defines the corruption-report entity consumed by the
// analytics engine, together with the closed agency and category enumerations
// that invalid values are rejected against at the boundary.
package report

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

// CountyCount is the number of Kenyan counties; county ordinals are
// normalized against it when reports are vectorized.
const CountyCount = 47

// Agency identifies the government body a report concerns.
type Agency string

// The closed set of agencies a report may name.
const (
	AgencyPolice             Agency = "police"
	AgencyJudiciary          Agency = "judiciary"
	AgencyLands              Agency = "lands"
	AgencyHealth             Agency = "health"
	AgencyEducation          Agency = "education"
	AgencyCountyGovernment   Agency = "county_government"
	AgencyNationalGovernment Agency = "national_government"
	AgencyRevenue            Agency = "revenue_authority"
	AgencyImmigration        Agency = "immigration"
	AgencyProcurement        Agency = "procurement"
	AgencyOther              Agency = "other"
)

// agencyOrder fixes the ordinal of every agency; the vectorizer depends on
// this order being stable across calls.
var agencyOrder = []Agency{
	AgencyPolice,
	AgencyJudiciary,
	AgencyLands,
	AgencyHealth,
	AgencyEducation,
	AgencyCountyGovernment,
	AgencyNationalGovernment,
	AgencyRevenue,
	AgencyImmigration,
	AgencyProcurement,
	AgencyOther,
}

// AgencyCount is the size of the agency enumeration.
const AgencyCount = 11

// Agencies returns all agencies in ordinal order.
func Agencies() []Agency {
	out := make([]Agency, len(agencyOrder))
	copy(out, agencyOrder)
	return out
}

// IsValid reports whether a is a member of the closed agency set.
func (a Agency) IsValid() bool {
	return a.Ordinal() >= 0
}

// Ordinal returns the stable position of a in the enumeration, or -1 for an
// unknown value.
func (a Agency) Ordinal() int {
	for i, v := range agencyOrder {
		if v == a {
			return i
		}
	}
	return -1
}

// String returns the wire representation of the agency.
func (a Agency) String() string { return string(a) }

// ParseAgency parses a string into an Agency, rejecting unknown values.
func ParseAgency(s string) (Agency, error) {
	a := Agency(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", errors.New(errors.ErrCodeReportInvalidAgency, "unknown agency: "+s)
	}
	return a, nil
}

// Category classifies the kind of corruption a report describes.
type Category string

// The closed set of report categories.
const (
	CategoryBribery       Category = "bribery"
	CategoryEmbezzlement  Category = "embezzlement"
	CategoryFraud         Category = "fraud"
	CategoryExtortion     Category = "extortion"
	CategoryNepotism      Category = "nepotism"
	CategoryAbuseOfOffice Category = "abuse_of_office"
	CategoryOther         Category = "other"
)

var categoryOrder = []Category{
	CategoryBribery,
	CategoryEmbezzlement,
	CategoryFraud,
	CategoryExtortion,
	CategoryNepotism,
	CategoryAbuseOfOffice,
	CategoryOther,
}

// CategoryCount is the size of the category enumeration.
const CategoryCount = 7

// Categories returns all categories in ordinal order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// IsValid reports whether c is a member of the closed category set.
func (c Category) IsValid() bool {
	for _, v := range categoryOrder {
		if v == c {
			return true
		}
	}
	return false
}

// String returns the wire representation of the category.
func (c Category) String() string { return string(c) }

// ParseCategory parses a string into a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", errors.New(errors.ErrCodeReportInvalidCategory, "unknown category: "+s)
	}
	return c, nil
}

// Report is a single submitted corruption incident record.  The analytics
// engine treats it as a read-only input: it neither creates nor mutates
// reports, and all derived results are ephemeral.
type Report struct {
	ID              string     `json:"id"`
	County          string     `json:"county"`
	Agency          Agency     `json:"agency"`
	Categories      []Category `json:"categories"`
	IncidentDate    time.Time  `json:"incident_date"`
	EstimatedAmount float64    `json:"estimated_amount"` // 0 when unknown
	Description     string     `json:"description"`
	SubmittedAt     time.Time  `json:"submitted_at"`
}

// NewReport constructs a validated Report with a fresh UUID and the current
// submission time.
func NewReport(county string, agency Agency, categories []Category, incidentDate time.Time, amount float64, description string) (*Report, error) {
	r := &Report{
		ID:              uuid.NewString(),
		County:          county,
		Agency:          agency,
		Categories:      categories,
		IncidentDate:    incidentDate,
		EstimatedAmount: amount,
		Description:     description,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate enforces the boundary invariants the engine relies on: a known
// agency, 1 to 3 known categories, and a non-negative amount.
func (r *Report) Validate() error {
	if strings.TrimSpace(r.County) == "" {
		return errors.New(errors.ErrCodeValidation, "county is required")
	}
	if !r.Agency.IsValid() {
		return errors.New(errors.ErrCodeReportInvalidAgency, "unknown agency: "+string(r.Agency))
	}
	if len(r.Categories) < 1 || len(r.Categories) > 3 {
		return errors.New(errors.ErrCodeReportInvalidCategory, "a report must carry between 1 and 3 categories")
	}
	for _, c := range r.Categories {
		if !c.IsValid() {
			return errors.New(errors.ErrCodeReportInvalidCategory, "unknown category: "+string(c))
		}
	}
	if r.EstimatedAmount < 0 {
		return errors.New(errors.ErrCodeReportInvalidAmount, "estimated amount must not be negative")
	}
	return nil
}
