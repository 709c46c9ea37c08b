package models

// Location filter modes. The auto/manual distinction is evaluated at the
// storage layer with a shape-only pattern test, which can disagree with the
// codec's stricter numeric classification for malformed-but-shaped strings.
// Both behaviors are intentional; do not unify them.
type LocationFilter string

const (
	LocationAll    LocationFilter = "all"
	LocationAuto   LocationFilter = "auto"
	LocationManual LocationFilter = "manual"
)

// Registration date windows, relative to the server-local calendar date.
type DateFilter string

const (
	DateAll   DateFilter = "all"
	DateToday DateFilter = "today"
	DateWeek  DateFilter = "week"
	DateMonth DateFilter = "month"
)

// FilterCriteria is the normalized set of optional constraints and pagination
// parameters driving a user listing query. Zero/"all" values contribute no
// predicate; active filters are ANDed together.
type FilterCriteria struct {
	Search         string
	LocationFilter LocationFilter
	StatusFilter   string // "all", "active" or "blocked"
	DateFilter     DateFilter
	Page           int
	PerPage        int
}

// DefaultCriteria returns criteria matching everything, first page of 10.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		LocationFilter: LocationAll,
		StatusFilter:   "all",
		DateFilter:     DateAll,
		Page:           1,
		PerPage:        10,
	}
}

// Offset computes the row offset for the requested page.
func (c FilterCriteria) Offset() int {
	return (c.Page - 1) * c.PerPage
}

// Pagination is the page metadata returned alongside every listing.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination derives the metadata for a listing result. A page beyond
// TotalPages is legal and simply yields an empty row set.
func NewPagination(c FilterCriteria, total int) Pagination {
	return Pagination{
		Page:       c.Page,
		PerPage:    c.PerPage,
		Total:      total,
		TotalPages: (total + c.PerPage - 1) / c.PerPage,
	}
}
