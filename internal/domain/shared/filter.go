package shared

// Paging bounds for list queries
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter holds the paging, ordering and search options every list query shares.
// OrderBy is validated by the repository against its own whitelist.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// ApplyDefaults fills in a missing page or page size and caps the page size
func (f *Filter) ApplyDefaults() {
	if f.Page <= 0 {
		f.Page = 1
	}
	switch {
	case f.PageSize <= 0:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
