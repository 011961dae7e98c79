package pagination

const (
	// DefaultPageSize is the standard page size when pageSize is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the page number and page size to their allowed ranges.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the row limit for the normalized page.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}
