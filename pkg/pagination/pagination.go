package pagination

const (
	// DefaultSize is the standard page size when a size is not provided.
	DefaultSize = 25
	// MaxSize caps how many rows any page query can request.
	MaxSize = 100
)

// PageRequest is a zero-based page index and a page size.
type PageRequest struct {
	Number int `json:"pageNumber"`
	Size   int `json:"pageSize"`
}

// Limits holds the configured default and maximum page sizes.
type Limits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultLimits returns the package defaults.
func DefaultLimits() Limits {
	return Limits{DefaultSize: DefaultSize, MaxSize: MaxSize}
}

// Normalized fills unset limits with the package defaults.
func (l Limits) Normalized() Limits {
	if l.MaxSize <= 0 {
		l.MaxSize = MaxSize
	}
	if l.DefaultSize <= 0 {
		l.DefaultSize = DefaultSize
	}
	if l.DefaultSize > l.MaxSize {
		l.DefaultSize = l.MaxSize
	}
	return l
}

// Normalize clamps the request: a negative index becomes 0, a non-positive
// size becomes the default and an oversized one the maximum.
func (l Limits) Normalize(req PageRequest) PageRequest {
	l = l.Normalized()
	if req.Number < 0 {
		req.Number = 0
	}
	if req.Size <= 0 {
		req.Size = l.DefaultSize
	}
	if req.Size > l.MaxSize {
		req.Size = l.MaxSize
	}
	return req
}

// Normalize applies DefaultLimits.
func Normalize(req PageRequest) PageRequest {
	return DefaultLimits().Normalize(req)
}

// Offset returns the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

// TotalPages is ceil(total/size), 0 when there are no elements.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	s := int64(size)
	return int((total + s - 1) / s)
}
