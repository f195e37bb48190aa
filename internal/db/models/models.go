package models

const (
	// DefaultLimit is the max number of rows that are retrieved from the DB per listing call
	DefaultLimit = 50
	// MaxLimit caps caller supplied limits
	MaxLimit = 1000
)

// SortOrder is the direction of an ordered listing
type SortOrder string

const (
	// SortDesc orders newest first
	SortDesc SortOrder = "DESC"
	// SortAsc orders oldest first
	SortAsc SortOrder = "ASC"
)

// ListOptions represents pagination options for list operations
type ListOptions struct {
	Limit  int `json:"limit"`  // Number of items to return
	Offset int `json:"offset"` // Number of items to skip
}

// NewPageOptions returns ListOptions for a 1-based page of the given size
func NewPageOptions(page, limit int) *ListOptions {
	if page < 1 {
		page = 1
	}
	opts := &ListOptions{Limit: limit}
	opts.Normalize()
	opts.Offset = (page - 1) * opts.Limit
	return opts
}

// Normalize clamps Limit and Offset into their valid ranges
func (o *ListOptions) Normalize() {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// Page returns the 1-based page number these options point at
func (o *ListOptions) Page() int {
	if o == nil || o.Limit <= 0 {
		return 1
	}
	return o.Offset/o.Limit + 1
}

// Normalized returns a normalized copy, falling back to defaults for nil options
func (o *ListOptions) Normalized() ListOptions {
	var out ListOptions
	if o != nil {
		out = *o
	}
	out.Normalize()
	return out
}
