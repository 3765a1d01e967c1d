package model

const (
	MaxPageLimit = 100
	// MaxPage keeps Offset well inside int32 for any allowed limit.
	MaxPage = 1_000_000
)

type PageOptions struct {
	Page  int
	Limit int
}

// Normalize fills in page 1 and defaultLimit for missing or invalid values.
func (o PageOptions) Normalize(defaultLimit int) PageOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Page > MaxPage {
		o.Page = MaxPage
	}
	if o.Limit < 1 {
		o.Limit = defaultLimit
	}
	if o.Limit > MaxPageLimit {
		o.Limit = MaxPageLimit
	}
	return o
}

func (o PageOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewPage[T any](items []T, total int, opts PageOptions) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if opts.Limit > 0 {
		pages = (total + opts.Limit - 1) / opts.Limit
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: pages,
		HasNext:    opts.Page < pages,
		HasPrev:    opts.Page > 1,
	}
}
