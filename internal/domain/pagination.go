package domain

// PaginationMeta describes one page of a listing
type PaginationMeta struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PaginatedResponse wraps a page of items with its pagination metadata
type PaginatedResponse[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewPaginationMeta computes page metadata. Pages is ceil(total/size);
// a page past the end is still reported against the real total.
func NewPaginationMeta(page, size, total int) PaginationMeta {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return PaginationMeta{Page: page, Size: size, Total: total, Pages: pages}
}
