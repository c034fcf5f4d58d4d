package api

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T             `json:"list"`
	Pagination *PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	TotalCount uint64 `json:"total_count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// NewPaginationMeta считает количество страниц с округлением вверх.
func NewPaginationMeta(total uint64, page, limit int) *PaginationMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + uint64(limit) - 1) / uint64(limit))
	}
	return &PaginationMeta{TotalCount: total, TotalPages: pages, Page: page, Limit: limit}
}

func NewListBody[T any](list []T, total uint64, page, limit int) ListBody[T] {
	if list == nil {
		list = []T{}
	}
	return ListBody[T]{List: list, Pagination: NewPaginationMeta(total, page, limit)}
}
