package transport

import "github.com/Skotchmaster/electronics_store/internal/util"

type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	LastPage      bool  `json:"lastPage"`
}

func NewPage[T any](items []T, total int64, p util.PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := util.TotalPages(total, p.Size)
	return Page[T]{
		Content:       items,
		PageNumber:    p.Number,
		PageSize:      p.Size,
		TotalElements: total,
		TotalPages:    pages,
		LastPage:      p.Number >= pages-1,
	}
}
