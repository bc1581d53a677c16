package util

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// PageRequest is a zero-based page selection with an optional sort key.
type PageRequest struct {
	Number int
	Size   int
	SortBy string
	Desc   bool
}

func NewPageRequest(number, size int, sortBy, sortDir string) PageRequest {
	if number < 0 {
		number = 0
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return PageRequest{
		Number: number,
		Size:   size,
		SortBy: strings.TrimSpace(sortBy),
		Desc:   strings.EqualFold(strings.TrimSpace(sortDir), "desc"),
	}
}

func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
