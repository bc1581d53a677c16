package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/electronics_store/internal/util"
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn against a repo bound to a single database transaction.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

// sortColumns maps public sort keys to column names.
type sortColumns map[string]string

func (s sortColumns) orderBy(p util.PageRequest, def string) clause.OrderByColumn {
	col, ok := s[p.SortBy]
	if !ok {
		col = s[def]
	}
	return clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: p.Desc}
}

func likePattern(keyword string) string {
	return "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
}

// paginate counts rows matched by q and loads the requested page into dest.
func paginate(q *gorm.DB, p util.PageRequest, order clause.OrderByColumn, dest any, preloads ...string) (int64, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	find := q.Order(order).Offset(p.Offset()).Limit(p.Size)
	for _, rel := range preloads {
		find = find.Preload(rel)
	}
	if err := find.Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}
