package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/pms-api/internal/utils"
)

// Paginate applies pagination to a GORM query. A zero limit leaves the
// query unbounded.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// WhereIDIn restricts a query to the given primary keys. An empty slice
// matches nothing.
func WhereIDIn(column string, ids []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN ?", ids)
	}
}
