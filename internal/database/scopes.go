package database

import (
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/utils"
)

// Paginate is a query scope restricting a list query to one page window.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
