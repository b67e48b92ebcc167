package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

// Paginate applies limit and offset, capping limit at constants.MaxPageSize.
// A non-positive limit uses constants.DefaultPageSize.
func Paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case limit <= 0:
			limit = constants.DefaultPageSize
		case limit > constants.MaxPageSize:
			limit = constants.MaxPageSize
		}
		if offset < 0 {
			offset = 0
		}
		return db.Limit(limit).Offset(offset)
	}
}

// Between restricts column to the half-open window [from, to). Zero bounds
// are ignored.
func Between(column string, from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !from.IsZero() {
			db = db.Where(column+" >= ?", from)
		}
		if !to.IsZero() {
			db = db.Where(column+" < ?", to)
		}
		return db
	}
}
