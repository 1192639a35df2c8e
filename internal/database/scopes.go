package database

import (
	"time"

	"gorm.io/gorm"
)

// OwnedBy restricts a task query to the tasks created by ownerID
func OwnedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.ref_user_id = ?", ownerID)
	}
}

// CreatedWithin restricts a task query to the half-open window [from, to).
// Bounds are compared in UTC, the zone timestamps are written in.
func CreatedWithin(from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("tasks.created_at >= ?", from.UTC())
		}
		if to != nil {
			db = db.Where("tasks.created_at < ?", to.UTC())
		}
		return db
	}
}
