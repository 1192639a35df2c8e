package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by task listing and analytics
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns []string
	}{
		// Listing by owner within a creation window
		{"tasks", "idx_tasks_owner_created_at", []string{"ref_user_id", "created_at"}},
		// Analytics counts by owner and status
		{"tasks", "idx_tasks_owner_status", []string{"ref_user_id", "status"}},
		// Checklist preload ordering
		{"checklist_items", "idx_checklist_items_task_position", []string{"task_id", "position"}},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
	}

	return nil
}
