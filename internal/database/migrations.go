package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the query-path indexes the weekly views depend on.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Week and day listings
		{"assignments", "idx_assignments_family_week", "family_id, week_of"},
		{"assignments", "idx_assignments_family_date", "family_id, assigned_date"},
		{"assignments", "idx_assignments_user_date", "assigned_to, assigned_date"},
		{"assignments", "idx_assignments_status", "status"},

		// Template lookups during shuffle
		{"task_templates", "idx_task_templates_family_active", "family_id, is_active"},
		{"template_members", "idx_template_members_template_id", "template_id"},

		// Roster and ledger
		{"family_members", "idx_family_members_user_id", "user_id"},
		{"point_entries", "idx_point_entries_family_user", "family_id, user_id"},

		{"families", "idx_families_invite_code", "invite_code"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
