package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/promanage-api/internal/config"
	"github.com/yukikurage/promanage-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		Close(db)
	})
	return db
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))

	for _, idx := range []struct{ table, name string }{
		{"tasks", "idx_tasks_owner_created_at"},
		{"tasks", "idx_tasks_owner_status"},
		{"checklist_items", "idx_checklist_items_task_position"},
	} {
		assert.True(t, db.Migrator().HasIndex(idx.table, idx.name), idx.name)
	}
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "idx_users_email"))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestConnect_SQLite(t *testing.T) {
	db, err := Connect(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
}

func TestScopes(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	seed := []models.Task{
		{Title: "a", RefUserID: "u1", CreatedAt: base.Add(-48 * time.Hour)},
		{Title: "b", RefUserID: "u1", CreatedAt: base},
		{Title: "c", RefUserID: "u2", CreatedAt: base},
	}
	for i := range seed {
		seed[i].Priority = models.Priority{TypeOfPriority: models.PriorityLow}
		seed[i].Status = models.TaskStatusTodo
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	var owned []models.Task
	require.NoError(t, db.Scopes(OwnedBy("u1")).Find(&owned).Error)
	assert.Len(t, owned, 2)

	from := base.Add(-time.Hour)
	var windowed []models.Task
	require.NoError(t, db.Scopes(OwnedBy("u1"), CreatedWithin(&from, nil)).Find(&windowed).Error)
	require.Len(t, windowed, 1)
	assert.Equal(t, "b", windowed[0].Title)

	// The upper bound is exclusive.
	to := base
	windowed = nil
	require.NoError(t, db.Scopes(OwnedBy("u1"), CreatedWithin(nil, &to)).Find(&windowed).Error)
	require.Len(t, windowed, 1)
	assert.Equal(t, "a", windowed[0].Title)

	// Bounds in other zones are compared as UTC instants.
	ist := time.FixedZone("IST", 5*3600+30*60)
	fromIST := from.In(ist)
	var count int64
	require.NoError(t, db.Model(&models.Task{}).Scopes(CreatedWithin(&fromIST, nil)).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
