package db

import (
	"testing"
	"time"

	"kindtrail/internal/config"
	"kindtrail/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigratesCollections(t *testing.T) {
	gdb, err := Open(&config.Config{DatabaseURL: ":memory:"})
	require.NoError(t, err)

	for _, table := range []string{"users", "stories", "comments", "archived_stories"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
	assert.True(t, gdb.Migrator().HasIndex(&models.ArchivedStory{}, "idx_archived_story_month"))
}

func TestArchiveUniquePerStoryMonth(t *testing.T) {
	gdb, err := Open(&config.Config{DatabaseURL: ":memory:"})
	require.NoError(t, err)

	user := models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, gdb.Create(&user).Error)

	first := models.ArchivedStory{StoryID: 7, Month: "2026-09", UserID: user.ID, Title: "A", Body: "b", ArchivedAt: time.Now()}
	require.NoError(t, gdb.Create(&first).Error)

	dup := models.ArchivedStory{StoryID: 7, Month: "2026-09", UserID: user.ID, Title: "A", Body: "b", ArchivedAt: time.Now()}
	assert.Error(t, gdb.Create(&dup).Error)

	other := models.ArchivedStory{StoryID: 7, Month: "2026-10", UserID: user.ID, Title: "A", Body: "b", ArchivedAt: time.Now()}
	assert.NoError(t, gdb.Create(&other).Error)
}
