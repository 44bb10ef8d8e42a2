package readersettings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dexreader/dexreader/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_readersettings_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ReaderOverride{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func TestAllOverridesOrdersByMangaID(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpsertOverrides([]entities.ReaderOverride{
		{MangaID: "bbbbbbbb-0000-0000-0000-000000000002", Mode: entities.ReadingModeVertical},
		{MangaID: "aaaaaaaa-0000-0000-0000-000000000001", Mode: entities.ReadingModeDouble, ReadRightToLeft: true},
	})
	require.NoError(t, err)

	rows, err := repo.AllOverrides()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "aaaaaaaa-0000-0000-0000-000000000001", rows[0].MangaID)
	assert.Equal(t, entities.ReadingModeDouble, rows[0].Mode)
	assert.True(t, rows[0].ReadRightToLeft)
	assert.Equal(t, "bbbbbbbb-0000-0000-0000-000000000002", rows[1].MangaID)
}

func TestUpsertOverridesUpdatesExistingRow(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	id := "aaaaaaaa-0000-0000-0000-000000000001"
	err := repo.UpsertOverrides([]entities.ReaderOverride{
		{MangaID: id, Mode: entities.ReadingModeSingle},
	})
	require.NoError(t, err)

	err = repo.UpsertOverrides([]entities.ReaderOverride{
		{MangaID: id, Mode: entities.ReadingModeDouble, SkipCoverPages: true},
	})
	require.NoError(t, err)

	rows, err := repo.AllOverrides()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entities.ReadingModeDouble, rows[0].Mode)
	assert.True(t, rows[0].SkipCoverPages)
}

func TestUpsertOverridesEmptyBatchIsNoop(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.UpsertOverrides(nil))

	rows, err := repo.AllOverrides()
	require.NoError(t, err)
	assert.Empty(t, rows)
}
