package database

import (
	"regexp"
	"testing"

	"maeul/internal/config"
	"maeul/internal/middleware"
	"maeul/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	assert.NoError(t, configurePool(db, cfg))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
}

// openMockedPostgres opens gorm over a sqlmock connection with the same
// logger Connect installs, so queries run through the slog adapter.
func openMockedPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger: &CustomGormLogger{
			logger: middleware.Logger,
			Config: logger.Config{
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		},
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormLogger_RecordNotFoundIsAnError_NotALogLine(t *testing.T) {
	db, mock := openMockedPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	var user models.User
	err := db.First(&user, int64(99)).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLogger_PropagatesQueryErrors(t *testing.T) {
	db, mock := openMockedPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
		WillReturnError(assert.AnError)

	var count int64
	err := db.Model(&models.Post{}).Count(&count).Error
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPersistentModels_IncludesNeighbor(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*models.Neighbor); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Neighbor")
}
