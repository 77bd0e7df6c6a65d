package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withFastRetries shrinks the ping retry budget for the duration of a test.
func withFastRetries(t *testing.T, retries int) {
	t.Helper()
	originalRetries, originalInterval := maxRetries, retryInterval
	maxRetries, retryInterval = retries, 50*time.Millisecond
	t.Cleanup(func() {
		maxRetries, retryInterval = originalRetries, originalInterval
	})
}

func pingableMock(t *testing.T) (*MigrationRunner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMigrationRunner(db), mock
}

func TestNewMigrationRunner_UsesDefaultPath(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db)

	assert.Equal(t, migrationsPath, runner.migrationsPath)
}

func TestWaitForDatabase_ReadyImmediately(t *testing.T) {
	runner, mock := pingableMock(t)
	mock.ExpectPing().WillReturnError(nil)

	assert.NoError(t, runner.WaitForDatabase())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_RecoversAfterFailure(t *testing.T) {
	withFastRetries(t, 2)

	runner, mock := pingableMock(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(nil)

	assert.NoError(t, runner.WaitForDatabase())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_GivesUp(t *testing.T) {
	withFastRetries(t, 2)

	runner, mock := pingableMock(t)
	for i := 0; i < 2; i++ {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	}

	err := runner.WaitForDatabase()

	assert.ErrorContains(t, err, "database not ready after")
}

func TestRunMigrations_MissingDirectoryIsSkipped(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := &MigrationRunner{db: db, migrationsPath: "/nonexistent/path/to/migrations"}

	assert.NoError(t, runner.RunMigrations())
}

func TestGetMigrationStatus_MissingDirectoryErrors(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := &MigrationRunner{db: db, migrationsPath: "/nonexistent/migrations"}

	_, _, err = runner.GetMigrationStatus()

	assert.ErrorContains(t, err, "migrations directory not found")
}

func TestRunMigrationsIfEnabled_OffByDefault(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Setenv("AUTO_MIGRATE", "false")

	assert.NoError(t, RunMigrationsIfEnabled(db))
}

func TestRunMigrationsIfEnabled_FailsWhenDatabaseNeverReady(t *testing.T) {
	withFastRetries(t, 2)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	}

	t.Setenv("AUTO_MIGRATE", "true")

	err = RunMigrationsIfEnabled(db)

	assert.ErrorContains(t, err, "database readiness check failed")
}
