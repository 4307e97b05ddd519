package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	require.NoError(t, sqlDB.Close())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "svc",
		Password: "pw",
		Name:     "findscooter",
		Host:     "db.local",
		Port:     5433,
	})
	require.NoError(t, err)
	require.Equal(t, "host=db.local port=5433 user=svc dbname=findscooter password=pw sslmode=disable", dsn)

	// An explicit DSN wins over individual fields.
	dsn, err = buildPostgresDSN(Config{DSN: "host=custom"})
	require.NoError(t, err)
	require.Equal(t, "host=custom", dsn)

	_, err = buildPostgresDSN(Config{Host: "db.local"})
	require.Error(t, err)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "svc",
		Password: "pw",
		Name:     "findscooter",
	})
	require.NoError(t, err)
	require.Equal(t, "svc:pw@tcp(127.0.0.1:3306)/findscooter?charset=utf8mb4&loc=Local&parseTime=True", dsn)

	_, err = buildMySQLDSN(Config{Name: "findscooter"})
	require.Error(t, err)
}
