package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/filedrop/internal/server/config"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.LocalStorageRoot = t.TempDir()
	return c
}

func TestNewApp_RejectsUnknownCompression(t *testing.T) {
	c := testConfig(t)
	c.BulkCompression = "brotli"

	_, err := NewApp(context.Background(), c)
	require.ErrorContains(t, err, "config error")
}

func TestNewApp_RejectsBadMasterKey(t *testing.T) {
	c := testConfig(t)
	c.MasterKey = "not-hex"

	_, err := NewApp(context.Background(), c)
	require.ErrorContains(t, err, "config error")
}

func TestNewApp_RejectsShortMasterKey(t *testing.T) {
	c := testConfig(t)
	c.MasterKey = "0001"

	_, err := NewApp(context.Background(), c)
	require.ErrorContains(t, err, "keyring init error")
}

func TestNewApp_DBOpenError(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		require.Equal(t, "pgx", driverName)
		return nil, errors.New("boom")
	}

	_, err := NewApp(context.Background(), testConfig(t))
	require.ErrorContains(t, err, "db init error")
}
