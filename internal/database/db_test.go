// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxiunn/interactions/internal/database"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := database.Open(":memory:")

	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	require.NoError(t, err)
}

func TestOpen_MigrationsApplied(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	for _, table := range []string{"employees", "projects"} {
		var count int64
		err = db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "table %s should exist", table)
	}
}

func TestOpen_WithExistingParams(t *testing.T) {
	db, err := database.Open(":memory:?cache=shared")

	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		_ = db.Close()
	}()
}

func TestOpen_FileDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := tmpDir + "/subdir/test.db"

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int64
	err = db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='employees'")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOpen_PragmasApplied(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var journalMode string
	err = db.Get(&journalMode, "PRAGMA journal_mode")
	require.NoError(t, err)
	assert.NotEmpty(t, journalMode)

	var synchronous int
	err = db.Get(&synchronous, "PRAGMA synchronous")
	require.NoError(t, err)
	assert.NotZero(t, synchronous)
}
