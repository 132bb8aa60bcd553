package main

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonatan12121/TMS/internal/config"
)

func TestConfigurePool(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	configurePool(db, config.DatabaseConfig{
		MaxOpenConns:           7,
		MaxIdleConns:           3,
		ConnMaxLifetimeMinutes: 5,
	})

	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}
