package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TMS_TEST_DB_URL", "")
	assert.Empty(t, DatabaseURL())

	t.Setenv("TMS_TEST_DB_URL", "postgres://fallback")
	assert.Equal(t, "postgres://fallback", DatabaseURL())

	t.Setenv("DATABASE_URL", "postgres://primary")
	assert.Equal(t, "postgres://primary", DatabaseURL())
}

func TestOpenSkipsWithoutDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TMS_TEST_DB_URL", "")

	passed := t.Run("open", func(t *testing.T) {
		Open(t)
		t.Error("Open returned without a database URL")
	})
	assert.True(t, passed)
}
