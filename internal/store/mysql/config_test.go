package mysql_test

import (
	"strings"
	"testing"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/goto/fulltext/internal/store/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDSN(t *testing.T) {
	cfg := mysql.Config{
		Host:            "db.local",
		Port:            3307,
		Name:            "library",
		User:            "reader",
		Password:        "s3cret",
		Params:          map[string]string{"charset": "utf8mb4"},
		ConnMaxLifetime: time.Minute,
	}

	t.Run("should build a parseable dsn", func(t *testing.T) {
		parsed, err := driver.ParseDSN(cfg.DSN())
		require.NoError(t, err)

		assert.Equal(t, "tcp", parsed.Net)
		assert.Equal(t, "db.local:3307", parsed.Addr)
		assert.Equal(t, "library", parsed.DBName)
		assert.Equal(t, "reader", parsed.User)
		assert.Equal(t, "s3cret", parsed.Passwd)
		assert.True(t, parsed.ParseTime)
		assert.False(t, parsed.MultiStatements)
		assert.Equal(t, "utf8mb4", parsed.Params["charset"])
	})

	t.Run("should enable multi statements for migrations", func(t *testing.T) {
		url := cfg.MigrationURL()
		require.True(t, strings.HasPrefix(url, "mysql://"))

		parsed, err := driver.ParseDSN(strings.TrimPrefix(url, "mysql://"))
		require.NoError(t, err)
		assert.True(t, parsed.MultiStatements)
		assert.Equal(t, "library", parsed.DBName)
	})

	t.Run("should not share params with the config", func(t *testing.T) {
		_ = cfg.DSN()
		assert.Equal(t, map[string]string{"charset": "utf8mb4"}, cfg.Params)
	})
}
