package db

import (
	"testing"

	"shop_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "shop"}
	assert.Equal(t, "u:p@tcp(h:3306)/shop?parseTime=true", DSN(cfg))

	cfg.DBDriver = "postgres"
	assert.Equal(t, "host=h user=u password=p dbname=shop port=3306 sslmode=disable", DSN(cfg))

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", DSN(cfg))
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector("oracle", "")
	assert.Error(t, err)
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DatabaseURL: "file:open_test?mode=memory&cache=shared"}
	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	for _, m := range Models() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
}
