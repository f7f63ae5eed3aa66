package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDriver(t *testing.T) {
	assert.NoError(t, CheckDriver("postgres"))

	for _, driver := range []string{"sqlite", "mysql", ""} {
		err := CheckDriver(driver)
		require.Error(t, err, "driver %q", driver)
		assert.Contains(t, err.Error(), "postgres only")
	}
}

func TestRunMigrationsRequiresHandle(t *testing.T) {
	assert.Error(t, RunMigrations(nil))
}
