package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_LeavePatientsTableInPlace(t *testing.T) {
	down, err := fs.ReadFile(FS, "000001_booking_core.down.sql")
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(string(down)), "patients")
	assert.Contains(t, string(down), "DROP TABLE IF EXISTS bookings")

	up, err := fs.ReadFile(FS, "000001_booking_core.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS patients")
}
