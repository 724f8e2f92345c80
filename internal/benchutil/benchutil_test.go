package benchutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirp/internal/testutil"
)

func TestPct(t *testing.T) {
	vs := []time.Duration{5, 1, 4, 2, 3}
	assert.Equal(t, time.Duration(3), Pct(vs, 0.5))
	assert.Equal(t, time.Duration(5), Pct(vs, 0.99))
	assert.Equal(t, time.Duration(1), Pct(vs, 0))
	assert.Zero(t, Pct(nil, 0.5))
	assert.Equal(t, time.Duration(5), vs[0], "input must stay unsorted")
}

func TestEnvInt(t *testing.T) {
	t.Setenv("BENCH_N", "42")
	assert.Equal(t, 42, EnvInt("BENCH_N", 7))
	t.Setenv("BENCH_N", "-1")
	assert.Equal(t, 7, EnvInt("BENCH_N", 7))
	assert.Equal(t, 7, EnvInt("BENCH_UNSET", 7))
}

func TestSeedUsers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users, err := SeedUsers(db, "b", 1500)
	require.NoError(t, err)
	assert.Len(t, users, 1500)

	var n int64
	require.NoError(t, db.Table("users").Count(&n).Error)
	assert.EqualValues(t, 1500, n)
}
