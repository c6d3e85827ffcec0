package identity

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/energy-calculator/internal/store"
)

var tokenPattern = regexp.MustCompile(`^user_\d+_[0-9a-f]{9}$`)

func TestNewFormat(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	token := New(now)

	assert.Regexp(t, tokenPattern, token)
	assert.Contains(t, token, "_1700000000123_")
	assert.NotEqual(t, token, New(now))
}

func TestLoadOrCreate_StableAcrossLoads(t *testing.T) {
	s := store.New(t.TempDir())

	first, err := LoadOrCreate(s)
	require.NoError(t, err)
	assert.Regexp(t, tokenPattern, first)

	second, err := LoadOrCreate(s)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	reopened, err := LoadOrCreate(store.New(s.Dir()))
	require.NoError(t, err)
	assert.Equal(t, first, reopened)
}

func TestLoadOrCreate_ReplacesEmptyToken(t *testing.T) {
	s := store.New(t.TempDir())
	require.NoError(t, s.Save(StorageKey, ""))

	token, err := LoadOrCreate(s)
	require.NoError(t, err)
	assert.Regexp(t, tokenPattern, token)
}
