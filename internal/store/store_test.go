package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestSaveAndLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "local"))

	in := sample{Name: "kitchen", Items: []string{"fridge", "kettle"}}
	require.NoError(t, s.Save("rooms", in))

	var out sample
	require.NoError(t, s.Load("rooms", &out))
	assert.Equal(t, in, out)

	_, err := os.Stat(filepath.Join(s.Dir(), "rooms.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())

	var out sample
	assert.ErrorIs(t, s.Load("absent", &out), ErrNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.Save("k", []int{1, 2, 3}))
	require.NoError(t, s.Save("k", []int{}))

	var out []int
	require.NoError(t, s.Load("k", &out))
	assert.Empty(t, out)
}

func TestDelete(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.Save("k", "v"))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))

	var out string
	assert.ErrorIs(t, s.Load("k", &out), ErrNotFound)
}

func TestInvalidKeys(t *testing.T) {
	s := New(t.TempDir())

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, s.Save(key, 1), ErrInvalidKey)
			assert.ErrorIs(t, s.Load(key, new(int)), ErrInvalidKey)
			assert.ErrorIs(t, s.Delete(key), ErrInvalidKey)
		})
	}
}
