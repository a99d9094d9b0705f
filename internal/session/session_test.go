package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory(nil, "")
	_, ok := m.Token()
	assert.False(t, ok)
	_, ok = m.User()
	assert.False(t, ok)

	require.NoError(t, m.Save(User{ID: 3, Name: "Hanako"}, "tok"))
	tok, ok := m.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", tok)

	u, ok := m.User()
	require.True(t, ok)
	u.Name = "mutated"
	u2, _ := m.User()
	assert.Equal(t, "Hanako", u2.Name, "User must return a copy")

	require.NoError(t, m.Clear())
	_, ok = m.Token()
	assert.False(t, ok)
}

func TestFileStore_RoundTripAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := OpenFile(path)
	require.NoError(t, err)
	_, ok := s.Token()
	assert.False(t, ok, "missing file means signed out")

	require.NoError(t, s.Save(User{ID: 9, Name: "Taro", Email: "taro@example.com"}, "abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	tok, ok := reopened.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
	u, ok := reopened.User()
	require.True(t, ok)
	assert.Equal(t, uint(9), u.ID)

	require.NoError(t, reopened.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, reopened.Clear(), "clearing twice is fine")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenFile(path)
	assert.Error(t, err)
}
