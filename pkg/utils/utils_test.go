package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPersistentServerID(t *testing.T) {
	assert.Equal(t, "node-1", GetPersistentServerID("node-1", t.TempDir()))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".server_id"), []byte(" saved-id \n"), 0644))
	assert.Equal(t, "saved-id", GetPersistentServerID("", dir))

	id := GetPersistentServerID("", t.TempDir())
	assert.Contains(t, id, serverIDPrefix)
}

func TestPanicIfNeeded(t *testing.T) {
	assert.NotPanics(t, func() { PanicIfNeeded(nil) })
	assert.Panics(t, func() { PanicIfNeeded(assert.AnError) })
}

func TestCreateFolder(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b")
	require.NoError(t, CreateFolder(target, ""))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
