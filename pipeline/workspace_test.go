package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkspace(t *testing.T) {
	baseDir := t.TempDir()
	ws, err := NewWorkspace(baseDir)
	assert.NoError(t, err)

	assert.DirExists(t, ws.Root)
	assert.DirExists(t, ws.Inputs)
	assert.DirExists(t, ws.Outputs)
	assert.Equal(t, baseDir, filepath.Dir(ws.Root))
}

func TestWorkspacesAreIndependent(t *testing.T) {
	baseDir := t.TempDir()
	first, err := NewWorkspace(baseDir)
	assert.NoError(t, err)
	second, err := NewWorkspace(baseDir)
	assert.NoError(t, err)
	assert.NotEqual(t, first.Root, second.Root)
}

func TestWorkspaceDestroy(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(filepath.Join(ws.Inputs, "leftover.tif"), []byte("x"), 0o644))

	assert.NoError(t, ws.Destroy())
	assert.NoDirExists(t, ws.Root)

	// Destroying twice is harmless.
	assert.NoError(t, ws.Destroy())
}

func TestNewWorkspaceBadBase(t *testing.T) {
	_, err := NewWorkspace(filepath.Join(t.TempDir(), "does", "not", "exist"))
	assert.Error(t, err)
}
