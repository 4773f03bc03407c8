package credstore

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return New("state", WithFs(fs)), fs
}

func TestLoad_EmptyStore(t *testing.T) {
	store, _ := newMemStore(t)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	store, fs := newMemStore(t)

	require.NoError(t, store.Save("tok-secret-123"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-secret-123", token)

	// The token never hits disk in the clear.
	raw, err := afero.ReadFile(fs, filepath.Join("state", credentialsFile))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-secret-123")
}

func TestSave_Overwrites(t *testing.T) {
	store, _ := newMemStore(t)

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestClear(t *testing.T) {
	store, _ := newMemStore(t)

	require.NoError(t, store.Save("tok"))
	require.NoError(t, store.Clear())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing again is not an error.
	require.NoError(t, store.Clear())
}

func TestLoad_CorruptFileBehavesAsLoggedOut(t *testing.T) {
	store, fs := newMemStore(t)

	require.NoError(t, afero.WriteFile(fs, filepath.Join("state", credentialsFile), []byte("not a credentials file"), 0o600))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLoad_WrongMachineSecretBehavesAsLoggedOut(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := New("state", WithFs(fs))
	require.NoError(t, store.Save("tok"))

	// Simulate the machine secret being rotated out from under the store.
	require.NoError(t, fs.Remove(filepath.Join("state", secretFile)))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
