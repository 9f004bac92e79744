package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/shopctl/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "u1",
		Name:  "Admin",
		Email: "admin@example.com",
		Role:  "owner",
	}
}

func TestOpenMissingFileStartsLoggedOut(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
}

func TestSetAuthRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetAuth(testUser(), "access-1", "refresh-1"))

	// Reload from disk, simulating a process restart.
	reloaded, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, testUser(), reloaded.User())
	assert.Equal(t, "access-1", reloaded.AccessToken())
	assert.Equal(t, "refresh-1", reloaded.RefreshToken())
	assert.True(t, reloaded.Authenticated())
}

func TestSetAuthRejectsHalfCredentials(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetAuth(testUser(), "access-only", ""), ErrTokenMismatch)
	assert.ErrorIs(t, s.SetAuth(testUser(), "", "refresh-only"), ErrTokenMismatch)
}

func TestSetAccessTokenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetAuth(testUser(), "access-1", "refresh-1"))
	require.NoError(t, s.SetAccessToken("access-2"))

	reloaded, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "access-2", reloaded.AccessToken())
	assert.Equal(t, "refresh-1", reloaded.RefreshToken())
}

func TestSetAccessTokenWithoutSessionFails(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetAccessToken("access-1"), ErrTokenMismatch)
}

func TestLogoutClearsEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetAuth(testUser(), "access-1", "refresh-1"))
	require.NoError(t, s.Logout())

	assert.Nil(t, s.User())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "persisted session should be removed")
}

func TestLogoutWithoutPersistedFileSucceeds(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	assert.NoError(t, s.Logout())
}

func TestOpenDiscardsUnknownSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	blob := `{"version":99,"user":{"id":"u1"},"access_token":"a","refresh_token":"r"}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestOpenDiscardsCorruptBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestOpenDiscardsHalfCredentialBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	blob := `{"version":1,"user":{"id":"u1"},"access_token":"a","refresh_token":""}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}
