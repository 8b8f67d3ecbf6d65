package credentials

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestGet_EmptyStore(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	creds, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Empty(t, creds.AccessToken)
	require.Empty(t, creds.RefreshToken)
	require.Nil(t, creds.User)
}

func TestSetTokens_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.SetTokens(ctx, "AT1", "RT1"))

	creds, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "AT1", creds.AccessToken)
	require.Equal(t, "RT1", creds.RefreshToken)
}

func TestSetTokens_Overwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.SetTokens(ctx, "AT1", "RT1"))
	require.NoError(t, repo.SetTokens(ctx, "AT2", "RT1"))

	creds, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "AT2", creds.AccessToken)
	require.Equal(t, "RT1", creds.RefreshToken)
}

func TestSetUser_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	user := models.UserProfile{"id": float64(1), "email": "a@b.com"}
	require.NoError(t, repo.SetUser(ctx, user))

	creds, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", creds.User.Email())
	require.Equal(t, float64(1), creds.User["id"])
}

func TestSetSession_StoresTokensAndUserTogether(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	user := models.UserProfile{"id": float64(1), "email": "a@b.com"}
	require.NoError(t, repo.SetSession(ctx, "AT1", "RT1", user))

	creds, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "AT1", creds.AccessToken)
	require.Equal(t, "RT1", creds.RefreshToken)
	require.Equal(t, "a@b.com", creds.User.Email())
}

func TestClear_RemovesEverythingTogether(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.SetTokens(ctx, "AT1", "RT1"))
	require.NoError(t, repo.SetUser(ctx, models.UserProfile{"id": float64(1)}))

	require.NoError(t, repo.Clear(ctx))

	creds, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, creds.AccessToken)
	require.Empty(t, creds.RefreshToken)
	require.Nil(t, creds.User)
}

func TestClear_EmptyStoreIsNoError(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	require.NoError(t, repo.Clear(context.Background()))
}
