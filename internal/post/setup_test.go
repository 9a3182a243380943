package post_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/arllen133/jobboard/internal/ctxutil"
	"github.com/arllen133/jobboard/internal/database"
	"github.com/arllen133/jobboard/internal/post"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*post.Repository, *database.Session) {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	session := database.NewSession(db, database.SQLite)
	ctx := context.Background()
	require.NoError(t, session.Migrate(ctx))

	for _, email := range []string{"ann@example.com", "bob@example.com"} {
		_, err := session.Exec(ctx,
			"INSERT INTO users (name, email, password, created_at) VALUES (?, ?, ?, ?)",
			"user", email, "x", time.Now().UTC())
		require.NoError(t, err)
	}

	return post.NewRepository(session), session
}

// asUser returns a context authenticated as uid.
func asUser(uid int64) context.Context {
	return ctxutil.SetUserID(context.Background(), uid)
}

func insertListing(t *testing.T, repo *post.Repository, uid int64, title string, date time.Time, meta post.Meta) int64 {
	t.Helper()
	id, err := repo.Insert(asUser(uid), post.Fields{
		PostType:   post.TypeListing,
		PostStatus: post.StatusPublished,
		Title:      title,
		Content:    title + " description",
		PostDate:   date,
		Meta:       meta,
	})
	require.NoError(t, err)
	return id
}
