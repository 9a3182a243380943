package handler_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/arllen133/jobboard/internal/database"
	"github.com/arllen133/jobboard/internal/handler"
	"github.com/arllen133/jobboard/internal/post"
	"github.com/arllen133/jobboard/internal/session"
	"github.com/arllen133/jobboard/internal/user"
	"github.com/arllen133/jobboard/internal/view"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	router http.Handler
	posts  *post.Repository
	users  *user.Repository
}

func setupApp(t *testing.T, pageSize int) *app {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	dbSession := database.NewSession(db, database.SQLite)
	require.NoError(t, dbSession.Migrate(context.Background()))

	sessions, err := session.NewManager(session.Options{Secret: "handler-test"})
	require.NoError(t, err)

	views, err := view.New()
	require.NoError(t, err)

	a := &app{
		posts: post.NewRepository(dbSession),
		users: user.NewRepository(dbSession),
	}
	a.router = handler.New(handler.Deps{
		Posts:    a.posts,
		Users:    a.users,
		Sessions: sessions,
		Views:    views,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		PageSize: pageSize,
	}).Router()
	return a
}

// client is a browser stand-in that keeps cookies between requests.
type client struct {
	t       *testing.T
	app     *app
	cookies map[string]*http.Cookie
}

func (a *app) client(t *testing.T) *client {
	return &client{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.app.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, target, nil)
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, target, form)
}

// register signs c up and leaves it logged in.
func (c *client) register(name, email string) {
	c.t.Helper()
	rec := c.post("/auth/register", url.Values{
		"name":                  {name},
		"email":                 {email},
		"city":                  {"Boston"},
		"state":                 {"MA"},
		"password":              {"secret123"},
		"password_confirmation": {"secret123"},
	})
	require.Equal(c.t, http.StatusFound, rec.Code, rec.Body.String())
}

func listingForm(title string) url.Values {
	return url.Values{
		"title":        {title},
		"description":  {"Write Go services"},
		"salary":       {"90000"},
		"tags":         {"go, sql"},
		"company":      {"Acme"},
		"address":      {"1 Main St"},
		"city":         {"Boston"},
		"state":        {"MA"},
		"phone":        {"555-1234"},
		"email":        {"jobs@acme.test"},
		"requirements": {"3 years"},
		"benefits":     {"Health"},
	}
}

func (a *app) allListings(t *testing.T) []*post.Post {
	t.Helper()
	posts, err := a.posts.Find(context.Background(), post.Filter{PostType: post.TypeListing, WithMeta: true})
	require.NoError(t, err)
	return posts
}
