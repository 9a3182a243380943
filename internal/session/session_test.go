package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arllen133/jobboard/internal/ctxutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Options{Secret: "test-secret", MaxAge: time.Hour})
	require.NoError(t, err)
	return m
}

// roundTrip saves s and returns a request carrying the resulting cookie.
func roundTrip(t *testing.T, m *Manager, s *Session) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, s))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager(Options{})
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestUserRoundTrip(t *testing.T) {
	m := newTestManager(t)

	s := New()
	s.SetUser(User{ID: 7, Name: "Jane", Email: "jane@example.com", City: "Boston", State: "MA"})

	loaded := m.Load(roundTrip(t, m, s))
	require.True(t, loaded.IsAuthenticated())
	assert.Equal(t, int64(7), loaded.UserID())
	assert.Equal(t, "Boston", loaded.User().City)
	assert.False(t, loaded.Modified())
}

func TestFlashesAreReadOnce(t *testing.T) {
	m := newTestManager(t)

	s := New()
	s.Flash(FlashSuccess, "Listing created successfully")

	loaded := m.Load(roundTrip(t, m, s))
	assert.Equal(t, map[string]string{FlashSuccess: "Listing created successfully"}, loaded.Flashes())
	assert.Empty(t, loaded.Flashes())
	assert.True(t, loaded.Modified())

	// nothing left: the next save deletes the cookie
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, loaded))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestTamperedCookieLoadsEmpty(t *testing.T) {
	m := newTestManager(t)

	s := New()
	s.SetUser(User{ID: 1, Name: "Jane"})
	req := roundTrip(t, m, s)

	c, err := req.Cookie(DefaultCookieName)
	require.NoError(t, err)

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: c.Value + "x"})
	assert.False(t, m.Load(tampered).IsAuthenticated())

	other, err := NewManager(Options{Secret: "another-secret"})
	require.NoError(t, err)
	assert.False(t, other.Load(req).IsAuthenticated())
}

func TestExpiredCookieLoadsEmpty(t *testing.T) {
	m := newTestManager(t)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	s := New()
	s.SetUser(User{ID: 1})
	req := roundTrip(t, m, s)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	assert.False(t, m.Load(req).IsAuthenticated())
}

func TestUnmodifiedSessionIsNotWritten(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, New()))
	assert.Empty(t, rec.Result().Cookies())
}

func TestClear(t *testing.T) {
	s := New()
	s.SetUser(User{ID: 3})
	s.Flash(FlashError, "boom")
	s.Clear()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Flashes())
}

func TestFromContextDefaultsToEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s := FromContext(req.Context())
	require.NotNil(t, s)
	assert.False(t, s.IsAuthenticated())
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager(t)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		s := FromContext(c.Request.Context())
		uid, ok := ctxutil.GetUserID(c.Request.Context())
		if s.IsAuthenticated() != ok || s.UserID() != uid {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, "%d", uid)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Body.String())

	s := New()
	s.SetUser(User{ID: 42})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, roundTrip(t, m, s))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
}
