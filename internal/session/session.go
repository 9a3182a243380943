// Package session keeps per-visitor state in a signed cookie.
//
// The cookie holds an HS256 JWT with the authenticated user's public fields
// and any pending flash messages. A cookie that fails verification or has
// expired loads as an empty session.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const DefaultCookieName = "jobboard_session"

// User is the public part of an account kept in the session.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// Session is the state of one request. It is not safe for concurrent use.
type Session struct {
	user    *User
	flashes map[string]string
	dirty   bool
}

func New() *Session {
	return &Session{flashes: map[string]string{}}
}

func (s *Session) User() *User { return s.user }

func (s *Session) IsAuthenticated() bool {
	return s.user != nil && s.user.ID != 0
}

// UserID returns the authenticated user's id, or 0.
func (s *Session) UserID() int64 {
	if !s.IsAuthenticated() {
		return 0
	}
	return s.user.ID
}

func (s *Session) SetUser(u User) {
	s.user = &u
	s.dirty = true
}

// Clear drops the user and every pending flash.
func (s *Session) Clear() {
	s.user = nil
	s.flashes = map[string]string{}
	s.dirty = true
}

// Flash queues a one-shot message for the next rendered page.
func (s *Session) Flash(kind, message string) {
	s.flashes[kind] = message
	s.dirty = true
}

// Flashes returns the pending messages and clears them.
func (s *Session) Flashes() map[string]string {
	out := s.flashes
	if len(out) > 0 {
		s.flashes = map[string]string{}
		s.dirty = true
	}
	return out
}

// Modified reports whether the session must be written back.
func (s *Session) Modified() bool { return s.dirty }

func (s *Session) empty() bool {
	return s.user == nil && len(s.flashes) == 0
}

type claims struct {
	User    *User             `json:"user,omitempty"`
	Flashes map[string]string `json:"flash,omitempty"`
	jwt.RegisteredClaims
}

type Options struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Manager loads and saves sessions.
type Manager struct {
	secret     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
	now        func() time.Time
}

var ErrNoSecret = errors.New("session: secret is required")

func NewManager(opts Options) (*Manager, error) {
	if opts.Secret == "" {
		return nil, ErrNoSecret
	}
	m := &Manager{
		secret:     []byte(opts.Secret),
		cookieName: opts.CookieName,
		maxAge:     opts.MaxAge,
		secure:     opts.Secure,
		now:        time.Now,
	}
	if m.cookieName == "" {
		m.cookieName = DefaultCookieName
	}
	if m.maxAge <= 0 {
		m.maxAge = 24 * time.Hour
	}
	return m, nil
}

func (m *Manager) CookieName() string { return m.cookieName }

// Load reads the session cookie of r.
func (m *Manager) Load(r *http.Request) *Session {
	s := New()

	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return s
	}

	var c claims
	_, err = jwt.ParseWithClaims(cookie.Value, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		// tampered, expired or signed with an old secret: start over
		s.dirty = true
		return s
	}

	s.user = c.User
	if c.Flashes != nil {
		s.flashes = c.Flashes
	}
	return s
}

// Save writes s back as a cookie when it changed. An empty session deletes
// the cookie.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if !s.dirty {
		return nil
	}

	if s.empty() {
		http.SetCookie(w, m.cookie("", -1))
		s.dirty = false
		return nil
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		User:    s.user,
		Flashes: s.flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(signed, int(m.maxAge.Seconds())))
	s.dirty = false
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, or a fresh empty one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok {
		return s
	}
	return New()
}
