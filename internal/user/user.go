// Package user stores registered accounts.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arllen133/jobboard/clause"
	"github.com/arllen133/jobboard/field"
	"github.com/arllen133/jobboard/internal/database"
)

var ErrEmailTaken = errors.New("user: email already exists")

type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	City      string    `db:"city"`
	State     string    `db:"state"`
	Password  string    `db:"password"` // bcrypt hash
	CreatedAt time.Time `db:"created_at"`
}

func (u *User) BeforeCreate(context.Context) error {
	u.Email = NormalizeEmail(u.Email)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Users holds the typed columns of the users table.
var Users = struct {
	ID    field.Number[int64]
	Email field.String
}{
	ID:    field.Number[int64]{}.WithColumn("id"),
	Email: field.String{}.WithColumn("email"),
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type userSchema struct{}

func (userSchema) TableName() string { return "users" }

func (userSchema) SelectColumns() []string {
	return []string{"id", "name", "email", "COALESCE(city, '') AS city", "COALESCE(state, '') AS state", "password", "created_at"}
}

func (userSchema) InsertRow(u *User) ([]string, []any) {
	return []string{"name", "email", "city", "state", "password", "created_at"},
		[]any{u.Name, u.Email, nullable(u.City), nullable(u.State), u.Password, u.CreatedAt}
}

func (userSchema) UpdateMap(u *User) map[string]any {
	return map[string]any{
		"name":     u.Name,
		"email":    u.Email,
		"city":     nullable(u.City),
		"state":    nullable(u.State),
		"password": u.Password,
	}
}

func (userSchema) PK(u *User) database.PK {
	pk := database.PK{Column: clause.Column{Name: "id"}}
	if u != nil {
		pk.Value = u.ID
	}
	return pk
}

func (userSchema) SetPK(u *User, val int64) { u.ID = val }
func (userSchema) AutoIncrement() bool      { return true }

func init() {
	database.RegisterSchema[User](userSchema{})
}

type Repository struct {
	users *database.Repository[User]
}

func NewRepository(session *database.Session) *Repository {
	return &Repository{users: database.NewRepository[User](session)}
}

// Create inserts u and sets its id. A duplicate email yields ErrEmailTaken.
func (r *Repository) Create(ctx context.Context, u *User) error {
	if err := r.users.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("user: create: %w", err)
	}
	return nil
}

// FindByEmail returns the user registered with email, or database.ErrNotFound.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := r.users.Query().Where(Users.Email.Eq(NormalizeEmail(email))).Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", email, err)
	}
	return u, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	u, err := r.users.FindOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return u, nil
}

// EmailTaken reports whether an account already uses email.
func (r *Repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	n, err := r.users.Query().Where(Users.Email.Eq(NormalizeEmail(email))).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("user: email lookup: %w", err)
	}
	return n > 0, nil
}
