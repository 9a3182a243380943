package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/arllen133/jobboard/clause"
	"github.com/arllen133/jobboard/internal/database"
	_ "github.com/mattn/go-sqlite3"
)

// Note is a minimal model used to exercise the generic repository.
type Note struct {
	ID     int64  `db:"id"`
	Author int64  `db:"author"`
	Body   string `db:"body"`
	Tag    string `db:"tag"`
}

type noteSchema struct{}

func (noteSchema) TableName() string { return "notes" }
func (noteSchema) SelectColumns() []string {
	return []string{"id", "author", "COALESCE(body, '') AS body", "COALESCE(tag, '') AS tag"}
}
func (noteSchema) InsertRow(m *Note) ([]string, []any) {
	if m.ID != 0 {
		return []string{"id", "author", "body", "tag"}, []any{m.ID, m.Author, m.Body, nullIfEmpty(m.Tag)}
	}
	return []string{"author", "body", "tag"}, []any{m.Author, m.Body, nullIfEmpty(m.Tag)}
}
func (noteSchema) UpdateMap(m *Note) map[string]any {
	return map[string]any{"author": m.Author, "body": m.Body, "tag": nullIfEmpty(m.Tag)}
}
func (noteSchema) PK(m *Note) database.PK {
	var val any
	if m != nil {
		val = m.ID
	}
	return database.PK{Column: clause.Column{Name: "id"}, Value: val}
}
func (noteSchema) SetPK(m *Note, val int64) { m.ID = val }
func (noteSchema) AutoIncrement() bool      { return true }

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Attachment belongs to a Note.
type Attachment struct {
	ID     int64  `db:"id"`
	NoteID int64  `db:"note_id"`
	Name   string `db:"name"`
}

type attachmentSchema struct{}

func (attachmentSchema) TableName() string       { return "attachments" }
func (attachmentSchema) SelectColumns() []string { return []string{"id", "note_id", "name"} }
func (attachmentSchema) InsertRow(m *Attachment) ([]string, []any) {
	return []string{"note_id", "name"}, []any{m.NoteID, m.Name}
}
func (attachmentSchema) UpdateMap(m *Attachment) map[string]any {
	return map[string]any{"note_id": m.NoteID, "name": m.Name}
}
func (attachmentSchema) PK(m *Attachment) database.PK {
	var val any
	if m != nil {
		val = m.ID
	}
	return database.PK{Column: clause.Column{Name: "id"}, Value: val}
}
func (attachmentSchema) SetPK(m *Attachment, val int64) { m.ID = val }
func (attachmentSchema) AutoIncrement() bool            { return true }

func init() {
	database.RegisterSchema[Note](noteSchema{})
	database.RegisterSchema[Attachment](attachmentSchema{})
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=1")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestSession(t *testing.T, opts ...database.SessionOption) *database.Session {
	t.Helper()

	db := openTestDB(t)
	_, err := db.Exec(`CREATE TABLE notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author INTEGER NOT NULL,
		body TEXT,
		tag TEXT UNIQUE
	)`)
	if err == nil {
		_, err = db.Exec(`CREATE TABLE attachments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			note_id INTEGER NOT NULL,
			name TEXT NOT NULL
		)`)
	}
	if err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}

	return database.NewSession(db, database.SQLite, opts...)
}

func createNote(t *testing.T, repo *database.Repository[Note], n *Note) *Note {
	t.Helper()
	if err := repo.Create(context.Background(), n); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	return n
}
