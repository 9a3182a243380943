package post

import (
	"github.com/arllen133/jobboard/field"
	"github.com/arllen133/jobboard/internal/database"
)

const (
	postsTable = "posts"
	metaTable  = "post_meta"
)

// Posts holds the typed columns of the posts table.
var Posts = struct {
	ID           field.Number[int64]
	PostType     field.String
	PostStatus   field.String
	UserID       field.Number[int64]
	Title        field.String
	Content      field.String
	PostDate     field.Time
	PostModified field.Time
}{
	ID:           field.Number[int64]{}.WithColumn("post_id"),
	PostType:     field.String{}.WithColumn("post_type"),
	PostStatus:   field.String{}.WithColumn("post_status"),
	UserID:       field.Number[int64]{}.WithColumn("user_id"),
	Title:        field.String{}.WithColumn("title"),
	Content:      field.String{}.WithColumn("content"),
	PostDate:     field.Time{}.WithColumn("post_date"),
	PostModified: field.Time{}.WithColumn("post_modified"),
}

// Metas holds the typed columns of the post_meta table, qualified so they
// can be used inside subqueries against posts.
var Metas = struct {
	ID     field.Number[int64]
	PostID field.Number[int64]
	Key    field.String
	Value  field.String
}{
	ID:     field.Number[int64]{}.WithTable(metaTable).WithColumn("meta_id"),
	PostID: field.Number[int64]{}.WithTable(metaTable).WithColumn("post_id"),
	Key:    field.String{}.WithTable(metaTable).WithColumn("meta_key"),
	Value:  field.String{}.WithTable(metaTable).WithColumn("meta_value"),
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type postSchema struct{}

func (postSchema) TableName() string { return postsTable }

func (postSchema) SelectColumns() []string {
	return []string{
		"post_id",
		"post_type",
		"post_status",
		"user_id",
		"COALESCE(title, '') AS title",
		"COALESCE(content, '') AS content",
		"post_date",
		"post_modified",
	}
}

func (postSchema) InsertRow(m *Post) ([]string, []any) {
	return []string{"post_type", "post_status", "user_id", "title", "content", "post_date", "post_modified"},
		[]any{m.PostType, m.PostStatus, m.UserID, nullable(m.Title), nullable(m.Content), m.PostDate, m.PostModified}
}

func (postSchema) UpdateMap(m *Post) map[string]any {
	return map[string]any{
		"post_type":     m.PostType,
		"post_status":   m.PostStatus,
		"user_id":       m.UserID,
		"title":         nullable(m.Title),
		"content":       nullable(m.Content),
		"post_date":     m.PostDate,
		"post_modified": m.PostModified,
	}
}

func (postSchema) PK(m *Post) database.PK {
	pk := database.PK{Column: Posts.ID.Column()}
	if m != nil {
		pk.Value = m.ID
	}
	return pk
}

func (postSchema) SetPK(m *Post, val int64) { m.ID = val }
func (postSchema) AutoIncrement() bool      { return true }

type metaSchema struct{}

func (metaSchema) TableName() string { return metaTable }

func (metaSchema) SelectColumns() []string {
	return []string{"meta_id", "post_id", "meta_key", "COALESCE(meta_value, '') AS meta_value"}
}

func (metaSchema) InsertRow(m *PostMeta) ([]string, []any) {
	return []string{"post_id", "meta_key", "meta_value"}, []any{m.PostID, m.Key, nullable(m.Value)}
}

func (metaSchema) UpdateMap(m *PostMeta) map[string]any {
	return map[string]any{"meta_value": nullable(m.Value)}
}

func (metaSchema) PK(m *PostMeta) database.PK {
	pk := database.PK{Column: Metas.ID.Column()}
	if m != nil {
		pk.Value = m.ID
	}
	return pk
}

func (metaSchema) SetPK(m *PostMeta, val int64) { m.ID = val }
func (metaSchema) AutoIncrement() bool          { return true }

func init() {
	database.RegisterSchema[Post](postSchema{})
	database.RegisterSchema[PostMeta](metaSchema{})
}
