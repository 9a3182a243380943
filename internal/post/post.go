// Package post stores generic content entries and their key/value metadata.
//
// A job listing is a Post with PostType "listing"; its extension fields
// (salary, company, ...) live in post_meta, one row per key.
package post

import (
	"context"
	"errors"
	"time"

	"github.com/arllen133/jobboard/internal/ctxutil"
)

const (
	TypePost    = "post"
	TypeListing = "listing"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"

	// StatusAny disables the status predicate of a Filter.
	StatusAny Status = "any"
)

var (
	ErrIDRequired     = errors.New("post: identifier required for update")
	ErrOwnerRequired  = errors.New("post: no authenticated user to own the post")
	ErrInvalidColumn  = errors.New("post: invalid order column")
	ErrInvalidMetaKey = errors.New("post: invalid meta key")
)

var now = func() time.Time { return time.Now().UTC() }

type Post struct {
	ID           int64     `db:"post_id"`
	PostType     string    `db:"post_type"`
	PostStatus   Status    `db:"post_status"`
	UserID       int64     `db:"user_id"`
	Title        string    `db:"title"`
	Content      string    `db:"content"`
	PostDate     time.Time `db:"post_date"`
	PostModified time.Time `db:"post_modified"`

	// Meta is populated only when requested (Filter.WithMeta, GetAllMeta).
	Meta Meta `db:"-"`
}

// BeforeCreate fills the defaults of a new post. The owner defaults to the
// authenticated user carried by ctx.
func (p *Post) BeforeCreate(ctx context.Context) error {
	if p.PostType == "" {
		p.PostType = TypePost
	}
	if p.PostStatus == "" {
		p.PostStatus = StatusDraft
	}
	if p.UserID == 0 {
		uid, ok := ctxutil.GetUserID(ctx)
		if !ok {
			return ErrOwnerRequired
		}
		p.UserID = uid
	}
	ts := now()
	if p.PostDate.IsZero() {
		p.PostDate = ts
	}
	if p.PostModified.IsZero() {
		p.PostModified = ts
	}
	return nil
}

func (p *Post) BeforeUpdate(context.Context) error {
	p.PostModified = now()
	return nil
}

// Fields is the caller-supplied part of a post. Zero values fall back to
// the defaults applied by Insert.
type Fields struct {
	PostType   string
	PostStatus Status
	UserID     int64
	Title      string
	Content    string
	PostDate   time.Time
	Meta       Meta
}

// PostMeta is a single (post, key, value) row.
type PostMeta struct {
	ID     int64  `db:"meta_id"`
	PostID int64  `db:"post_id"`
	Key    string `db:"meta_key"`
	Value  string `db:"meta_value"`
}
