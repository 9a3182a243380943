package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/arllen133/jobboard/clause"
	"github.com/arllen133/jobboard/internal/database"
)

var (
	metaConflict = []clause.Columnar{clause.Column{Name: "post_id"}, clause.Column{Name: "meta_key"}}
	metaUpdate   = []clause.Columnar{clause.Column{Name: "meta_value"}}
)

// Repository reads and writes posts and their meta rows.
type Repository struct {
	session *database.Session
}

func NewRepository(session *database.Session) *Repository {
	return &Repository{session: session}
}

func (r *Repository) query(session *database.Session, f Filter) *database.QueryBuilder[Post] {
	q := database.Query[Post](session)
	for _, cond := range f.conditions() {
		q = q.Where(cond)
	}
	if f.WithMeta {
		q = q.WithPreload(database.Preload(metaRelation))
	}
	return q
}

var metaRelation = database.HasMany[Post, PostMeta](
	Metas.PostID.Column(),
	func(p *Post, rows []*PostMeta) {
		p.Meta = make(Meta, len(rows))
		for _, row := range rows {
			p.Meta[row.Key] = row.Value
		}
	},
	func(p *Post) any { return p.ID },
)

// Find returns the posts matching f in the requested order.
func (r *Repository) Find(ctx context.Context, f Filter) ([]*Post, error) {
	order, err := f.orderBy()
	if err != nil {
		return nil, err
	}

	q := r.query(r.session, f).OrderBy(order)
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	posts, err := q.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("post: find: %w", err)
	}
	return posts, nil
}

// FindOne returns the post identified by f.PostID, subject to the other
// predicates of f, or database.ErrNotFound.
func (r *Repository) FindOne(ctx context.Context, f Filter) (*Post, error) {
	if f.PostID == 0 {
		return nil, ErrIDRequired
	}

	p, err := r.query(r.session, f).Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", f.PostID, err)
	}
	return p, nil
}

// Count returns the number of posts matching f, ignoring Limit and Offset.
func (r *Repository) Count(ctx context.Context, f Filter) (int64, error) {
	n, err := r.query(r.session, f).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("post: count: %w", err)
	}
	return n, nil
}

// Insert creates a post and its meta rows in one transaction and returns
// the new post id.
func (r *Repository) Insert(ctx context.Context, fields Fields) (int64, error) {
	if err := checkMetaKeys(fields.Meta); err != nil {
		return 0, err
	}

	p := &Post{
		PostType:   fields.PostType,
		PostStatus: fields.PostStatus,
		UserID:     fields.UserID,
		Title:      fields.Title,
		Content:    fields.Content,
		PostDate:   fields.PostDate,
	}

	err := r.session.Transaction(ctx, func(tx *database.Session) error {
		if err := database.NewRepository[Post](tx).Create(ctx, p); err != nil {
			return err
		}
		return setMetas(ctx, tx, p.ID, fields.Meta)
	})
	if err != nil {
		return 0, fmt.Errorf("post: insert: %w", err)
	}
	return p.ID, nil
}

// Update rewrites the title and content of post id, plus its type and
// status when given, refreshes post_modified and upserts fields.Meta. The
// owner and post_date never change.
func (r *Repository) Update(ctx context.Context, id int64, fields Fields) error {
	if id == 0 {
		return ErrIDRequired
	}
	if err := checkMetaKeys(fields.Meta); err != nil {
		return err
	}

	err := r.session.Transaction(ctx, func(tx *database.Session) error {
		posts := database.NewRepository[Post](tx)

		p, err := posts.FindOne(ctx, id)
		if err != nil {
			return err
		}

		p.Title = fields.Title
		p.Content = fields.Content
		if fields.PostType != "" {
			p.PostType = fields.PostType
		}
		if fields.PostStatus != "" {
			p.PostStatus = fields.PostStatus
		}

		if _, err := posts.Update(ctx, p); err != nil {
			return err
		}
		return setMetas(ctx, tx, id, fields.Meta)
	})
	if err != nil {
		return fmt.Errorf("post %d: update: %w", id, err)
	}
	return nil
}

// Delete removes post id and its meta rows in one transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	err := r.session.Transaction(ctx, func(tx *database.Session) error {
		_, err := database.NewRepository[PostMeta](tx).
			Where(Metas.PostID.Eq(id)).
			DeleteWhere(ctx)
		if err != nil {
			return err
		}

		n, err := database.NewRepository[Post](tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return database.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("post %d: delete: %w", id, err)
	}
	return nil
}

// GetMeta returns the value stored under key, or "" when there is none.
func (r *Repository) GetMeta(ctx context.Context, key string, postID int64) (string, error) {
	m, err := database.Query[PostMeta](r.session).
		Where(Metas.PostID.Eq(postID)).
		Where(Metas.Key.Eq(key)).
		Take(ctx)
	if errors.Is(err, database.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("post %d: get meta %q: %w", postID, key, err)
	}
	return m.Value, nil
}

// GetAllMeta returns every meta value of the post. The map is empty, not
// nil, when the post has no meta rows.
func (r *Repository) GetAllMeta(ctx context.Context, postID int64) (Meta, error) {
	rows, err := database.Query[PostMeta](r.session).
		Where(Metas.PostID.Eq(postID)).
		Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("post %d: get all meta: %w", postID, err)
	}

	meta := make(Meta, len(rows))
	for _, row := range rows {
		meta[row.Key] = row.Value
	}
	return meta, nil
}

// SetMeta inserts or replaces the value stored under key.
func (r *Repository) SetMeta(ctx context.Context, key, value string, postID int64) error {
	if err := checkMetaKey(key); err != nil {
		return err
	}
	if err := setMeta(ctx, r.session, postID, key, value); err != nil {
		return fmt.Errorf("post %d: set meta %q: %w", postID, key, err)
	}
	return nil
}

func setMeta(ctx context.Context, session *database.Session, postID int64, key, value string) error {
	return database.NewRepository[PostMeta](session).Upsert(ctx,
		&PostMeta{PostID: postID, Key: key, Value: value},
		database.OnConflict(metaConflict...),
		database.DoUpdate(metaUpdate...),
	)
}

func setMetas(ctx context.Context, session *database.Session, postID int64, meta Meta) error {
	for _, key := range meta.Keys() {
		if err := setMeta(ctx, session, postID, key, meta[key]); err != nil {
			return err
		}
	}
	return nil
}

func checkMetaKeys(meta Meta) error {
	for key := range meta {
		if err := checkMetaKey(key); err != nil {
			return err
		}
	}
	return nil
}
