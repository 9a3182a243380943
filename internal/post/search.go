package post

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/jobboard/clause"
)

var (
	keywordMetaKeys  = []string{MetaCompany, MetaAddress, MetaTags}
	locationMetaKeys = []string{MetaCity, MetaState}
)

// SearchQuery is a keyword and location search over published posts.
type SearchQuery struct {
	Keywords string
	Location string
	PostType string // defaults to TypeListing
}

func (s SearchQuery) conditions() []clause.Expression {
	var conds []clause.Expression

	if kw := strings.TrimSpace(s.Keywords); kw != "" {
		conds = append(conds, clause.Or{
			Posts.Title.Contains(kw),
			Posts.Content.Contains(kw),
			metaContains(keywordMetaKeys, kw),
		})
	}
	if loc := strings.TrimSpace(s.Location); loc != "" {
		conds = append(conds, metaContains(locationMetaKeys, loc))
	}
	return conds
}

// metaContains matches posts having a meta row under one of keys whose value
// contains term.
func metaContains(keys []string, term string) clause.Expression {
	return clause.Exists{Expr: metaSubquery{keys: keys, term: term}}
}

type metaSubquery struct {
	keys []string
	term string
}

func (m metaSubquery) Build() (string, []any, error) {
	keyCond, keyArgs, err := Metas.Key.In(m.keys...).Build()
	if err != nil {
		return "", nil, err
	}
	valCond, valArgs, err := Metas.Value.Contains(m.term).Build()
	if err != nil {
		return "", nil, err
	}

	// placeholders stay "?" here; the outer builder renumbers them
	return sq.Select("1").
		From(metaTable).
		Where(Metas.PostID.ColumnName() + " = " + postsTable + "." + Posts.ID.ColumnName()).
		Where(sq.Expr(keyCond, keyArgs...)).
		Where(sq.Expr(valCond, valArgs...)).
		ToSql()
}

// Search returns published posts matching every non-empty term, newest first.
func (r *Repository) Search(ctx context.Context, s SearchQuery) ([]*Post, error) {
	postType := s.PostType
	if postType == "" {
		postType = TypeListing
	}

	q := r.query(r.session, Filter{PostType: postType, PostStatus: StatusPublished, WithMeta: true})
	for _, cond := range s.conditions() {
		q = q.Where(cond)
	}

	posts, err := q.OrderBy(Posts.PostDate.Desc(), Posts.ID.Desc()).Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("post: search: %w", err)
	}
	return posts, nil
}
