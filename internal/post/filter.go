package post

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arllen133/jobboard/clause"
)

// Column names a posts column that may be used for ordering.
type Column string

const (
	ColumnID           Column = "post_id"
	ColumnType         Column = "post_type"
	ColumnStatus       Column = "post_status"
	ColumnUserID       Column = "user_id"
	ColumnTitle        Column = "title"
	ColumnPostDate     Column = "post_date"
	ColumnPostModified Column = "post_modified"
)

func (c Column) valid() bool {
	switch c {
	case ColumnID, ColumnType, ColumnStatus, ColumnUserID, ColumnTitle, ColumnPostDate, ColumnPostModified:
		return true
	}
	return false
}

const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Filter selects posts. Every non-zero predicate field is ANDed into the
// WHERE clause.
type Filter struct {
	PostType   string
	PostStatus Status // defaults to StatusPublished; StatusAny matches every status
	PostID     int64
	AuthorID   int64

	Limit  int // <= 0 means no LIMIT
	Offset int // <= 0 means no OFFSET

	OrderBy Column // defaults to ColumnPostDate
	Order   string // ASC or DESC, case-insensitive; anything else is DESC

	// WithMeta loads each post's meta rows into Post.Meta.
	WithMeta bool
}

func (f Filter) conditions() []clause.Expression {
	var conds []clause.Expression

	if f.PostType != "" {
		conds = append(conds, Posts.PostType.Eq(f.PostType))
	}

	switch status := f.PostStatus; status {
	case StatusAny:
	case "":
		conds = append(conds, Posts.PostStatus.Eq(string(StatusPublished)))
	default:
		conds = append(conds, Posts.PostStatus.Eq(string(status)))
	}

	if f.PostID != 0 {
		conds = append(conds, Posts.ID.Eq(f.PostID))
	}
	if f.AuthorID != 0 {
		conds = append(conds, Posts.UserID.Eq(f.AuthorID))
	}
	return conds
}

func (f Filter) orderBy() (clause.OrderByColumn, error) {
	col := f.OrderBy
	if col == "" {
		col = ColumnPostDate
	}
	if !col.valid() {
		return clause.OrderByColumn{}, fmt.Errorf("%w: %q", ErrInvalidColumn, col)
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: string(col)},
		Desc:   !strings.EqualFold(f.Order, OrderAsc),
	}, nil
}

// ParseLimit converts a form or query value to a Limit/Offset. Values that
// are not non-negative integers yield 0, which emits no clause.
func ParseLimit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
