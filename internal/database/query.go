package database

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/jobboard/clause"
)

// QueryBuilder assembles a SELECT for model T. The first error raised while
// building is kept and returned by the terminal method.
type QueryBuilder[T any] struct {
	session  *Session
	schema   Schema[T]
	builder  sq.SelectBuilder
	columns  []string
	orders   []string
	preloads []preloadExecutor[T]
	err      error
}

type preloadExecutor[T any] func(ctx context.Context, session *Session, results []*T) error

// Query creates a QueryBuilder for T selecting the schema's columns.
// It panics if no schema is registered for T.
func Query[T any](session *Session) *QueryBuilder[T] {
	schema := LoadSchema[T]()

	return &QueryBuilder[T]{
		session: session,
		schema:  schema,
		builder: sq.Select().
			From(schema.TableName()).
			PlaceholderFormat(session.dialect.PlaceholderFormat()),
	}
}

// Where adds a condition. Multiple calls are combined with AND; each
// condition is parenthesized, so an Or keeps its grouping.
func (q *QueryBuilder[T]) Where(expr clause.Expression) *QueryBuilder[T] {
	if q.err != nil {
		return q
	}
	pred, err := predicate(expr)
	if err != nil {
		q.err = err
		return q
	}
	q.builder = q.builder.Where(pred)
	return q
}

// OrderBy appends ORDER BY entries in the given order.
func (q *QueryBuilder[T]) OrderBy(orders ...clause.OrderByColumn) *QueryBuilder[T] {
	if q.err != nil {
		return q
	}
	for _, order := range orders {
		sql, _, err := order.Build()
		if err != nil {
			q.err = err
			return q
		}
		q.orders = append(q.orders, sql)
	}
	return q
}

// Limit sets the maximum number of rows returned.
func (q *QueryBuilder[T]) Limit(n uint64) *QueryBuilder[T] {
	q.builder = q.builder.Limit(n)
	return q
}

// Offset sets the number of rows skipped.
func (q *QueryBuilder[T]) Offset(n uint64) *QueryBuilder[T] {
	q.builder = q.builder.Offset(n)
	return q
}

// Select narrows the selected columns. Find scans by column name, so the
// remaining struct fields keep their zero values.
func (q *QueryBuilder[T]) Select(columns ...clause.Columnar) *QueryBuilder[T] {
	q.columns = ResolveColumnNames(columns)
	return q
}

// WithPreload runs a relation loader over the results of Find.
func (q *QueryBuilder[T]) WithPreload(preload preloadExecutor[T]) *QueryBuilder[T] {
	q.preloads = append(q.preloads, preload)
	return q
}

// Find executes the query and returns all matching rows, never a nil slice.
// Registered preloads run once over the whole result.
func (q *QueryBuilder[T]) Find(ctx context.Context) ([]*T, error) {
	query, args, err := q.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("database: failed to build sql: %w", err)
	}

	results := make([]*T, 0)
	if err := q.session.Select(ctx, &results, query, args...); err != nil {
		return nil, err
	}

	for _, preload := range q.preloads {
		if err := preload(ctx, q.session, results); err != nil {
			return nil, fmt.Errorf("database: preload failed: %w", err)
		}
	}

	return results, nil
}

// Take returns the first row, or ErrNotFound.
func (q *QueryBuilder[T]) Take(ctx context.Context) (*T, error) {
	results, err := q.Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0], nil
}

// Count ignores limit, offset and ordering.
func (q *QueryBuilder[T]) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	b := q.builder.Columns("COUNT(*)").RemoveLimit().RemoveOffset()

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("database: failed to build count sql: %w", err)
	}

	var count int64
	err = q.session.Get(ctx, &count, query, args...)
	return count, err
}

// ToSQL returns the generated SQL and its arguments using the session's
// placeholder format.
func (q *QueryBuilder[T]) ToSQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	cols := q.columns
	if len(cols) == 0 {
		cols = q.schema.SelectColumns()
	}
	return q.builder.Columns(cols...).OrderBy(q.orders...).ToSql()
}
