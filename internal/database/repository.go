package database

import (
	"context"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/jobboard/clause"
)

// Repository manages CRUD operations for model T.
//
// Where returns a new Repository, so a repository can be shared and scoped
// per call without affecting other users of it.
//
//	posts := database.NewRepository[Post](session)
//	err := posts.Where(author.Eq(id)).Delete(ctx, postID)
type Repository[T any] struct {
	session *Session
	schema  Schema[T]
	scopes  []clause.Expression
}

// NewRepository creates a repository for a type registered with RegisterSchema.
func NewRepository[T any](session *Session) *Repository[T] {
	return &Repository[T]{
		session: session,
		schema:  LoadSchema[T](),
	}
}

// Where returns a new Repository instance with appended conditions.
func (r *Repository[T]) Where(conds ...clause.Expression) *Repository[T] {
	newRepo := *r
	newRepo.scopes = append(slices.Clip(newRepo.scopes), conds...)
	return &newRepo
}

// Create inserts model and backfills its auto-increment key.
func (r *Repository[T]) Create(ctx context.Context, model *T) error {
	if err := triggerBeforeCreate(ctx, model); err != nil {
		return err
	}

	cols, vals := r.schema.InsertRow(model)
	dialect := r.session.dialect

	builder := sq.Insert(r.schema.TableName()).
		Columns(cols...).
		Values(vals...).
		PlaceholderFormat(dialect.PlaceholderFormat())

	if r.schema.AutoIncrement() && dialect.InsertReturning() {
		builder = builder.Suffix("RETURNING " + r.schema.PK(nil).Column.Name)
		query, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		var id int64
		if err := r.session.Get(ctx, &id, query, args...); err != nil {
			return err
		}
		r.schema.SetPK(model, id)
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	result, err := r.session.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if r.schema.AutoIncrement() {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("database: read generated key: %w", err)
		}
		r.schema.SetPK(model, id)
	}
	return nil
}

type upsertConfig struct {
	conflictCols []string
	updateCols   []string
}

// UpsertOption configures Upsert.
type UpsertOption func(*upsertConfig)

// OnConflict specifies the unique columns that detect a conflict. Defaults
// to the primary key.
func OnConflict(columns ...clause.Columnar) UpsertOption {
	return func(c *upsertConfig) {
		c.conflictCols = ResolveColumnNames(columns)
	}
}

// DoUpdate specifies which columns to overwrite on conflict. Defaults to
// every inserted column that is not a conflict column.
func DoUpdate(columns ...clause.Columnar) UpsertOption {
	return func(c *upsertConfig) {
		c.updateCols = ResolveColumnNames(columns)
	}
}

// Upsert inserts model or updates the existing row it conflicts with.
func (r *Repository[T]) Upsert(ctx context.Context, model *T, opts ...UpsertOption) error {
	config := &upsertConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if err := triggerBeforeCreate(ctx, model); err != nil {
		return err
	}

	cols, vals := r.schema.InsertRow(model)

	conflictCols := config.conflictCols
	if len(conflictCols) == 0 {
		conflictCols = []string{r.schema.PK(nil).Column.Name}
	}

	updateCols := config.updateCols
	if len(updateCols) == 0 {
		for _, col := range cols {
			if !slices.Contains(conflictCols, col) {
				updateCols = append(updateCols, col)
			}
		}
	}

	upsertClause := r.session.dialect.UpsertClause(r.schema.TableName(), conflictCols, updateCols)

	query, args, err := sq.Insert(r.schema.TableName()).
		Columns(cols...).
		Values(vals...).
		Suffix(upsertClause).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.session.Exec(ctx, query, args...)
	return err
}

// Update writes every column of UpdateMap for the row identified by the
// model's primary key.
func (r *Repository[T]) Update(ctx context.Context, model *T) (int64, error) {
	if err := triggerBeforeUpdate(ctx, model); err != nil {
		return 0, err
	}

	pk := r.schema.PK(model)
	builder := sq.Update(r.schema.TableName()).
		SetMap(r.schema.UpdateMap(model)).
		Where(sq.Eq{pk.Column.Name: pk.Value})

	return r.execUpdate(ctx, builder)
}

// UpdateColumns sets only the given columns of row id.
func (r *Repository[T]) UpdateColumns(ctx context.Context, id any, assignments ...clause.Assignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	builder := sq.Update(r.schema.TableName()).
		Where(sq.Eq{r.schema.PK(nil).Column.Name: id})

	for _, assignment := range assignments {
		builder = builder.Set(assignment.Column.ColumnName(), assignment.Value)
	}

	return r.execUpdate(ctx, builder)
}

func (r *Repository[T]) execUpdate(ctx context.Context, builder sq.UpdateBuilder) (int64, error) {
	for _, scope := range r.scopes {
		pred, err := predicate(scope)
		if err != nil {
			return 0, err
		}
		builder = builder.Where(pred)
	}

	query, args, err := builder.PlaceholderFormat(r.session.dialect.PlaceholderFormat()).ToSql()
	if err != nil {
		return 0, err
	}

	result, err := r.session.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes the row with primary key id.
func (r *Repository[T]) Delete(ctx context.Context, id any) (int64, error) {
	pk := r.schema.PK(nil)
	return r.Where(clause.Eq{Column: pk.Column, Value: id}).DeleteWhere(ctx)
}

// DeleteWhere removes every row matching the repository scopes. An unscoped
// call is refused.
func (r *Repository[T]) DeleteWhere(ctx context.Context) (int64, error) {
	if len(r.scopes) == 0 {
		return 0, fmt.Errorf("database: refusing to delete from %s without conditions", r.schema.TableName())
	}

	builder := sq.Delete(r.schema.TableName())
	for _, scope := range r.scopes {
		pred, err := predicate(scope)
		if err != nil {
			return 0, err
		}
		builder = builder.Where(pred)
	}

	query, args, err := builder.PlaceholderFormat(r.session.dialect.PlaceholderFormat()).ToSql()
	if err != nil {
		return 0, err
	}

	result, err := r.session.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Query starts a select on the schema table, carrying the repository scopes.
func (r *Repository[T]) Query() *QueryBuilder[T] {
	q := Query[T](r.session)
	for _, scope := range r.scopes {
		q = q.Where(scope)
	}
	return q
}

// FindOne loads the row with primary key id, or returns ErrNotFound.
func (r *Repository[T]) FindOne(ctx context.Context, id any) (*T, error) {
	pk := r.schema.PK(nil)
	return r.Query().Where(clause.Eq{Column: pk.Column, Value: id}).Take(ctx)
}
