// Package clause builds the SQL fragments used by the query layer.
//
// Every expression renders itself with "?" placeholders; the surrounding
// squirrel builder rewrites them for the active dialect. Column and table
// names are written verbatim, so they must come from schemas or typed
// allow-lists and never from request data.
package clause

import (
	"fmt"
	"strings"
)

// Columnar defines an interface for providing a column name.
type Columnar interface {
	ColumnName() string
}

// Column represents a database column with optional table qualifier
type Column struct {
	Table string
	Name  string
}

func (c Column) Column() Column { return c }

// ColumnName returns the full column name (with table prefix if specified)
func (c Column) ColumnName() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}

var _ Columnar = Column{}

// Expression is the base interface for all SQL expressions
type Expression interface {
	Build() (sql string, args []any, err error)
}

// Eq represents an equality expression (column = value)
type Eq struct {
	Column Column
	Value  any
}

func (e Eq) Build() (string, []any, error) {
	return e.Column.ColumnName() + " = ?", []any{e.Value}, nil
}

// Neq represents a not equal expression (column <> value)
type Neq struct {
	Column Column
	Value  any
}

func (n Neq) Build() (string, []any, error) {
	return n.Column.ColumnName() + " <> ?", []any{n.Value}, nil
}

// Gt represents a greater than expression (column > value)
type Gt struct {
	Column Column
	Value  any
}

func (g Gt) Build() (string, []any, error) {
	return g.Column.ColumnName() + " > ?", []any{g.Value}, nil
}

// Lt represents a less than expression (column < value)
type Lt struct {
	Column Column
	Value  any
}

func (l Lt) Build() (string, []any, error) {
	return l.Column.ColumnName() + " < ?", []any{l.Value}, nil
}

// Like represents a pattern match (column LIKE pattern). The pattern is
// passed through untouched.
type Like struct {
	Column Column
	Value  string
}

func (l Like) Build() (string, []any, error) {
	return l.Column.ColumnName() + " LIKE ?", []any{l.Value}, nil
}

// LikeEscape is the escape character used by Contains.
// "!" needs no quoting in MySQL, PostgreSQL or SQLite string literals.
const LikeEscape = "!"

// Contains is a case-insensitive substring match. Wildcards in Value are
// escaped, so user input is matched literally. Both sides are folded by the
// database's LOWER, so they always agree; SQLite's LOWER folds ASCII only,
// so there non-ASCII letters match case-sensitively.
type Contains struct {
	Column Column
	Value  string
}

func (c Contains) Build() (string, []any, error) {
	if c.Value == "" {
		return "", nil, fmt.Errorf("clause: contains on %s with empty value", c.Column.ColumnName())
	}
	pattern := "%" + EscapeLike(c.Value) + "%"
	sql := fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '%s'", c.Column.ColumnName(), LikeEscape)
	return sql, []any{pattern}, nil
}

// EscapeLike escapes LIKE wildcards using LikeEscape.
func EscapeLike(s string) string {
	r := strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")
	return r.Replace(s)
}

// IsNull represents a NULL check (column IS NULL)
type IsNull struct {
	Column Column
}

func (i IsNull) Build() (string, []any, error) {
	return i.Column.ColumnName() + " IS NULL", nil, nil
}

// IN represents an IN expression (column IN (values...))
type IN struct {
	Column Column
	Values []any
}

func (i IN) Build() (string, []any, error) {
	switch len(i.Values) {
	case 0:
		return "1 = 0", nil, nil // IN with empty list is always false
	case 1:
		return i.Column.ColumnName() + " = ?", []any{i.Values[0]}, nil
	default:
		placeholders := make([]string, len(i.Values))
		for idx := range i.Values {
			placeholders[idx] = "?"
		}

		sql := fmt.Sprintf("%s IN (%s)", i.Column.ColumnName(), strings.Join(placeholders, ", "))
		return sql, i.Values, nil
	}
}

// And combines expressions with AND
type And []Expression

func (a And) Build() (string, []any, error) {
	return join(a, " AND ", "1 = 1")
}

// Or combines expressions with OR
type Or []Expression

func (o Or) Build() (string, []any, error) {
	return join(o, " OR ", "1 = 0")
}

func join(exprs []Expression, sep, empty string) (string, []any, error) {
	if len(exprs) == 0 {
		return empty, nil, nil
	}

	sqls := make([]string, 0, len(exprs))
	var args []any
	for _, expr := range exprs {
		sql, exprArgs, err := expr.Build()
		if err != nil {
			return "", nil, err
		}
		sqls = append(sqls, "("+sql+")")
		args = append(args, exprArgs...)
	}

	return strings.Join(sqls, sep), args, nil
}

// Expr is a raw SQL fragment with its bound values.
type Expr struct {
	SQL  string
	Vars []any
}

func (e Expr) Build() (string, []any, error) {
	return e.SQL, e.Vars, nil
}

// Assignment represents a SET clause entry for UPDATE
type Assignment struct {
	Column Column
	Value  any
}

func (a Assignment) Build() (string, []any, error) {
	return a.Column.ColumnName() + " = ?", []any{a.Value}, nil
}

// OrderByColumn represents an ORDER BY entry
type OrderByColumn struct {
	Column Column
	Desc   bool
}

func (o OrderByColumn) Build() (string, []any, error) {
	sql := o.Column.ColumnName()
	if o.Desc {
		sql += " DESC"
	} else {
		sql += " ASC"
	}
	return sql, nil, nil
}

// Exists wraps a subquery in EXISTS (...)
type Exists struct {
	Expr Expression
}

func (e Exists) Build() (string, []any, error) {
	sql, args, err := e.Expr.Build()
	if err != nil {
		return "", nil, err
	}
	return "EXISTS (" + sql + ")", args, nil
}
