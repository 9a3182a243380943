package field

import (
	"github.com/arllen133/jobboard/clause"
	"golang.org/x/exp/constraints"
)

// Number represents a numeric column, typically an identifier.
type Number[T constraints.Integer | constraints.Float] struct {
	column clause.Column
}

// Column returns the underlying column for this field
func (n Number[T]) Column() clause.Column { return n.column }

// ColumnName implements the clause.Columnar interface
func (n Number[T]) ColumnName() string {
	return n.column.ColumnName()
}

var _ clause.Columnar = Number[int64]{}

// WithColumn creates a new Number field with the specified column name.
func (n Number[T]) WithColumn(name string) Number[T] {
	column := n.column
	column.Name = name
	return Number[T]{column: column}
}

// WithTable creates a new Number field with the specified table name.
func (n Number[T]) WithTable(name string) Number[T] {
	column := n.column
	column.Table = name
	return Number[T]{column: column}
}

// Eq creates an equality comparison expression (field = value).
func (n Number[T]) Eq(value T) clause.Expression {
	return clause.Eq{Column: n.column, Value: value}
}

// Gt creates a greater than comparison expression (field > value).
func (n Number[T]) Gt(value T) clause.Expression {
	return clause.Gt{Column: n.column, Value: value}
}

// In creates an IN expression (field IN (values...)).
func (n Number[T]) In(values ...T) clause.Expression {
	return clause.IN{Column: n.column, Values: toAny(values)}
}

// Set creates an assignment expression for UPDATE operations.
func (n Number[T]) Set(val T) clause.Assignment {
	return clause.Assignment{Column: n.column, Value: val}
}

// Asc creates an ascending order expression.
func (n Number[T]) Asc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: n.column, Desc: false}
}

// Desc creates a descending order expression.
func (n Number[T]) Desc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: n.column, Desc: true}
}
