package field

import (
	"time"

	"github.com/arllen133/jobboard/clause"
)

// Time is a DATETIME / TIMESTAMP column.
type Time struct {
	column clause.Column
}

// Column returns the underlying column for this field
func (t Time) Column() clause.Column { return t.column }

// ColumnName implements the clause.Columnar interface
func (t Time) ColumnName() string {
	return t.column.ColumnName()
}

var _ clause.Columnar = Time{}

// WithColumn creates a new Time field with the specified column name.
func (t Time) WithColumn(name string) Time {
	column := t.column
	column.Name = name
	return Time{column: column}
}

// WithTable creates a new Time field with the specified table name.
func (t Time) WithTable(name string) Time {
	column := t.column
	column.Table = name
	return Time{column: column}
}

// Query functions

// Lt creates a less than comparison expression (field < value).
func (t Time) Lt(value time.Time) clause.Expression {
	return clause.Lt{Column: t.column, Value: value}
}

// Set creates an assignment expression for UPDATE operations.
func (t Time) Set(val time.Time) clause.Assignment {
	return clause.Assignment{Column: t.column, Value: val}
}

// Asc creates an ascending order expression.
func (t Time) Asc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: t.column, Desc: false}
}

// Desc creates a descending order expression.
func (t Time) Desc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: t.column, Desc: true}
}
