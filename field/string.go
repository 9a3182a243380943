package field

import "github.com/arllen133/jobboard/clause"

// String is a text column.
type String struct {
	column clause.Column
}

// Column returns the underlying column for this field
func (s String) Column() clause.Column { return s.column }

// ColumnName implements the clause.Columnar interface
func (s String) ColumnName() string {
	return s.column.ColumnName()
}

var _ clause.Columnar = String{}

// WithColumn creates a new String field with the specified column name.
func (s String) WithColumn(name string) String {
	column := s.column
	column.Name = name
	return String{column: column}
}

// WithTable creates a new String field with the specified table name.
func (s String) WithTable(name string) String {
	column := s.column
	column.Table = name
	return String{column: column}
}

// Query functions

// Eq creates an equality comparison expression (field = value).
func (s String) Eq(value string) clause.Expression {
	return clause.Eq{Column: s.column, Value: value}
}

// Neq creates a not equal comparison expression (field != value).
func (s String) Neq(value string) clause.Expression {
	return clause.Neq{Column: s.column, Value: value}
}

// Like creates a pattern matching expression (field LIKE pattern).
func (s String) Like(pattern string) clause.Expression {
	return clause.Like{Column: s.column, Value: pattern}
}

// Contains matches value as a case-insensitive substring.
func (s String) Contains(value string) clause.Expression {
	return clause.Contains{Column: s.column, Value: value}
}

// In creates an IN expression (field IN (values...)).
func (s String) In(values ...string) clause.Expression {
	return clause.IN{Column: s.column, Values: toAny(values)}
}

// IsNull creates a NULL check expression (field IS NULL).
func (s String) IsNull() clause.Expression {
	return clause.IsNull{Column: s.column}
}

// Set creates an assignment expression for UPDATE operations.
func (s String) Set(val string) clause.Assignment {
	return clause.Assignment{Column: s.column, Value: val}
}

// Asc creates an ascending order expression.
func (s String) Asc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: s.column, Desc: false}
}

// Desc creates a descending order expression.
func (s String) Desc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: s.column, Desc: true}
}
