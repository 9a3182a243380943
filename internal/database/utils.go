package database

import (
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/jobboard/clause"
)

// predicate renders expr as a parenthesized squirrel fragment. squirrel
// joins Where parts with a bare AND, so an unwrapped OR would bind to its
// neighbours.
func predicate(expr clause.Expression) (sq.Sqlizer, error) {
	sql, args, err := expr.Build()
	if err != nil {
		return nil, err
	}
	return sq.Expr("("+sql+")", args...), nil
}

func ResolveColumnNames(args []clause.Columnar) []string {
	if len(args) == 0 {
		return nil
	}

	cols := make([]string, len(args))
	for i, arg := range args {
		cols[i] = arg.ColumnName()
	}
	return cols
}

// getFieldValue returns the struct field tagged db:"columnName", falling
// back to a case-insensitive field name match.
func getFieldValue(v any, columnName string) any {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		if dbTag := field.Tag.Get("db"); dbTag != "" {
			name, _, _ := strings.Cut(dbTag, ",")
			if name == columnName {
				return val.Field(i).Interface()
			}
		}

		if strings.EqualFold(field.Name, columnName) {
			return val.Field(i).Interface()
		}
	}

	return nil
}

// normalizeToInt64 converts common numeric types to int64 for consistent map key comparison
func normalizeToInt64(v any) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}
