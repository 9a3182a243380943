package database

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/arllen133/jobboard/clause"
)

type PK = clause.Eq

// Schema defines how to map a model to a table and back
type Schema[T any] interface {
	TableName() string

	// SelectColumns may contain expressions such as COALESCE(title, '') AS title.
	SelectColumns() []string

	InsertRow(*T) ([]string, []any)

	UpdateMap(*T) map[string]any

	// PK returns the primary key column; the value is empty for a nil model.
	PK(*T) PK
	SetPK(m *T, val int64)
	AutoIncrement() bool
}

var (
	schemasMu sync.RWMutex
	schemas   = make(map[reflect.Type]any)
)

// RegisterSchema registers the schema for model type T.
// Model packages call it from init.
func RegisterSchema[T any](schema Schema[T]) {
	typ := reflect.TypeFor[T]()
	schemasMu.Lock()
	schemas[typ] = schema
	schemasMu.Unlock()
}

// LoadSchema returns the schema registered for T.
// It panics if no schema was registered.
func LoadSchema[T any]() Schema[T] {
	typ := reflect.TypeFor[T]()
	schemasMu.RLock()
	s, ok := schemas[typ]
	schemasMu.RUnlock()
	if ok {
		return s.(Schema[T])
	}
	panic(fmt.Sprintf("database: schema not registered for type %v", typ))
}
