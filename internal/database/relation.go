package database

import (
	"context"

	"github.com/arllen133/jobboard/clause"
)

// Relation describes a one-to-many link from parent P to child C.
type Relation[P, C any] struct {
	// ForeignKey is the column on the child table that references the parent
	ForeignKey clause.Column

	// Setter receives every child of a parent, or an empty slice.
	Setter func(parent *P, children []*C)

	// GetLocalKeyValue extracts the referenced key from a parent
	GetLocalKeyValue func(parent *P) any

	// Scope optionally narrows the children loaded.
	Scope clause.Expression
}

// HasMany creates a HasMany relation definition.
// foreignKey is the child column holding the parent key, setter assigns the
// loaded children to a parent and getLocalKey returns the parent key value.
func HasMany[P, C any](
	foreignKey clause.Column,
	setter func(*P, []*C),
	getLocalKey func(*P) any,
) Relation[P, C] {
	return Relation[P, C]{
		ForeignKey:       foreignKey,
		Setter:           setter,
		GetLocalKeyValue: getLocalKey,
	}
}

// Preload loads the children of all parents with a single IN query.
func Preload[P, C any](rel Relation[P, C]) preloadExecutor[P] {
	return func(ctx context.Context, session *Session, parents []*P) error {
		if len(parents) == 0 {
			return nil
		}

		parentIDs := make([]any, 0, len(parents))
		for _, p := range parents {
			parentIDs = append(parentIDs, rel.GetLocalKeyValue(p))
		}

		query := Query[C](session).Where(clause.IN{
			Column: rel.ForeignKey,
			Values: parentIDs,
		})
		if rel.Scope != nil {
			query = query.Where(rel.Scope)
		}

		children, err := query.Find(ctx)
		if err != nil {
			return err
		}

		childMap := make(map[int64][]*C)
		for _, child := range children {
			fk := normalizeToInt64(getFieldValue(child, rel.ForeignKey.Name))
			childMap[fk] = append(childMap[fk], child)
		}

		for _, p := range parents {
			found, ok := childMap[normalizeToInt64(rel.GetLocalKeyValue(p))]
			if !ok {
				found = []*C{}
			}
			rel.Setter(p, found)
		}
		return nil
	}
}
