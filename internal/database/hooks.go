package database

import (
	"context"
)

// Lifecycle Interfaces

// BeforeCreateInterface is implemented by models that prepare themselves
// before Repository.Create inserts them. An error aborts the insert.
type BeforeCreateInterface interface {
	BeforeCreate(context.Context) error
}

// BeforeUpdateInterface is implemented by models that adjust themselves
// before Repository.Update writes them. An error aborts the update.
type BeforeUpdateInterface interface {
	BeforeUpdate(context.Context) error
}

// triggerBeforeCreate calls BeforeCreate if the model implements it.
func triggerBeforeCreate(ctx context.Context, model any) error {
	if m, ok := model.(BeforeCreateInterface); ok {
		return m.BeforeCreate(ctx)
	}
	return nil
}

// triggerBeforeUpdate calls BeforeUpdate if the model implements it.
func triggerBeforeUpdate(ctx context.Context, model any) error {
	if m, ok := model.(BeforeUpdateInterface); ok {
		return m.BeforeUpdate(ctx)
	}
	return nil
}
