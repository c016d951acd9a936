package ports

import (
	"context"
)

// CategoryRegistry is the best-effort category name store. Register failures
// are non-fatal to checkout and are swallowed by callers.
type CategoryRegistry interface {
	Categories(ctx context.Context) ([]string, error)
	Register(ctx context.Context, name string) error
}
