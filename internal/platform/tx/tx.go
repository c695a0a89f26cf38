package tx

import "context"

// Manager brackets writes that span several stores. NoopManager is the
// boundary for stores that cannot share a real transaction.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
