package repository

import "context"

// Transactor runs fn as one atomic unit. Repositories called with the ctx handed to fn
// take part in the same transaction; nested calls join the outer one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
