package ports

import "context"

// Repositories is the per-transaction view of the persistent store.
type Repositories interface {
	Users() UserRepository
	Authorities() AuthorityRepository
}

// Store scopes repository access to a single storage transaction. Read runs
// fn inside a read-only transaction, Write inside a read-write one; fn's
// error aborts the transaction.
type Store interface {
	Read(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Write(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
