package domain

import "context"

// UserRepository defines the read contract on the user collaborator. Users are
// registered by a separate service, this one only checks that ids exist.
type UserRepository interface {
	// Exists reports whether a user with the given id is registered.
	Exists(ctx context.Context, id string) (bool, error)
}
