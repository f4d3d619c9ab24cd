package ports

import (
	"context"

	"phonebook-backend/domain/entities"
)

// PhoneFilter narrows a directory listing to entries with or without a phone
// number. A nil filter selects everything.
type PhoneFilter struct {
	HasPhone bool
}

// PersonRepository defines the interface for directory persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type PersonRepository interface {
	// Count returns the number of persons in the directory
	Count(ctx context.Context) (int, error)

	// FindAll retrieves all persons, optionally filtered by phone presence
	FindAll(ctx context.Context, filter *PhoneFilter) ([]*entities.Person, error)

	// FindByName retrieves a person by name; nil, nil when absent
	FindByName(ctx context.Context, name string) (*entities.Person, error)

	// FindByIDs retrieves persons by id, preserving the input order
	FindByIDs(ctx context.Context, ids []string) ([]*entities.Person, error)

	// CreateWithOwner persists a new person and appends it to the owner's
	// stored friends list in a single transaction. The owner entity is not
	// mutated; the caller links the person after success.
	CreateWithOwner(ctx context.Context, person *entities.Person, owner *entities.User) error

	// UpdatePhone overwrites the person's phone number
	UpdatePhone(ctx context.Context, person *entities.Person, phone string) error
}

// UserRepository defines the interface for account persistence
type UserRepository interface {
	// FindByUsername retrieves an account by username; nil, nil when absent
	FindByUsername(ctx context.Context, username string) (*entities.User, error)

	// FindByID retrieves an account by id with friends hydrated to full
	// person records; nil, nil when absent
	FindByID(ctx context.Context, id string) (*entities.User, error)

	// Create persists a new account
	Create(ctx context.Context, user *entities.User) error

	// SaveFriends persists the account's friends list, conditional on the
	// account's version
	SaveFriends(ctx context.Context, user *entities.User) error
}
