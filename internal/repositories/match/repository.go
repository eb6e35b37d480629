// Package match provides the store adapter for shared match documents
package match

//go:generate mockgen -destination=mock/mock_repository.go -package=matchmock github.com/KirkDiggler/not-enough-mana/internal/repositories/match Repository

import (
	"context"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

// Repository stores match documents and pushes every committed write to
// watchers. Writes are compare-and-set on Match.Version.
type Repository interface {
	// Create stores a new match at version 1
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the id or join code is taken
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a match by ID
	// Returns errors.NotFound if the match doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByCode retrieves a match by join code, case-insensitively
	// Returns errors.NotFound if no match uses the code
	GetByCode(ctx context.Context, input GetByCodeInput) (*GetOutput, error)

	// Update replaces the document if its stored version still equals
	// ExpectedVersion, then bumps the version
	// Returns errors.NotFound if the match doesn't exist
	// Returns errors.Aborted if another writer got there first
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a match and closes its watchers
	// Returns errors.NotFound if the match doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListActive returns the ids of matches that are not finished
	ListActive(ctx context.Context, input ListActiveInput) (*ListActiveOutput, error)

	// Watch streams every committed version of a match until ctx is done or
	// the match is deleted, then closes the channel
	Watch(ctx context.Context, input WatchInput) (*WatchOutput, error)
}

// CreateInput defines the input for creating a match
type CreateInput struct {
	Match *entities.Match
}

// CreateOutput defines the output for creating a match
type CreateOutput struct {
	Match *entities.Match
}

// GetInput defines the input for getting a match
type GetInput struct {
	ID string
}

// GetByCodeInput defines the input for looking a match up by join code
type GetByCodeInput struct {
	Code string
}

// GetOutput defines the output for getting a match
type GetOutput struct {
	Match *entities.Match
}

// UpdateInput defines the input for updating a match
type UpdateInput struct {
	Match           *entities.Match
	ExpectedVersion int64
}

// UpdateOutput defines the output for updating a match
type UpdateOutput struct {
	Match *entities.Match
}

// DeleteInput defines the input for deleting a match
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a match
type DeleteOutput struct{}

// ListActiveInput defines the input for listing active matches
type ListActiveInput struct{}

// ListActiveOutput defines the output for listing active matches
type ListActiveOutput struct {
	IDs []string
}

// WatchInput defines the input for watching a match
type WatchInput struct {
	ID string
}

// WatchOutput defines the output for watching a match
type WatchOutput struct {
	Updates <-chan *entities.Match
}
