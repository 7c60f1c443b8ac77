package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrHandleTaken   = errors.New("handle already exists")
	ErrEntryNotFound = errors.New("profile entry not found")

	// ErrProfileExists is returned by Create when the user already owns a profile.
	ErrProfileExists = errors.New("profile already exists")
)

type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	FindByHandle(ctx context.Context, handle string) (Profile, error)
	List(ctx context.Context) ([]Profile, error)

	Create(ctx context.Context, p Profile) (Profile, error)
	Update(ctx context.Context, userID uuid.UUID, f Fields) (Profile, error)

	// Mutate loads the profile owned by userID, applies fn and persists the
	// result atomically. Returning an error from fn aborts without writing.
	Mutate(ctx context.Context, userID uuid.UUID, fn func(p *Profile) error) (Profile, error)

	// DeleteWithUser removes the profile owned by userID and then the user.
	DeleteWithUser(ctx context.Context, userID uuid.UUID) error
}
