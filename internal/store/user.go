package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user together with its initial session tokens.
	// The user must carry a HashedPassword; plaintext passwords are never stored.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID, including tokens.
	// Avatar bytes are only returned by GetAvatar.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email, compared case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByToken retrieves the user whose ID is id AND whose token list
	// currently contains token. Returns ErrUserNotFound otherwise.
	GetByToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)

	// Update saves name, email, age, hashed password and updated_at.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists if the new email belongs to someone else.
	Update(ctx context.Context, user *domain.User) error

	// AddToken appends token to the user's session list.
	AddToken(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveToken removes token from the user's session list.
	// Removing a token that is not present is a no-op.
	RemoveToken(ctx context.Context, userID uuid.UUID, token string) error

	// ClearTokens removes every session token of the user.
	ClearTokens(ctx context.Context, userID uuid.UUID) error

	// SetAvatar overwrites the stored avatar; a nil avatar clears it.
	// Returns ErrUserNotFound if the user does not exist.
	SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error

	// GetAvatar returns the stored avatar bytes.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrAvatarNotFound if the user has no avatar.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)

	// Delete removes a user by ID. Owned tasks must already be gone;
	// the schema refuses to orphan them.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
