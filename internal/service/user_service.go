package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// AvatarProcessor turns an uploaded file into the stored avatar bytes.
type AvatarProcessor interface {
	Process(filename string, data []byte) ([]byte, error)
}

// UserService provides account, session and avatar operations.
type UserService interface {
	// Signup creates a user and issues its first session token.
	Signup(ctx context.Context, in SignupInput) (*domain.User, string, error)

	// Login verifies credentials and issues a new session token.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// FindByCredentials returns the user matching email and password, or
	// (nil, nil) when there is no match. Errors are reserved for failures.
	FindByCredentials(ctx context.Context, email, password string) (*domain.User, error)

	// IssueToken signs a token for user, appends it to the user's session
	// list and persists it.
	IssueToken(ctx context.Context, user *domain.User) (string, error)

	// Authenticate resolves the user owning token. Every failure is
	// reported as ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	// Logout revokes a single session token. Revoking an absent token succeeds.
	Logout(ctx context.Context, user *domain.User, token string) error

	// LogoutAll revokes every session token of user.
	LogoutAll(ctx context.Context, user *domain.User) error

	// Update applies an allow-listed profile patch and returns the updated user.
	// Any key outside name, email, password and age rejects the whole patch.
	Update(ctx context.Context, user *domain.User, raw map[string]json.RawMessage) (*domain.User, error)

	// Delete removes the user's tasks and then the user, atomically.
	Delete(ctx context.Context, userID uuid.UUID) error

	// SetAvatar validates, normalises and stores an uploaded avatar.
	SetAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) error

	// ClearAvatar removes the stored avatar.
	ClearAvatar(ctx context.Context, userID uuid.UUID) error

	// GetAvatar returns the stored PNG bytes for userID.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users      store.UserStore
	tasks      store.TaskStore
	transactor store.Transactor
	tokens     auth.JWTService
	hasher     auth.PasswordHasher
	avatars    AvatarProcessor
	logger     *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// UserServiceDeps groups the collaborators of UserServiceImpl.
type UserServiceDeps struct {
	Users      store.UserStore
	Tasks      store.TaskStore
	Transactor store.Transactor
	Tokens     auth.JWTService
	Hasher     auth.PasswordHasher
	Avatars    AvatarProcessor
	Logger     *slog.Logger
}

// NewUserService creates a new UserService. It returns an error if a
// required dependency is missing.
func NewUserService(deps UserServiceDeps) (*UserServiceImpl, error) {
	switch {
	case deps.Users == nil:
		return nil, fmt.Errorf("user store cannot be nil")
	case deps.Tasks == nil:
		return nil, fmt.Errorf("task store cannot be nil")
	case deps.Transactor == nil:
		return nil, fmt.Errorf("transactor cannot be nil")
	case deps.Tokens == nil:
		return nil, fmt.Errorf("jwt service cannot be nil")
	case deps.Hasher == nil:
		return nil, fmt.Errorf("password hasher cannot be nil")
	case deps.Avatars == nil:
		return nil, fmt.Errorf("avatar processor cannot be nil")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		users:      deps.Users,
		tasks:      deps.Tasks,
		transactor: deps.Transactor,
		tokens:     deps.Tokens,
		hasher:     deps.Hasher,
		avatars:    deps.Avatars,
		logger:     log.With(slog.String("component", "user_service")),
	}, nil
}

// Signup implements UserService.
func (s *UserServiceImpl) Signup(ctx context.Context, in SignupInput) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(in.Name, in.Email, in.Password, in.Age)
	if err != nil {
		return nil, "", err
	}

	if err := s.hashPassword(user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		return users.AddToken(ctx, user.ID, token)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("signup with existing email")
		} else {
			log.Error("failed to create user", slog.String("error", err.Error()))
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	user.Tokens = append(user.Tokens, token)
	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// Login implements UserService.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// FindByCredentials implements UserService.
func (s *UserServiceImpl) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		log.Debug("login for unknown email")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	err = s.hasher.Compare(user.HashedPassword, password)
	if errors.Is(err, auth.ErrPasswordMismatch) {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	return user, nil
}

// IssueToken implements UserService.
func (s *UserServiceImpl) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	if err := s.users.AddToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}
	user.Tokens = append(user.Tokens, token)
	return token, nil
}

// Authenticate implements UserService.
func (s *UserServiceImpl) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if token == "" {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, auth.ErrMissingToken)
	}

	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := s.users.GetByToken(ctx, claims.UserID, token)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to resolve token owner",
				slog.String("user_id", claims.UserID.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return user, nil
}

// Logout implements UserService.
func (s *UserServiceImpl) Logout(ctx context.Context, user *domain.User, token string) error {
	if err := s.users.RemoveToken(ctx, user.ID, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	remaining := make([]string, 0, len(user.Tokens))
	for _, t := range user.Tokens {
		if t != token {
			remaining = append(remaining, t)
		}
	}
	user.Tokens = remaining
	return nil
}

// LogoutAll implements UserService.
func (s *UserServiceImpl) LogoutAll(ctx context.Context, user *domain.User) error {
	if err := s.users.ClearTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	user.Tokens = []string{}
	return nil
}

// Update implements UserService.
func (s *UserServiceImpl) Update(
	ctx context.Context,
	user *domain.User,
	raw map[string]json.RawMessage,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch, err := domain.ParseUserPatch(raw)
	if err != nil {
		return nil, err
	}

	updated := *user
	updated.Tokens = append([]string(nil), user.Tokens...)
	if err := patch.Apply(&updated); err != nil {
		return nil, err
	}

	if updated.Password != "" {
		if err := s.hashPassword(&updated); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("update to existing email", slog.String("user_id", user.ID.String()))
		} else {
			log.Error("failed to update user",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &updated, nil
}

// Delete implements UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		n, err := s.tasks.WithTx(tx).DeleteByOwner(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to delete user's tasks: %w", err)
		}
		log.Debug("deleted user's tasks",
			slog.String("user_id", userID.String()),
			slog.Int64("count", n))

		if err := s.users.WithTx(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("user deletion rolled back",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("user deleted", slog.String("user_id", userID.String()))
	return nil
}

// SetAvatar implements UserService.
func (s *UserServiceImpl) SetAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) error {
	png, err := s.avatars.Process(filename, data)
	if err != nil {
		return err
	}
	if err := s.users.SetAvatar(ctx, userID, png); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	return nil
}

// ClearAvatar implements UserService.
func (s *UserServiceImpl) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetAvatar(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	return nil
}

// GetAvatar implements UserService.
func (s *UserServiceImpl) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	data, err := s.users.GetAvatar(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}
	return data, nil
}

// hashPassword replaces the plaintext password on u with its hash.
func (s *UserServiceImpl) hashPassword(u *domain.User) error {
	hash, err := s.hasher.Hash(u.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.HashedPassword = hash
	u.Password = ""
	return nil
}
