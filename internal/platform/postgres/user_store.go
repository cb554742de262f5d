package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

const userColumns = `id, name, email, age, hashed_password, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
// Session tokens live in user_tokens, ordered by insertion.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.NewValidationError("password", "must be hashed before storage", domain.ErrInvalidPassword)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, age, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Name, user.Email, user.Age, user.HashedPassword, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already taken", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to insert user", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", MapError(err))
	}

	for _, token := range user.Tokens {
		if err := s.AddToken(ctx, user.ID, token); err != nil {
			return err
		}
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.scanWithTokens(ctx, row)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		domain.NormalizeEmail(email),
	)
	return s.scanWithTokens(ctx, row)
}

// GetByToken implements store.UserStore.GetByToken
func (s *PostgresUserStore) GetByToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users u
		WHERE u.id = $1
		  AND EXISTS (SELECT 1 FROM user_tokens t WHERE t.user_id = u.id AND t.token = $2)`,
		id, token,
	)
	return s.scanWithTokens(ctx, row)
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, age = $3, hashed_password = $4, updated_at = $5
		WHERE id = $6`,
		user.Name, user.Email, user.Age, user.HashedPassword, user.UpdatedAt, user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update user: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// AddToken implements store.UserStore.AddToken
func (s *PostgresUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`,
		userID, token,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		return fmt.Errorf("failed to add token: %w", MapError(err))
	}
	return nil
}

// RemoveToken implements store.UserStore.RemoveToken
func (s *PostgresUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("failed to remove token: %w", MapError(err))
	}
	return nil
}

// ClearTokens implements store.UserStore.ClearTokens
func (s *PostgresUserStore) ClearTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear tokens: %w", MapError(err))
	}
	return nil
}

// SetAvatar implements store.UserStore.SetAvatar
func (s *PostgresUserStore) SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET avatar = $1, updated_at = $2 WHERE id = $3`,
		avatar, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set avatar: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// GetAvatar implements store.UserStore.GetAvatar
func (s *PostgresUserStore) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var avatar []byte
	err := s.db.QueryRowContext(ctx, `SELECT avatar FROM users WHERE id = $1`, userID).Scan(&avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get avatar: %w", MapError(err))
	}
	if len(avatar) == 0 {
		return nil, store.ErrAvatarNotFound
	}
	return avatar, nil
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("user_id", id.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete user: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

func (s *PostgresUserStore) scanWithTokens(ctx context.Context, row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.HashedPassword, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", MapError(err))
	}

	tokens, err := s.loadTokens(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Tokens = tokens
	return &u, nil
}

func (s *PostgresUserStore) loadTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token FROM user_tokens WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tokens: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tokens: %w", err)
	}
	return tokens, nil
}
