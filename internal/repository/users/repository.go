package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/kotche/quicknotes/internal/model"
	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code raised when an insert hits
// a unique index (external_id or email).
const uniqueViolation = "23505"

type DefaultRepository struct {
	db *sql.DB
}

func NewDefaultRepository(pg *sql.DB) *DefaultRepository {
	return &DefaultRepository{pg}
}

func (d *DefaultRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	query, args, err := squirrel.
		Select("id",
			"external_id",
			"email",
			"username",
			"photo",
			"first_name",
			"last_name",
			"created_at").
		From("users").
		Where(squirrel.Eq{"external_id": externalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	user := &model.User{}
	err = d.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&user.Username,
		&user.Photo,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by external id '%s': %w", externalID, err)
	}

	return user, nil
}

func (d *DefaultRepository) Create(ctx context.Context, user model.User) error {
	query := `
		INSERT INTO users (id, external_id, email, username, photo, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := d.db.ExecContext(ctx, query,
		user.ID,
		user.ExternalID,
		user.Email,
		user.Username,
		user.Photo,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to create user '%s': %w", user.ExternalID, err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
