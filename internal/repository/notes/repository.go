package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/kotche/quicknotes/infrastructure/tracing"
	"github.com/kotche/quicknotes/internal/model"
	_ "github.com/lib/pq"
)

type DefaultRepository struct {
	db *sql.DB
}

func NewDefaultRepository(pg *sql.DB) *DefaultRepository {
	return &DefaultRepository{pg}
}

func (d *DefaultRepository) Create(ctx context.Context, note model.Note) error {
	query := `
		INSERT INTO notes (id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := d.db.ExecContext(ctx, query, note.ID, note.UserID, note.Content, note.CreatedAt); err != nil {
		return fmt.Errorf("failed to create note for user '%s': %w", note.UserID, err)
	}

	return nil
}

// GetByID is intentionally not scoped by user: the service layer needs to
// distinguish a missing note from someone else's note.
func (d *DefaultRepository) GetByID(ctx context.Context, noteID uuid.UUID) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT id, user_id, content, created_at FROM notes WHERE id = $1`
	err := d.db.QueryRowContext(ctx, query, noteID).Scan(&note.ID, &note.UserID, &note.Content, &note.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note '%s': %w", noteID, err)
	}
	return note, nil
}

func (d *DefaultRepository) Delete(ctx context.Context, noteID uuid.UUID) error {
	query := `DELETE FROM notes WHERE id = $1`

	if _, err := d.db.ExecContext(ctx, query, noteID); err != nil {
		return fmt.Errorf("failed to delete note '%s': %w", noteID, err)
	}

	return nil
}

func (d *DefaultRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "ListByUser_repo")
	defer span.End()

	query, args, err := squirrel.
		Select("id",
			"user_id",
			"content",
			"created_at").
		From("notes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var note model.Note
		if err = rows.Scan(&note.ID, &note.UserID, &note.Content, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, nil
}
