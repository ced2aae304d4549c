package notes

import (
	"context"

	"github.com/google/uuid"
	"github.com/kotche/quicknotes/internal/model"
)

type (
	Repository interface {
		Create(ctx context.Context, note model.Note) error
		GetByID(ctx context.Context, noteID uuid.UUID) (*model.Note, error)
		Delete(ctx context.Context, noteID uuid.UUID) error
		ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Note, error)
	}
)
