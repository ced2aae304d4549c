package notes

import (
	"context"

	"github.com/google/uuid"
	"github.com/kotche/quicknotes/internal/model"
)

type (
	Service interface {
		Create(ctx context.Context, userID uuid.UUID, content string) (*model.Note, error)
		Delete(ctx context.Context, userID, noteID uuid.UUID) error
		List(ctx context.Context, userID uuid.UUID) ([]model.Note, error)
	}
)
