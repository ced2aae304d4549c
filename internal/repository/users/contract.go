package users

import (
	"context"

	"github.com/kotche/quicknotes/internal/model"
)

type (
	Repository interface {
		GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
		Create(ctx context.Context, user model.User) error
	}
)
