package identity

import (
	"context"

	"github.com/kotche/quicknotes/internal/model"
)

type (
	// Service maps an external subject id to a local user, provisioning
	// the local record on first sight.
	Service interface {
		Resolve(ctx context.Context, externalID string) (*model.User, error)
	}
)
