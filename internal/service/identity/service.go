package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kotche/quicknotes/infrastructure/tracing"
	"github.com/kotche/quicknotes/internal/metrics"
	"github.com/kotche/quicknotes/internal/model"
	"github.com/kotche/quicknotes/internal/repository/users"
	"github.com/kotche/quicknotes/internal/service/broker"
	"github.com/kotche/quicknotes/internal/service/directory"
)

type DefaultService struct {
	users     users.Repository
	directory directory.Directory
	events    broker.Publisher
}

func NewDefaultService(repo users.Repository, dir directory.Directory, events broker.Publisher) *DefaultService {
	return &DefaultService{
		users:     repo,
		directory: dir,
		events:    events,
	}
}

// Resolve returns the local user for an already-authenticated external
// subject id, creating the record on first sight from the directory profile.
//
// The check-then-create sequence is not atomic across requests: two
// concurrent first-requests can both miss the lookup. The unique index on
// external_id turns the loser's insert into model.ErrConflict, after which
// the winner's row is visible and a second lookup returns it.
func (s *DefaultService) Resolve(ctx context.Context, externalID string) (*model.User, error) {
	ctx, span := tracing.StartSpan(ctx, "Resolve_identity")
	defer span.End()

	user, err := s.users.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	profile, err := s.directory.FetchUser(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrProfileUnavailable, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: profile for '%s' has no email", model.ErrProfileUnavailable, externalID)
	}

	newUser := model.User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      profile.Email,
		Username:   profile.Username,
		Photo:      profile.Photo,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		CreatedAt:  time.Now(),
	}

	if err = s.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, model.ErrConflict) {
			winner, lookupErr := s.users.GetByExternalID(ctx, externalID)
			if lookupErr == nil {
				slog.Info("lost provisioning race, using existing user", "external_id", externalID)
				return winner, nil
			}
			return nil, fmt.Errorf("%w: concurrent provisioning for '%s'", model.ErrConflict, externalID)
		}
		return nil, err
	}

	metrics.UserProvisioned("jit")
	s.publishProvisioned(ctx, newUser)

	return &newUser, nil
}

func (s *DefaultService) publishProvisioned(ctx context.Context, user model.User) {
	payload, err := json.Marshal(map[string]string{
		"type":        "user.provisioned",
		"source":      "jit",
		"user_id":     user.ID.String(),
		"external_id": user.ExternalID,
	})
	if err != nil {
		slog.Error("failed to marshal provisioning event", "error", err)
		return
	}

	if err = s.events.SendMessage(ctx, []byte(user.ExternalID), payload); err != nil {
		slog.Error("failed to publish provisioning event", "error", err)
	}
}
