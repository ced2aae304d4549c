package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kotche/quicknotes/internal/metrics"
	"github.com/kotche/quicknotes/internal/model"
	"github.com/kotche/quicknotes/internal/repository/users"
	"github.com/kotche/quicknotes/internal/service/broker"
)

const eventUserCreated = "user.created"

// Event is the provider's envelope: a discriminant type and a payload
// whose shape depends on it.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type userCreatedData struct {
	ID             string  `json:"id"`
	Username       *string `json:"username"`
	ImageURL       string  `json:"image_url"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// Processor applies verified events. Unhandled event types are accepted
// without side effects so the provider does not redeliver them.
type Processor struct {
	users  users.Repository
	events broker.Publisher
}

func NewProcessor(repo users.Repository, events broker.Publisher) *Processor {
	return &Processor{users: repo, events: events}
}

func (p *Processor) Process(ctx context.Context, event Event) error {
	if event.Type != eventUserCreated {
		slog.Info("ignoring webhook event", "type", event.Type)
		metrics.WebhookEvent("ignored")
		return nil
	}

	var data userCreatedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to decode user.created payload: %w", err)
	}

	if data.ID == "" {
		return fmt.Errorf("user.created payload has no subject id")
	}
	if len(data.EmailAddresses) == 0 || data.EmailAddresses[0].EmailAddress == "" {
		return fmt.Errorf("user.created payload for '%s' has no email address", data.ID)
	}

	user := model.User{
		ID:         uuid.New(),
		ExternalID: data.ID,
		Email:      data.EmailAddresses[0].EmailAddress,
		Username:   deref(data.Username),
		Photo:      data.ImageURL,
		FirstName:  deref(data.FirstName),
		LastName:   deref(data.LastName),
		CreatedAt:  time.Now(),
	}

	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrConflict) {
			// Redelivery, or the JIT path won the race. Either way the
			// record exists; answering success stops further retries.
			slog.Info("user already provisioned, skipping webhook create", "external_id", user.ExternalID)
			metrics.WebhookEvent("duplicate")
			return nil
		}
		return fmt.Errorf("failed to create user from webhook: %w", err)
	}

	slog.Info("user created from webhook", "external_id", user.ExternalID)
	metrics.UserProvisioned("webhook")
	metrics.WebhookEvent("accepted")
	p.publishProvisioned(ctx, user)

	return nil
}

func (p *Processor) publishProvisioned(ctx context.Context, user model.User) {
	payload, err := json.Marshal(map[string]string{
		"type":        "user.provisioned",
		"source":      "webhook",
		"user_id":     user.ID.String(),
		"external_id": user.ExternalID,
	})
	if err != nil {
		slog.Error("failed to marshal provisioning event", "error", err)
		return
	}

	if err = p.events.SendMessage(ctx, []byte(user.ExternalID), payload); err != nil {
		slog.Error("failed to publish provisioning event", "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
