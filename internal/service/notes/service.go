package notes

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kotche/quicknotes/internal/metrics"
	"github.com/kotche/quicknotes/internal/model"
	"github.com/kotche/quicknotes/internal/repository/notes"
	"github.com/kotche/quicknotes/internal/service/broker"
)

type DefaultService struct {
	repo   notes.Repository
	events broker.Publisher
}

func NewDefaultService(repo notes.Repository, events broker.Publisher) *DefaultService {
	return &DefaultService{repo: repo, events: events}
}

func (d *DefaultService) Create(ctx context.Context, userID uuid.UUID, content string) (*model.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.ErrEmptyContent
	}

	note := model.Note{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := d.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	metrics.NotesCreatedCounter.Inc()
	d.publish(ctx, "note.created", note)

	return &note, nil
}

// Delete checks existence before ownership so a caller probing foreign
// note ids gets 404 for missing notes and 403 for someone else's.
func (d *DefaultService) Delete(ctx context.Context, userID, noteID uuid.UUID) error {
	note, err := d.repo.GetByID(ctx, noteID)
	if err != nil {
		return err
	}

	if note.UserID != userID {
		return model.ErrForbidden
	}

	if err = d.repo.Delete(ctx, noteID); err != nil {
		return err
	}

	metrics.NotesDeletedCounter.Inc()
	d.publish(ctx, "note.deleted", *note)

	return nil
}

func (d *DefaultService) List(ctx context.Context, userID uuid.UUID) ([]model.Note, error) {
	return d.repo.ListByUser(ctx, userID)
}

func (d *DefaultService) publish(ctx context.Context, eventType string, note model.Note) {
	payload, err := json.Marshal(map[string]string{
		"type":    eventType,
		"note_id": note.ID.String(),
		"user_id": note.UserID.String(),
	})
	if err != nil {
		slog.Error("failed to marshal note event", "error", err)
		return
	}

	if err = d.events.SendMessage(ctx, []byte(note.UserID.String()), payload); err != nil {
		slog.Error("failed to publish note event", "type", eventType, "error", err)
	}
}
