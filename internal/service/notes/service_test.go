package notes

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kotche/quicknotes/internal/model"
	"github.com/kotche/quicknotes/internal/service/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotesRepo struct {
	notes map[uuid.UUID]model.Note
}

func newFakeNotesRepo() *fakeNotesRepo {
	return &fakeNotesRepo{notes: make(map[uuid.UUID]model.Note)}
}

func (r *fakeNotesRepo) Create(_ context.Context, note model.Note) error {
	r.notes[note.ID] = note
	return nil
}

func (r *fakeNotesRepo) GetByID(_ context.Context, noteID uuid.UUID) (*model.Note, error) {
	note, ok := r.notes[noteID]
	if !ok {
		return nil, model.ErrNoteNotFound
	}
	return &note, nil
}

func (r *fakeNotesRepo) Delete(_ context.Context, noteID uuid.UUID) error {
	delete(r.notes, noteID)
	return nil
}

func (r *fakeNotesRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Note, error) {
	var out []model.Note
	for _, note := range r.notes {
		if note.UserID == userID {
			out = append(out, note)
		}
	}
	// Same ordering contract as the storage layer: newest first.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func newService() (*DefaultService, *fakeNotesRepo) {
	repo := newFakeNotesRepo()
	return NewDefaultService(repo, broker.NewNopPublisher()), repo
}

func TestCreate_Validation(t *testing.T) {
	svc, repo := newService()
	userID := uuid.New()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty", content: "", wantErr: model.ErrEmptyContent},
		{name: "whitespace only", content: "   ", wantErr: model.ErrEmptyContent},
		{name: "tabs and newlines", content: "\t\n", wantErr: model.ErrEmptyContent},
		{name: "valid", content: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := svc.Create(context.Background(), userID, tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.content, note.Content)
			assert.Equal(t, userID, note.UserID)
			assert.NotZero(t, note.CreatedAt)
		})
	}

	assert.Len(t, repo.notes, 1, "only the valid note should be persisted")
}

func TestCreate_NewNoteListsFirst(t *testing.T) {
	svc, repo := newService()
	userID := uuid.New()

	first, err := svc.Create(context.Background(), userID, "first")
	require.NoError(t, err)

	// The fake orders by timestamp; force distinct instants.
	stale := repo.notes[first.ID]
	stale.CreatedAt = stale.CreatedAt.Add(-time.Second)
	repo.notes[first.ID] = stale

	second, err := svc.Create(context.Background(), userID, "second")
	require.NoError(t, err)

	listed, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, "second", listed[0].Content)
	assert.Equal(t, "first", listed[1].Content)
}

func TestDelete(t *testing.T) {
	svc, _ := newService()
	owner := uuid.New()
	stranger := uuid.New()

	note, err := svc.Create(context.Background(), owner, "mine")
	require.NoError(t, err)

	t.Run("unknown note id", func(t *testing.T) {
		err := svc.Delete(context.Background(), owner, uuid.New())
		assert.ErrorIs(t, err, model.ErrNoteNotFound)
	})

	t.Run("not the owner", func(t *testing.T) {
		err := svc.Delete(context.Background(), stranger, note.ID)
		assert.ErrorIs(t, err, model.ErrForbidden)

		// Failed deletion must leave the note listable by its owner.
		listed, listErr := svc.List(context.Background(), owner)
		require.NoError(t, listErr)
		assert.Len(t, listed, 1)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), owner, note.ID))

		listed, listErr := svc.List(context.Background(), owner)
		require.NoError(t, listErr)
		assert.Empty(t, listed)
	})
}

func TestList_ScopedToUser(t *testing.T) {
	svc, _ := newService()
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Create(context.Background(), alice, "alice's note")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, "bob's note")
	require.NoError(t, err)

	listed, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "alice's note", listed[0].Content)
}
