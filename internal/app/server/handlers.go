package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kotche/quicknotes/internal/metrics"
	"github.com/kotche/quicknotes/internal/model"
	"github.com/kotche/quicknotes/internal/service/identity"
	"github.com/kotche/quicknotes/internal/service/notes"
	"github.com/kotche/quicknotes/internal/service/webhook"
)

type handler struct {
	identity  identity.Service
	notes     notes.Service
	verifier  *webhook.Verifier
	processor *webhook.Processor
}

func newHandler(deps Deps) *handler {
	return &handler{
		identity:  deps.Identity,
		notes:     deps.Notes,
		verifier:  deps.Verifier,
		processor: deps.Processor,
	}
}

func (h *handler) listNotes(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	listed, err := h.notes.List(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	if listed == nil {
		listed = []model.Note{}
	}
	c.JSON(http.StatusOK, listed)
}

type createNoteRequest struct {
	Content string `json:"content"`
}

func (h *handler) createNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	note, err := h.notes.Create(c.Request.Context(), user.ID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *handler) deleteNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "note not found"})
		return
	}

	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	if err = h.notes.Delete(c.Request.Context(), user.ID, noteID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "note deleted successfully"})
}

func (h *handler) clerkWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to read request body"})
		return
	}

	err = h.verifier.Verify(
		body,
		c.GetHeader(webhook.HeaderID),
		c.GetHeader(webhook.HeaderTimestamp),
		c.GetHeader(webhook.HeaderSignature),
	)
	if err != nil {
		slog.Warn("rejected webhook delivery", "error", err)
		metrics.WebhookEvent("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid webhook signature"})
		return
	}

	var event webhook.Event
	if err = json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid event payload"})
		return
	}

	if err = h.processor.Process(c.Request.Context(), event); err != nil {
		slog.Error("failed to process webhook event", "type", event.Type, "error", err)
		metrics.WebhookEvent("failed")
		// 5xx so the provider redelivers.
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "webhook processed"})
}

// resolveUser turns the verified external subject id into a local user.
// On failure it writes the response itself and reports ok=false.
func (h *handler) resolveUser(c *gin.Context) (*model.User, bool) {
	externalID := c.GetString(ctxExternalID)
	if externalID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return nil, false
	}

	user, err := h.identity.Resolve(c.Request.Context(), externalID)
	if err != nil {
		writeError(c, err)
		return nil, false
	}

	return user, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"message": "note content cannot be empty"})
	case errors.Is(err, model.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "note not found"})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "unauthorized to delete this note"})
	case errors.Is(err, model.ErrProfileUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"message": "cannot establish identity"})
	case errors.Is(err, model.ErrConflict):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "cannot establish identity, retry the request"})
	default:
		slog.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
	}
}
