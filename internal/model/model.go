package model

import (
	"time"

	"github.com/google/uuid"
)

type (
	// User mirrors one identity-provider account in the local store.
	// ExternalID is the provider's subject id and is immutable once set.
	User struct {
		ID         uuid.UUID `json:"id"`
		ExternalID string    `json:"external_id"`
		Email      string    `json:"email"`
		Username   string    `json:"username,omitempty"`
		Photo      string    `json:"photo,omitempty"`
		FirstName  string    `json:"first_name,omitempty"`
		LastName   string    `json:"last_name,omitempty"`
		CreatedAt  time.Time `json:"created_at"`
	}

	Note struct {
		ID        uuid.UUID `json:"id"`
		UserID    uuid.UUID `json:"user_id"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	}
)
