package directory

import "context"

// Profile is the subset of an identity-provider user record needed to
// provision a local account.
type Profile struct {
	ExternalID string
	Email      string
	Username   string
	Photo      string
	FirstName  string
	LastName   string
}

type (
	Directory interface {
		FetchUser(ctx context.Context, externalID string) (*Profile, error)
	}
)
