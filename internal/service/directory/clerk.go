package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 10 * time.Second

// ClerkClient fetches user profiles from the Clerk backend API
// (GET /v1/users/{id} with the instance secret key).
type ClerkClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewClerkClient(baseURL, secretKey string) *ClerkClient {
	return &ClerkClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: requestTimeout},
	}
}

type clerkUser struct {
	ID             string  `json:"id"`
	Username       *string `json:"username"`
	ImageURL       string  `json:"image_url"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (c *ClerkClient) FetchUser(ctx context.Context, externalID string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s", c.baseURL, url.PathEscape(externalID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user '%s' from directory: %w", externalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d for user '%s'", resp.StatusCode, externalID)
	}

	var cu clerkUser
	if err = json.NewDecoder(resp.Body).Decode(&cu); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}

	profile := &Profile{
		ExternalID: cu.ID,
		Username:   deref(cu.Username),
		Photo:      cu.ImageURL,
		FirstName:  deref(cu.FirstName),
		LastName:   deref(cu.LastName),
	}
	if len(cu.EmailAddresses) > 0 {
		profile.Email = cu.EmailAddresses[0].EmailAddress
	}

	return profile, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
