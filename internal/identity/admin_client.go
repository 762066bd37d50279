package identity

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var _ Provider = (*JWKSProvider)(nil)

// AdminClient calls the identity provider's admin REST API. A provider-side
// 404 counts as success so re-running an interrupted cascade stays idempotent.
type AdminClient struct {
	client *resty.Client
}

func NewAdminClient(baseURL, adminKey string) *AdminClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(adminKey).
		SetRetryCount(0)
	return &AdminClient{client: client}
}

// DeleteUser removes the provider-side account record.
func (c *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("userID", userID).
		Delete("/accounts/{userID}")
	if err != nil {
		return fmt.Errorf("identity provider request failed: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("identity provider returned status %d", resp.StatusCode())
	}
	return nil
}

// JWKSProvider bundles token verification with the admin API into the full
// Provider surface wired at startup.
type JWKSProvider struct {
	*JWKSVerifier
	*AdminClient
}

func NewJWKSProvider(verifier *JWKSVerifier, admin *AdminClient) *JWKSProvider {
	return &JWKSProvider{JWKSVerifier: verifier, AdminClient: admin}
}
