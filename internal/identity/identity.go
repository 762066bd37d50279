// Package identity wraps the external identity provider. Token issuance lives
// entirely with the provider; this package only verifies bearer tokens and
// calls the provider's admin API. Implementations are injected at construction
// time, never held as package globals.
package identity

import "context"

// Identity is the verified caller attached to a request.
type Identity struct {
	ID      string
	Email   string
	IsAdmin bool
}

// Verifier checks a bearer token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Provider is the full identity-provider surface: verification plus the admin
// operations the cascade needs.
type Provider interface {
	Verifier

	// DeleteUser removes the provider's account record. It is the last step
	// of cascading account deletion.
	DeleteUser(ctx context.Context, userID string) error
}
