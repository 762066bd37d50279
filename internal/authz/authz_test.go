package authz

import (
	"testing"

	"github.com/qrtrail/qrtrail-backend/internal/identity"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	owner := &identity.Identity{ID: "user-1"}
	other := &identity.Identity{ID: "user-2"}

	tests := []struct {
		name    string
		id      *identity.Identity
		ownerID string
		allowed bool
	}{
		{name: "owner matches", id: owner, ownerID: "user-1", allowed: true},
		{name: "different owner", id: other, ownerID: "user-1", allowed: false},
		{name: "record without owner", id: owner, ownerID: "", allowed: false},
		{name: "no identity", id: nil, ownerID: "user-1", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.id, tt.ownerID)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, decision.Reason)
			}
		})
	}
}
