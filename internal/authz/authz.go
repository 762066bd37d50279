// Package authz holds the single ownership-authorization primitive shared by
// every protected resource route. Handlers must establish that a record exists
// (NotFound) before consulting the guard (Forbidden), so a denial never leaks
// whether a record exists.
package authz

import "github.com/qrtrail/qrtrail-backend/internal/identity"

// Decision is the tagged result of an ownership check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Authorize allows access iff the record's owner matches the authenticated
// identity. A record with no owner at all is denied.
func Authorize(id *identity.Identity, ownerID string) Decision {
	if id == nil {
		return Decision{Reason: "no authenticated identity"}
	}
	if ownerID == "" || ownerID != id.ID {
		return Decision{Reason: "record is owned by another user"}
	}
	return Decision{Allowed: true}
}
