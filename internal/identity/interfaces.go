// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package identity binds the sync engine to a credentials provider. The
// provider issues an opaque identity id and a short-lived session token; the
// [Binding] caches the id, detects id transitions, and notifies subscribers
// so the local store can rekey cached data from the "unknown" identity to
// the real one.
package identity

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/identity_provider_mock.go -package=mock

// UnknownIdentityID is the sentinel identity used before a real id is known.
// All rows written under it are rekeyed to the real id in one transaction
// once the provider reports it.
const UnknownIdentityID = "unknown"

// Provider is the credentials provider contract. Implementations own the
// identity id and the session token lifecycle; the engine never inspects
// how either is obtained.
type Provider interface {
	// IdentityID returns the currently cached identity id, or an empty
	// string when no id has been obtained yet.
	IdentityID() string

	// Token returns the current session token, or an empty string when no
	// token is held. The token is attached to every remote call.
	Token() string

	// Refresh obtains fresh credentials if the held ones are missing or
	// expired. It may change the identity id reported by IdentityID.
	Refresh(ctx context.Context) error

	// Clear drops all cached credentials, including the identity id.
	Clear()
}

// ChangedListener is notified after the identity id transitions from
// oldIdentityID to newIdentityID. oldIdentityID is empty on the first
// transition from the unknown identity.
type ChangedListener func(oldIdentityID, newIdentityID string)
