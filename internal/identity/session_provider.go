// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
)

// ErrNoRefreshFunc is returned by Refresh when the provider holds no usable
// credentials and no RefreshFunc was configured to obtain them.
var ErrNoRefreshFunc = errors.New("no refresh function configured")

// expiryLeeway is subtracted from a token's expiration so credentials are
// renewed slightly before they actually lapse.
const expiryLeeway = 30 * time.Second

// RefreshFunc obtains a fresh (identity id, session token) pair from the
// credentials backend.
type RefreshFunc func(ctx context.Context) (identityID, token string, err error)

// SessionProvider is a [Provider] that caches a session token and renews it
// lazily. When the token is a JWT its exp claim is inspected (without
// signature verification; the remote store is the verifying party) so that
// Refresh is a no-op while the token is still fresh. Opaque tokens are
// treated as non-expiring and renewed only when absent.
type SessionProvider struct {
	refreshFn RefreshFunc
	logger    *logger.Logger

	mu         sync.RWMutex
	identityID string
	token      string
}

// NewSessionProvider constructs a SessionProvider that calls refreshFn
// whenever new credentials are needed.
func NewSessionProvider(refreshFn RefreshFunc, log *logger.Logger) *SessionProvider {
	return &SessionProvider{refreshFn: refreshFn, logger: log}
}

// IdentityID implements [Provider].
func (p *SessionProvider) IdentityID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.identityID
}

// Token implements [Provider].
func (p *SessionProvider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// Refresh implements [Provider]. It renews credentials via the configured
// RefreshFunc when no token is held or the held JWT has expired.
func (p *SessionProvider) Refresh(ctx context.Context) error {
	p.mu.RLock()
	token := p.token
	id := p.identityID
	p.mu.RUnlock()

	if token != "" && id != "" && !tokenExpired(token) {
		return nil
	}

	if p.refreshFn == nil {
		return ErrNoRefreshFunc
	}

	newID, newToken, err := p.refreshFn(ctx)
	if err != nil {
		return fmt.Errorf("refresh session credentials: %w", err)
	}

	p.mu.Lock()
	p.identityID = newID
	p.token = newToken
	p.mu.Unlock()

	p.logger.Debug().
		Str("func", "SessionProvider.Refresh").
		Str("identity_id", newID).
		Msg("session credentials renewed")

	return nil
}

// Clear implements [Provider].
func (p *SessionProvider) Clear() {
	p.mu.Lock()
	p.identityID = ""
	p.token = ""
	p.mu.Unlock()
}

// tokenExpired reports whether token is a JWT whose exp claim has passed
// (with leeway). Tokens that do not parse as JWTs never expire here.
func tokenExpired(token string) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return time.Now().Add(expiryLeeway).After(exp.Time)
}
