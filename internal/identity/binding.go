// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
)

// Binding tracks the current identity id and fans out change notifications.
// It is safe for use from multiple goroutines; listeners are invoked
// synchronously, in registration order, while no internal lock is held.
type Binding struct {
	provider Provider
	logger   *logger.Logger

	mu        sync.Mutex
	cachedID  string
	listeners []ChangedListener
}

// NewBinding constructs a Binding around provider. provider may be nil, in
// which case the binding permanently reports [UnknownIdentityID].
func NewBinding(provider Provider, log *logger.Logger) *Binding {
	return &Binding{provider: provider, logger: log}
}

// RegisterIdentityChangedListener subscribes l to identity transitions.
// Registration order is notification order.
func (b *Binding) RegisterIdentityChangedListener(l ChangedListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// IdentityID returns the identity id currently known to the provider
// without forcing a refresh. Falls back to [UnknownIdentityID] when no
// provider is configured or the provider has no id yet.
func (b *Binding) IdentityID() string {
	if b.provider == nil {
		return UnknownIdentityID
	}

	id := b.provider.IdentityID()
	if id == "" {
		return UnknownIdentityID
	}

	b.observe(id)
	return id
}

// RefreshedIdentityID refreshes the provider's credentials and returns the
// resulting identity id. Remote calls use this so that an id change is
// detected before the request is built; an in-flight call keeps the id it
// started with.
func (b *Binding) RefreshedIdentityID(ctx context.Context) (string, error) {
	if b.provider == nil {
		return UnknownIdentityID, nil
	}

	if err := b.provider.Refresh(ctx); err != nil {
		b.logger.Err(err).Str("func", "Binding.RefreshedIdentityID").Msg("credentials refresh failed")
		return "", err
	}

	id := b.provider.IdentityID()
	if id == "" {
		return UnknownIdentityID, nil
	}

	b.observe(id)
	return id, nil
}

// Token returns the session token held by the provider, or an empty string.
func (b *Binding) Token() string {
	if b.provider == nil {
		return ""
	}
	return b.provider.Token()
}

// Clear drops the provider's cached credentials and the binding's cached id.
func (b *Binding) Clear() {
	b.mu.Lock()
	b.cachedID = ""
	b.mu.Unlock()

	if b.provider != nil {
		b.provider.Clear()
	}
}

// observe records id as the current identity and notifies listeners when it
// differs from the previously observed one.
func (b *Binding) observe(newID string) {
	b.mu.Lock()
	oldID := b.cachedID
	if oldID == newID {
		b.mu.Unlock()
		return
	}
	b.cachedID = newID
	listeners := make([]ChangedListener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	b.logger.Info().
		Str("func", "Binding.observe").
		Str("old_identity_id", oldID).
		Str("new_identity_id", newID).
		Msg("identity change detected")

	for _, l := range listeners {
		l(oldID, newID)
	}
}
