package identity

import (
	"context"
	"errors"
	"log/slog"
)

// LoginFunc exchanges credentials for a bearer token. It is satisfied by
// the API client's Login method; the indirection keeps this package free
// of a transport dependency.
type LoginFunc func(ctx context.Context, username, password string) (string, error)

// Provider owns the login/logout lifecycle and answers "who is the
// current user". It is constructed explicitly and passed to the
// components that need it rather than living as a process-wide global.
type Provider struct {
	store *Store
	login LoginFunc
}

// NewProvider creates a Provider over a credential store.
func NewProvider(store *Store, login LoginFunc) *Provider {
	return &Provider{store: store, login: login}
}

// Token returns the stored bearer token, or "" when absent. Suitable as
// an api.TokenSource.
func (p *Provider) Token() string {
	tok, err := p.store.Load()
	if err != nil {
		slog.Warn("Credential read failed", "error", err)
		return ""
	}
	return tok
}

// Current decodes the stored credential into an identity. Invalid or
// expired credentials are treated as absent and the stale file is
// cleared so the next call is cheap.
func (p *Provider) Current() (Identity, error) {
	tok, err := p.store.Load()
	if err != nil {
		return Identity{}, err
	}
	id, err := Decode(tok)
	if err != nil {
		if tok != "" && errors.Is(err, ErrNoIdentity) {
			if clearErr := p.store.Clear(); clearErr != nil {
				slog.Warn("Stale credential cleanup failed", "error", clearErr)
			}
		}
		return Identity{}, err
	}
	return id, nil
}

// Login authenticates against the backend and persists the credential.
func (p *Provider) Login(ctx context.Context, username, password string) (Identity, error) {
	tok, err := p.login(ctx, username, password)
	if err != nil {
		return Identity{}, err
	}
	id, err := Decode(tok)
	if err != nil {
		return Identity{}, err
	}
	if err := p.store.Save(tok); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Logout discards the stored credential.
func (p *Provider) Logout() error {
	return p.store.Clear()
}
