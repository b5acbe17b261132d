package cli

import (
	"context"
	"fmt"

	"github.com/PaddyGuard/paddyguard/internal/api"
	"github.com/PaddyGuard/paddyguard/internal/config"
	"github.com/PaddyGuard/paddyguard/internal/identity"
)

// runtime bundles the collaborators every command needs. It is built per
// invocation; nothing here is a process-wide singleton.
type runtime struct {
	cfg      *config.Config
	client   *api.Client
	identity *identity.Provider
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	home, err := config.Home()
	if err != nil {
		return nil, fmt.Errorf("config home: %w", err)
	}

	store := identity.NewStore(home)
	var client *api.Client
	provider := identity.NewProvider(store, func(ctx context.Context, username, password string) (string, error) {
		return client.Login(ctx, username, password)
	})
	client = api.New(cfg.API.BaseURL, cfg.API.Timeout, provider.Token)

	return &runtime{cfg: cfg, client: client, identity: provider}, nil
}

// currentIdentity returns the logged-in identity or a friendly error.
func (r *runtime) currentIdentity() (identity.Identity, error) {
	id, err := r.identity.Current()
	if err != nil {
		return identity.Identity{}, fmt.Errorf("chưa đăng nhập, hãy chạy 'paddyguard login' trước")
	}
	return id, nil
}
