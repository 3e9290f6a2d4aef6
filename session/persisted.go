package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/storage"
	"github.com/user/labconsole/users"
)

// Storage keys. The token is stored raw, the user as JSON.
const (
	TokenKey = "labconsole_token"
	UserKey  = "labconsole_user"
)

// Persisted mirrors the session into durable storage. It also serves as the
// HTTP client's credential source: Evict is what a 401 triggers.
type Persisted struct {
	store storage.Storage
	log   *logrus.Logger

	mu      sync.Mutex
	onEvict []func()
}

// NewPersisted wraps store.
func NewPersisted(store storage.Storage, log *logrus.Logger) *Persisted {
	return &Persisted{store: store, log: log}
}

// Token returns the stored token, or "" when there is none.
func (p *Persisted) Token(ctx context.Context) (string, error) {
	token, _, err := p.store.Get(ctx, TokenKey)
	if err != nil {
		return "", apperror.NewStorageError("cannot read token", err)
	}
	return token, nil
}

// Load reads the stored session. A user without a token is ignored, and a
// malformed user is logged and dropped rather than failing startup.
func (p *Persisted) Load(ctx context.Context) (string, *users.User, error) {
	token, err := p.Token(ctx)
	if err != nil || token == "" {
		return "", nil, err
	}
	raw, ok, err := p.store.Get(ctx, UserKey)
	if err != nil {
		return "", nil, apperror.NewStorageError("cannot read user", err)
	}
	if !ok || raw == "" {
		return token, nil, nil
	}
	var u users.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		p.log.WithError(err).Warn("ignoring malformed persisted user")
		return token, nil, nil
	}
	return token, &u, nil
}

// SaveToken stores token.
func (p *Persisted) SaveToken(ctx context.Context, token string) error {
	if err := p.store.Set(ctx, TokenKey, token); err != nil {
		return apperror.NewStorageError("cannot save token", err)
	}
	return nil
}

// SaveUser stores u as JSON. A nil user removes the entry.
func (p *Persisted) SaveUser(ctx context.Context, u *users.User) error {
	if u == nil {
		if err := p.store.Remove(ctx, UserKey); err != nil {
			return apperror.NewStorageError("cannot remove user", err)
		}
		return nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return apperror.NewInternalError("cannot encode user", err)
	}
	if err := p.store.Set(ctx, UserKey, string(b)); err != nil {
		return apperror.NewStorageError("cannot save user", err)
	}
	return nil
}

// Clear removes both keys.
func (p *Persisted) Clear(ctx context.Context) error {
	if err := p.store.Remove(ctx, TokenKey, UserKey); err != nil {
		return apperror.NewStorageError("cannot clear session", err)
	}
	return nil
}

// OnEvict registers fn to run after every Evict.
func (p *Persisted) OnEvict(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEvict = append(p.onEvict, fn)
}

// Evict clears the stored session and notifies subscribers. Subscribers run
// even when the storage could not be cleared.
func (p *Persisted) Evict(ctx context.Context) error {
	err := p.Clear(ctx)
	p.mu.Lock()
	subs := append([]func(){}, p.onEvict...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
	return err
}
