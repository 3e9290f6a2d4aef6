// Package session holds the operator's authentication state: the bearer
// token, the cached profile of its owner, and whether that profile has been
// fetched since the token was obtained. The state is mirrored into durable
// storage so it survives restarts of the console and the CLI.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/auth"
	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/users"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, req auth.LoginRequest) (*httpclient.Envelope[auth.LoginData], error)
}

// ProfileSource fetches the profile of the token's owner.
type ProfileSource interface {
	Current(ctx context.Context) (*httpclient.Envelope[users.User], error)
}

// ProfileStatus is the outcome of FetchCurrentUser.
type ProfileStatus int

const (
	// ProfileNoSession: no token is held; nothing was fetched.
	ProfileNoSession ProfileStatus = iota
	// ProfileCached: the profile was already fetched for this token.
	ProfileCached
	// ProfileFetched: the profile was fetched from the API.
	ProfileFetched
	// ProfileFailed: the fetch failed and the session was cleared, or the
	// caller stopped waiting.
	ProfileFailed
)

func (s ProfileStatus) String() string {
	switch s {
	case ProfileNoSession:
		return "no-session"
	case ProfileCached:
		return "cached"
	case ProfileFetched:
		return "fetched"
	case ProfileFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProfileResult is what FetchCurrentUser reports.
type ProfileResult struct {
	Status ProfileStatus
	User   *users.User
	Err    error
}

// OK reports whether a profile is available.
func (r ProfileResult) OK() bool {
	return r.Status == ProfileCached || r.Status == ProfileFetched
}

// ChangeKind names a session transition.
type ChangeKind string

const (
	ChangeSignedIn      ChangeKind = "signed_in"
	ChangeSignedOut     ChangeKind = "signed_out"
	ChangeEvicted       ChangeKind = "evicted"
	ChangeProfileFailed ChangeKind = "profile_failed"
)

// Change is delivered to OnChange subscribers after the transition has been
// applied.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Account string     `json:"account,omitempty"`
	At      time.Time  `json:"at"`
}

// Store is the session. One Store is shared by every request the console
// serves; all methods are safe for concurrent use.
//
// A user is never held without a token, and clearing the token clears the
// user and the fetched flag in the same critical section.
type Store struct {
	persisted *Persisted
	authn     Authenticator
	profiles  ProfileSource
	log       *logrus.Logger

	mu      sync.RWMutex
	token   string
	user    *users.User
	fetched bool

	// Profile fetches in flight, keyed by token.
	group singleflight.Group

	subMu       sync.Mutex
	subscribers []func(Change)
}

// NewStore creates an empty Store. Call Restore to load the persisted session.
func NewStore(p *Persisted, authn Authenticator, profiles ProfileSource, log *logrus.Logger) *Store {
	s := &Store{persisted: p, authn: authn, profiles: profiles, log: log}
	p.OnEvict(s.dropInMemory)
	return s
}

// Restore loads the session from storage. The restored profile, if any, is
// treated as not yet fetched so the first guarded navigation refreshes it.
func (s *Store) Restore(ctx context.Context) error {
	token, user, err := s.persisted.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.fetched = false
	return nil
}

// Login signs in with req and then fetches the new token's profile. If the
// API answers without a token the session is left as it was. If the new
// token cannot be saved, or the profile fetch fails, the session is cleared
// and the error returned.
func (s *Store) Login(ctx context.Context, req auth.LoginRequest) (*users.User, error) {
	env, err := s.authn.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	token := env.Data.Token
	if token == "" {
		return nil, apperror.NewAuthError("login response carried no token", nil)
	}

	// Storage first: the HTTP client reads the token from there.
	if err := s.persistLogin(ctx, token); err != nil {
		s.mu.Lock()
		previous := s.token
		s.clearLocked()
		s.mu.Unlock()
		s.group.Forget(previous)
		if clearErr := s.persisted.Clear(ctx); clearErr != nil {
			s.log.WithError(clearErr).Warn("failed to clear persisted session")
		}
		return nil, err
	}

	s.mu.Lock()
	previous := s.token
	s.token = token
	s.user = nil
	s.fetched = false
	s.mu.Unlock()
	s.group.Forget(previous)
	s.group.Forget(token)

	s.log.WithField("account", req.Account).Info("signed in")

	res := s.FetchCurrentUser(ctx, true)
	if !res.OK() {
		return nil, res.Err
	}
	s.notify(ChangeSignedIn, res.User.Account)
	return res.User, nil
}

func (s *Store) persistLogin(ctx context.Context, token string) error {
	if err := s.persisted.SaveToken(ctx, token); err != nil {
		return err
	}
	return s.persisted.SaveUser(ctx, nil)
}

// OnChange registers fn to run after every sign-in, sign-out, eviction and
// failed profile fetch. fn must not block.
func (s *Store) OnChange(fn func(Change)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(kind ChangeKind, account string) {
	s.subMu.Lock()
	subs := append([]func(Change){}, s.subscribers...)
	s.subMu.Unlock()
	c := Change{Kind: kind, Account: account, At: time.Now()}
	for _, fn := range subs {
		fn(c)
	}
}

// FetchCurrentUser returns the profile of the token's owner, fetching it when
// it has not been fetched for the current token or when force is set.
// Concurrent callers share one request and all observe its outcome.
//
// A failed fetch clears the whole session. If ctx ends while waiting the
// caller gets ProfileFailed with the context's error, but the shared fetch
// carries on and still settles the session.
//
// If the token is replaced by a new sign-in while the fetch is in flight,
// the caller is answered for the new token instead.
func (s *Store) FetchCurrentUser(ctx context.Context, force bool) ProfileResult {
	res, token := s.fetchCurrentUser(ctx, force)
	if res.Status == ProfileFailed && ctx.Err() == nil {
		if current := s.Token(); current != "" && current != token {
			res, _ = s.fetchCurrentUser(ctx, false)
		}
	}
	return res
}

func (s *Store) fetchCurrentUser(ctx context.Context, force bool) (ProfileResult, string) {
	s.mu.RLock()
	token, user, fetched := s.token, s.user, s.fetched
	s.mu.RUnlock()

	if token == "" {
		return ProfileResult{Status: ProfileNoSession}, token
	}
	if fetched && user != nil && !force {
		return ProfileResult{Status: ProfileCached, User: user}, token
	}

	ch := s.group.DoChan(token, func() (any, error) {
		return s.fetchProfile(context.WithoutCancel(ctx), token)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return ProfileResult{Status: ProfileFailed, Err: res.Err}, token
		}
		return ProfileResult{Status: ProfileFetched, User: res.Val.(*users.User)}, token
	case <-ctx.Done():
		return ProfileResult{Status: ProfileFailed, Err: ctx.Err()}, token
	}
}

func (s *Store) fetchProfile(ctx context.Context, token string) (*users.User, error) {
	env, err := s.profiles.Current(ctx)
	if err == nil && env.Data.ID == 0 && env.Data.Account == "" {
		err = apperror.NewExternalServiceError("profile response carried no user", nil)
	}

	s.mu.Lock()
	if s.token != token {
		// Logged out, evicted or replaced while the request was in flight.
		s.mu.Unlock()
		if err == nil {
			err = apperror.NewAuthError("session changed while fetching profile", nil)
		}
		return nil, err
	}
	if err != nil {
		account := s.accountLocked()
		s.clearLocked()
		s.mu.Unlock()
		s.log.WithError(err).Warn("profile fetch failed; session cleared")
		if clearErr := s.persisted.Clear(ctx); clearErr != nil {
			s.log.WithError(clearErr).Warn("failed to clear persisted session")
		}
		s.notify(ChangeProfileFailed, account)
		return nil, err
	}
	user := env.Data
	s.user = &user
	s.fetched = true
	s.mu.Unlock()

	if err := s.persisted.SaveUser(ctx, &user); err != nil {
		s.log.WithError(err).Warn("failed to persist user")
	}
	return &user, nil
}

// Logout forgets the session in memory and in storage.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	token, account := s.token, s.accountLocked()
	s.clearLocked()
	s.mu.Unlock()
	s.group.Forget(token)
	if err := s.persisted.Clear(ctx); err != nil {
		return err
	}
	if token != "" {
		s.notify(ChangeSignedOut, account)
	}
	return nil
}

// dropInMemory runs after the HTTP client evicted the persisted session.
func (s *Store) dropInMemory() {
	s.mu.Lock()
	token, account := s.token, s.accountLocked()
	s.clearLocked()
	s.mu.Unlock()
	if token != "" {
		s.group.Forget(token)
		s.log.Info("session evicted after the API rejected the token")
		s.notify(ChangeEvicted, account)
	}
}

func (s *Store) accountLocked() string {
	if s.user == nil {
		return ""
	}
	return s.user.Account
}

func (s *Store) clearLocked() {
	s.token = ""
	s.user = nil
	s.fetched = false
}

// Token returns the held token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile, or nil.
func (s *Store) User() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// HasFetchedProfile reports whether the profile was fetched for the held token.
func (s *Store) HasFetchedProfile() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetched
}

// TokenExpiry reads the `exp` claim of the held token without verifying its
// signature. Opaque tokens and tokens without `exp` report false.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Snapshot is a read-only view of the session for display.
type Snapshot struct {
	Authenticated     bool        `json:"authenticated"`
	HasFetchedProfile bool        `json:"has_fetched_profile"`
	User              *users.User `json:"user"`
	ExpiresAt         *time.Time  `json:"expires_at,omitempty"`
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	snap := Snapshot{
		Authenticated:     s.token != "",
		HasFetchedProfile: s.fetched,
		User:              s.user,
	}
	s.mu.RUnlock()
	if exp, ok := s.TokenExpiry(); ok {
		snap.ExpiresAt = &exp
	}
	return snap
}
