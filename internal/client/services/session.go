// Package services contains the application services of the donation
// client. Services own the in-memory state (session, campaigns, donations,
// NGO applications, contact messages), mirror it into the local cache and
// call the backend through client.Client.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/WAVY91/front-project/internal/client/cache"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/common"
	"github.com/WAVY91/front-project/internal/logging"
)

// SessionManager holds the current identity.
//
// Contract:
//   - SignIn: set identity and token, mark authenticated, persist.
//   - SignUp: set identity without authenticating; a SignIn must follow.
//   - Logout: clear identity, purge every cached snapshot and run the
//     registered logout hooks.
//   - IsAuthorized: true only for an authenticated identity whose role
//     equals the given role exactly.
//   - Restore: reload a persisted sign-in, dropping it if the token expired.
type SessionManager interface {
	SignIn(ctx context.Context, user models.User, token string)
	SignUp(ctx context.Context, user models.User)
	Logout(ctx context.Context)
	IsAuthorized(role models.Role) bool
	IsAuthenticated() bool
	Current() (models.User, bool)
	Token() string
	ExpiresAt() (time.Time, bool)
	Restore(ctx context.Context) bool
	OnLogout(hook func(ctx context.Context))
}

type sessionRecord struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type sessionManager struct {
	mu            sync.RWMutex
	user          *models.User
	token         string
	authenticated bool
	hooks         []func(ctx context.Context)

	store *cache.Store
	log   logging.Logger
	now   func() time.Time
}

func NewSessionManager(store *cache.Store, log logging.Logger) SessionManager {
	return &sessionManager{store: store, log: log, now: time.Now}
}

func (s *sessionManager) SignIn(ctx context.Context, user models.User, token string) {
	s.mu.Lock()
	s.user = &user
	s.token = token
	s.authenticated = true
	s.mu.Unlock()

	s.store.Save(ctx, common.CacheKeySession, sessionRecord{User: user, Token: token})
	s.log.Info(ctx, "signed in", "user", user.ID, "role", user.Role)
}

func (s *sessionManager) SignUp(ctx context.Context, user models.User) {
	s.mu.Lock()
	s.user = &user
	s.token = ""
	s.authenticated = false
	s.mu.Unlock()

	s.log.Info(ctx, "signed up, sign-in required", "user", user.ID, "role", user.Role)
}

func (s *sessionManager) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.authenticated = false
	hooks := append([]func(context.Context){}, s.hooks...)
	s.mu.Unlock()

	for _, h := range hooks {
		h(ctx)
	}
	s.store.Purge(ctx, common.AllCacheKeys...)
	s.log.Info(ctx, "logged out, local state wiped")
}

func (s *sessionManager) IsAuthorized(role models.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated && s.user != nil && s.user.Role == role
}

func (s *sessionManager) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *sessionManager) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *sessionManager) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *sessionManager) ExpiresAt() (time.Time, bool) {
	return tokenExpiry(s.Token())
}

func (s *sessionManager) Restore(ctx context.Context) bool {
	var rec sessionRecord
	if !s.store.Load(ctx, common.CacheKeySession, &rec) {
		return false
	}
	if rec.User.ID == "" || !rec.User.Role.Valid() {
		s.log.Warn(ctx, "discarding unusable session record")
		s.store.Purge(ctx, common.CacheKeySession)
		return false
	}
	if exp, ok := tokenExpiry(rec.Token); ok && !exp.After(s.now()) {
		s.log.Info(ctx, "stored session expired", "user", rec.User.ID, "expired_at", exp)
		s.store.Purge(ctx, common.CacheKeySession)
		return false
	}

	s.mu.Lock()
	s.user = &rec.User
	s.token = rec.Token
	s.authenticated = true
	s.mu.Unlock()

	s.log.Debug(ctx, "session restored", "user", rec.User.ID)
	return true
}

func (s *sessionManager) OnLogout(hook func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// tokenExpiry reads the exp claim of a JWT without checking its signature.
// Opaque tokens report no expiry.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
