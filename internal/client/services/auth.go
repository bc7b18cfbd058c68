// Package services contains the application services of the Uplink client:
// authentication and session state, cached file/storage reads, and the
// admin operations with their cache invalidation.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dataport/uplink/internal/client/api"
	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/client/query"
	"github.com/dataport/uplink/internal/logging"
)

// Session is the client-side view of an authenticated user.
type Session struct {
	User models.SessionUser

	// ExpiresAt is taken from the access token's exp claim, without
	// verifying the signature: the client only displays it, the server
	// remains the authority.
	ExpiresAt time.Time
}

// AuthService owns login, password setup and session teardown.
//
// Contract:
//   - Login: authenticate and install the bearer token; a user flagged with
//     NeedsPasswordSetup must call SetPassword before other operations.
//   - SetPassword: replace a temporary password and refresh the session.
//   - Logout: drop the token and clear every cached query.
//   - Expire: same teardown as Logout, used when the server answers 401.
//   - Current: the active session, if any.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	SetPassword(ctx context.Context, email, newPassword string) (*Session, error)
	Logout(ctx context.Context)
	Expire(ctx context.Context)
	Current() (*Session, bool)
}

type authService struct {
	client api.Client
	bus    *query.Bus
	log    logging.Logger

	mu      sync.Mutex
	session *Session
}

// NewAuthService binds the auth service to the API client and the
// invalidation bus it tears the cache down through.
func NewAuthService(client api.Client, bus *query.Bus, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{client: client, bus: bus, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.install(ctx, res), nil
}

func (a *authService) SetPassword(ctx context.Context, email, newPassword string) (*Session, error) {
	res, err := a.client.SetPassword(ctx, email, newPassword)
	if err != nil {
		return nil, fmt.Errorf("set password error: %w", err)
	}
	return a.install(ctx, res), nil
}

// install stores the token, resets the cache so nothing from a previous
// session leaks into this one, and records the session.
func (a *authService) install(ctx context.Context, res *models.LoginResult) *Session {
	a.client.SetToken(res.AccessToken)
	a.bus.Reset(ctx)

	s := &Session{User: res.User, ExpiresAt: tokenExpiry(res.AccessToken)}

	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	a.log.Info(ctx, "session established", "email", s.User.Email, "role", s.User.Role)
	return s
}

func (a *authService) Logout(ctx context.Context) {
	a.teardown(ctx)
	a.log.Info(ctx, "logged out")
}

func (a *authService) Expire(ctx context.Context) {
	a.teardown(ctx)
	a.log.Warn(ctx, "session expired")
}

func (a *authService) teardown(ctx context.Context) {
	a.client.SetToken("")
	a.bus.Reset(ctx)

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
}

func (a *authService) Current() (*Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session, a.session != nil
}

// tokenExpiry extracts the exp claim from a JWT without signature
// verification. A token that cannot be parsed yields a zero time.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
