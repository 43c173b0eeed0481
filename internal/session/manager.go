package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/auth"
)

// EventKind tells login and logout events apart
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event is delivered to subscribers after a session starts or ends
type Event struct {
	Kind EventKind
	User models.SessionUser
	At   time.Time
}

// Manager issues, resolves and revokes session tokens
type Manager struct {
	tokens *auth.JWTService
	store  RevocationStore
	logger zerolog.Logger

	mu          sync.RWMutex
	subscribers []func(Event)
}

// NewManager creates a session manager
func NewManager(tokens *auth.JWTService, store RevocationStore, logger zerolog.Logger) *Manager {
	return &Manager{
		tokens: tokens,
		store:  store,
		logger: logger,
	}
}

// Subscribe registers fn for login and logout events. Callbacks run synchronously.
func (m *Manager) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *Manager) publish(event Event) {
	m.mu.RLock()
	subscribers := append([]func(Event){}, m.subscribers...)
	m.mu.RUnlock()

	for _, fn := range subscribers {
		fn(event)
	}
}

// Issue signs a session token for user. Users whose role does not resolve are refused.
func (m *Manager) Issue(user models.SessionUser) (auth.IssuedToken, error) {
	user.Role = ResolveRole(string(user.Role))
	if !user.Role.Authenticated() {
		return auth.IssuedToken{}, apperrors.NewForbiddenError("Unable to resolve session role")
	}

	issued, err := m.tokens.GenerateSessionToken(user)
	if err != nil {
		return auth.IssuedToken{}, err
	}

	user.SessionID = issued.ID
	m.publish(Event{Kind: EventLogin, User: user, At: time.Now()})
	return issued, nil
}

// Resolve turns a cookie value into the signed-in user. Any failure means unauthenticated.
func (m *Manager) Resolve(ctx context.Context, token string) (models.SessionUser, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return models.SessionUser{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
	}

	revoked, err := m.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		m.logger.Error().Err(err).Str("sessionID", claims.ID).Msg("Revocation lookup failed")
		return models.SessionUser{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
	}
	if revoked {
		return models.SessionUser{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, apperrors.ErrTokenRevoked)
	}

	role := ResolveRole(claims.Role)
	if !role.Authenticated() {
		return models.SessionUser{}, apperrors.ErrUnauthenticated
	}

	return models.SessionUser{
		ID:        claims.UserID,
		Email:     claims.Email,
		Role:      role,
		SessionID: claims.ID,
	}, nil
}

// Revoke ends the session behind token for every tab still holding it.
// Tokens that are already invalid or expired need no revocation.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) || errors.Is(err, apperrors.ErrTokenInvalid) {
			return nil
		}
		return err
	}

	until := time.Now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := m.store.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	m.publish(Event{
		Kind: EventLogout,
		User: models.SessionUser{ID: claims.UserID, Email: claims.Email, Role: ResolveRole(claims.Role), SessionID: claims.ID},
		At:   time.Now(),
	})
	return nil
}

// PurgeExpired drops revocations whose tokens have expired anyway
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.Purge(ctx, time.Now())
}
