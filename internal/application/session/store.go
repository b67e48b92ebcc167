// Package session keeps the client's authenticated identity. A Store is
// constructed once per process (or per test) and passed to whoever needs the
// current session; there is no package-level instance.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// RefreshMargin is how close to expiry a session is refreshed on Load.
const RefreshMargin = 5 * time.Minute

// AuthClient is the backend's authentication API.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string) (*session.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*session.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (session.User, error)
}

// Persister stores the session between process runs.
type Persister interface {
	Load() (*session.Session, string, error)
	Save(s *session.Session, pendingInvite string) error
	Clear() error
}

// Store serializes all session mutations. Readers get copies.
type Store struct {
	auth      AuthClient
	persister Persister
	logger    logger.Interface
	now       func() time.Time

	// writeMu orders persisted snapshots; it is taken before mu.
	writeMu sync.Mutex

	mu            sync.RWMutex
	current       *session.Session
	pendingInvite string
	listeners     []func(session.AuthEvent)
}

// NewStore creates an empty store. persister may be nil.
func NewStore(auth AuthClient, persister Persister, log logger.Interface) *Store {
	return &Store{
		auth:      auth,
		persister: persister,
		logger:    log,
		now:       biztime.NowUTC,
	}
}

// Current returns a copy of the current session.
func (s *Store) Current() (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current.Clone(), true
}

// Require returns the current session or session.ErrNoSession when there is
// none or it has expired.
func (s *Store) Require() (*session.Session, error) {
	sess, ok := s.Current()
	if !ok || !sess.Valid(s.now()) {
		return nil, session.ErrNoSession
	}
	return sess, nil
}

// OnChange registers fn to be called after every applied auth event.
func (s *Store) OnChange(fn func(session.AuthEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load restores a persisted session, refreshing it when close to expiry.
// A session that can no longer be refreshed is discarded.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	sess, invite, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	s.pendingInvite = invite
	s.current = sess
	s.mu.Unlock()

	if sess == nil {
		return nil
	}
	if !sess.ExpiresWithin(s.now(), RefreshMargin) {
		return nil
	}
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warnw("stored session could not be refreshed, signing out locally",
			"user_id", sess.UserID(),
			"error", err,
		)
		s.Apply(session.AuthEvent{Type: session.EventSignedOut})
	}
	return nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	sess, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	s.Apply(session.AuthEvent{Type: session.EventSignedIn, Session: sess})
	s.logger.Infow("signed in", "user_id", sess.UserID())
	return sess.Clone(), nil
}

func (s *Store) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	sess, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	s.Apply(session.AuthEvent{Type: session.EventSignedIn, Session: sess})
	s.logger.Infow("signed up", "user_id", sess.UserID())
	return sess.Clone(), nil
}

// SignOut revokes the session remotely when possible and always clears it locally.
func (s *Store) SignOut(ctx context.Context) error {
	sess, ok := s.Current()
	if !ok {
		return nil
	}
	var remoteErr error
	if sess.AccessToken != "" {
		remoteErr = s.auth.SignOut(ctx, sess.AccessToken)
		if remoteErr != nil {
			s.logger.Warnw("remote sign out failed", "user_id", sess.UserID(), "error", remoteErr)
		}
	}
	s.Apply(session.AuthEvent{Type: session.EventSignedOut})
	return remoteErr
}

// Refresh rotates the tokens of the current session.
func (s *Store) Refresh(ctx context.Context) (*session.Session, error) {
	cur, ok := s.Current()
	if !ok || cur.RefreshToken == "" {
		return nil, session.ErrNoSession
	}
	next, err := s.auth.RefreshSession(ctx, cur.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	s.Apply(session.AuthEvent{Type: session.EventTokenRefreshed, Session: next})
	return next.Clone(), nil
}

// ReloadUser fetches the user behind the current token and applies USER_UPDATED.
func (s *Store) ReloadUser(ctx context.Context) (session.User, error) {
	cur, err := s.Require()
	if err != nil {
		return session.User{}, err
	}
	u, err := s.auth.GetUser(ctx, cur.AccessToken)
	if err != nil {
		return session.User{}, fmt.Errorf("get user: %w", err)
	}
	cur.User = u
	s.Apply(session.AuthEvent{Type: session.EventUserUpdated, Session: cur})
	return u, nil
}

// Apply handles one auth change event. Events are applied in call order.
func (s *Store) Apply(ev session.AuthEvent) {
	s.writeMu.Lock()
	s.mu.Lock()
	switch ev.Type {
	case session.EventSignedIn, session.EventTokenRefreshed:
		s.current = ev.Session.Clone()
	case session.EventUserUpdated:
		if s.current != nil && ev.Session != nil {
			s.current.User = ev.Session.User
		}
	case session.EventSignedOut:
		s.current = nil
	default:
		s.mu.Unlock()
		s.writeMu.Unlock()
		s.logger.Warnw("ignoring unknown auth event", "type", ev.Type)
		return
	}
	snapshot := s.current.Clone()
	invite := s.pendingInvite
	listeners := append([]func(session.AuthEvent){}, s.listeners...)
	s.mu.Unlock()

	s.persist(snapshot, invite)
	s.writeMu.Unlock()

	out := session.AuthEvent{Type: ev.Type, Session: snapshot}
	for _, fn := range listeners {
		fn(out)
	}
}

// SetPendingInvite remembers an invite token received before sign-in.
func (s *Store) SetPendingInvite(token string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.pendingInvite = strings.TrimSpace(token)
	invite := s.pendingInvite
	snapshot := s.current.Clone()
	s.mu.Unlock()
	s.persist(snapshot, invite)
}

// TakePendingInvite returns and clears the pending invite token.
func (s *Store) TakePendingInvite() (string, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	token := s.pendingInvite
	s.pendingInvite = ""
	snapshot := s.current.Clone()
	s.mu.Unlock()
	if token == "" {
		return "", false
	}
	s.persist(snapshot, "")
	return token, true
}

func (s *Store) persist(sess *session.Session, invite string) {
	if s.persister == nil {
		return
	}
	var err error
	if sess == nil && invite == "" {
		err = s.persister.Clear()
	} else {
		err = s.persister.Save(sess, invite)
	}
	if err != nil {
		s.logger.Warnw("failed to persist session", "error", err)
	}
}
