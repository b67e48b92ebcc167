package session

import (
	"context"

	"github.com/fitpass-app/fitpass/internal/domain/session"
)

type mockAuthClient struct {
	SignUpFunc             func(ctx context.Context, email, password string) (*session.Session, error)
	SignInWithPasswordFunc func(ctx context.Context, email, password string) (*session.Session, error)
	RefreshSessionFunc     func(ctx context.Context, refreshToken string) (*session.Session, error)
	SignOutFunc            func(ctx context.Context, accessToken string) error
	GetUserFunc            func(ctx context.Context, accessToken string) (session.User, error)
}

func (m *mockAuthClient) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthClient) SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error) {
	if m.SignInWithPasswordFunc != nil {
		return m.SignInWithPasswordFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthClient) RefreshSession(ctx context.Context, refreshToken string) (*session.Session, error) {
	if m.RefreshSessionFunc != nil {
		return m.RefreshSessionFunc(ctx, refreshToken)
	}
	return nil, nil
}

func (m *mockAuthClient) SignOut(ctx context.Context, accessToken string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, accessToken)
	}
	return nil
}

func (m *mockAuthClient) GetUser(ctx context.Context, accessToken string) (session.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, accessToken)
	}
	return session.User{}, nil
}

type memoryPersister struct {
	sess    *session.Session
	invite  string
	saves   int
	cleared int
	onSave  func()
}

func (m *memoryPersister) Load() (*session.Session, string, error) {
	return m.sess.Clone(), m.invite, nil
}

func (m *memoryPersister) Save(s *session.Session, invite string) error {
	if m.onSave != nil {
		m.onSave()
	}
	m.saves++
	m.sess = s.Clone()
	m.invite = invite
	return nil
}

func (m *memoryPersister) Clear() error {
	m.cleared++
	m.sess = nil
	m.invite = ""
	return nil
}
