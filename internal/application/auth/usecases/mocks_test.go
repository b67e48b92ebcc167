package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
)

type memoryAccounts struct {
	mu   sync.Mutex
	byID map[string]*account.Account
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byID: map[string]*account.Account{}}
}

func (m *memoryAccounts) Create(_ context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return account.ErrEmailTaken
		}
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memoryAccounts) GetByID(_ context.Context, id string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryAccounts) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (m *memoryAccounts) TouchSignIn(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		a.LastSignInAt = &at
	}
	return nil
}

func (m *memoryAccounts) UpdatePasswordHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	a.PasswordHash = hash
	return nil
}

type memorySessions struct {
	mu   sync.Mutex
	byID map[string]*account.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{byID: map[string]*account.Session{}}
}

func (m *memorySessions) Create(_ context.Context, s *account.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memorySessions) GetByID(_ context.Context, id string) (*account.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, account.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memorySessions) GetByRefreshHash(_ context.Context, hash string) (*account.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.RefreshTokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, account.ErrSessionNotFound
}

func (m *memorySessions) Update(_ context.Context, s *account.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.ID]; !ok {
		return account.ErrSessionNotFound
	}
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memorySessions) RevokeAllForUser(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &at
		}
	}
	return nil
}

func (m *memorySessions) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.byID {
		if s.ExpiresAt.Before(before) {
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}

func (m *memorySessions) revoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].RevokedAt != nil
}

type mockProfileRepository struct {
	created []*profile.Profile
}

func (m *mockProfileRepository) Create(_ context.Context, p *profile.Profile) error {
	m.created = append(m.created, p)
	return nil
}

func (m *mockProfileRepository) Update(context.Context, *profile.Profile) error { return nil }

func (m *mockProfileRepository) GetByID(context.Context, string) (*profile.Profile, error) {
	return nil, profile.ErrProfileNotFound
}

func (m *mockProfileRepository) GetByEmail(context.Context, string) (*profile.Profile, error) {
	return nil, profile.ErrProfileNotFound
}

func (m *mockProfileRepository) GetByReferralCode(context.Context, string) (*profile.Profile, error) {
	return nil, profile.ErrProfileNotFound
}

func (m *mockProfileRepository) CountFamilyMembers(context.Context, string) (int64, error) {
	return 0, nil
}

type mockTransactor struct{}

func (mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
