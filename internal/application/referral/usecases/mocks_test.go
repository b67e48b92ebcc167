package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/referral"
)

type memoryProfiles struct {
	mu        sync.Mutex
	byID      map[string]*profile.Profile
	UpdateErr error
}

func newMemoryProfiles(ps ...*profile.Profile) *memoryProfiles {
	m := &memoryProfiles{byID: map[string]*profile.Profile{}}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memoryProfiles) Create(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memoryProfiles) Update(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		err := m.UpdateErr
		m.UpdateErr = nil
		return err
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memoryProfiles) GetByID(_ context.Context, id string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryProfiles) GetByEmail(_ context.Context, email string) (*profile.Profile, error) {
	return m.find(func(p *profile.Profile) bool { return p.Email == email })
}

func (m *memoryProfiles) GetByReferralCode(_ context.Context, code string) (*profile.Profile, error) {
	return m.find(func(p *profile.Profile) bool { return p.ReferralCode != nil && *p.ReferralCode == code })
}

func (m *memoryProfiles) CountFamilyMembers(_ context.Context, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.byID {
		if p.FamilyOwnerID != nil && *p.FamilyOwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *memoryProfiles) find(match func(*profile.Profile) bool) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, profile.ErrProfileNotFound
}

type memoryInvites struct {
	mu      sync.Mutex
	byToken map[string]*referral.FamilyInvite
}

func newMemoryInvites() *memoryInvites {
	return &memoryInvites{byToken: map[string]*referral.FamilyInvite{}}
}

func (m *memoryInvites) Create(_ context.Context, i *referral.FamilyInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *i
	m.byToken[i.Token] = &cp
	return nil
}

func (m *memoryInvites) GetByToken(_ context.Context, token string) (*referral.FamilyInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.byToken[token]
	if !ok {
		return nil, referral.ErrInviteNotFound
	}
	cp := *i
	return &cp, nil
}

func (m *memoryInvites) Update(_ context.Context, i *referral.FamilyInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *i
	m.byToken[i.Token] = &cp
	return nil
}

type sentInvite struct {
	to, inviter, token string
}

type recordingMailer struct {
	sent []sentInvite
	err  error
}

func (m *recordingMailer) SendFamilyInvite(to, inviter, token string, _ time.Time) error {
	m.sent = append(m.sent, sentInvite{to: to, inviter: inviter, token: token})
	return m.err
}

type mockTransactor struct{}

func (mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
