package usecases

import (
	"context"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
)

type memoryAcademies struct {
	rows      map[string]*academy.Academy
	CreateErr error
}

func newMemoryAcademies(rows ...*academy.Academy) *memoryAcademies {
	m := &memoryAcademies{rows: map[string]*academy.Academy{}}
	for _, a := range rows {
		m.rows[a.ID] = a
	}
	return m
}

func (m *memoryAcademies) Create(ctx context.Context, a *academy.Academy) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memoryAcademies) Update(ctx context.Context, a *academy.Academy) error {
	if _, ok := m.rows[a.ID]; !ok {
		return academy.ErrAcademyNotFound
	}
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memoryAcademies) GetByID(ctx context.Context, id string) (*academy.Academy, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, academy.ErrAcademyNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryAcademies) List(ctx context.Context, limit, offset int) ([]*academy.Academy, error) {
	var out []*academy.Academy
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryAcademies) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if a, ok := m.rows[id]; ok {
			out[id] = a.Name
		}
	}
	return out, nil
}
