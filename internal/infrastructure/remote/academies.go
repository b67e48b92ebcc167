package remote

import (
	"context"
	"fmt"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/supabase"
)

type Academies struct {
	client *supabase.Client
}

func NewAcademies(client *supabase.Client) *Academies {
	return &Academies{client: client}
}

func (s *Academies) Get(ctx context.Context, sess *session.Session, id string) (*academy.Academy, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	var a academy.Academy
	if err := c.From(TableAcademies).Eq("id", id).Single(ctx, &a); err != nil {
		if supabase.IsNotFound(err) {
			return nil, academy.ErrAcademyNotFound
		}
		return nil, fmt.Errorf("get academy: %w", err)
	}
	return &a, nil
}

func (s *Academies) List(ctx context.Context, sess *session.Session, limit, offset int) ([]academy.Academy, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	var out []academy.Academy
	if err := c.From(TableAcademies).Order("name", true).Limit(limit).Offset(offset).Execute(ctx, &out); err != nil {
		return nil, fmt.Errorf("list academies: %w", err)
	}
	return out, nil
}
