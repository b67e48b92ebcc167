package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/review"
	apperrors "github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/services/markdown"
)

type mockReviewRepository struct {
	review.Repository
	UpsertFunc func(ctx context.Context, r *review.Review) error
}

func (m *mockReviewRepository) Upsert(ctx context.Context, r *review.Review) error {
	return m.UpsertFunc(ctx, r)
}

type mockAcademyReader struct{}

func (mockAcademyReader) GetByID(_ context.Context, id string) (*academy.Academy, error) {
	if id != "a1" {
		return nil, academy.ErrAcademyNotFound
	}
	return &academy.Academy{ID: "a1", Name: "Iron Temple"}, nil
}

func TestSubmitReview_RendersSanitizedHTML(t *testing.T) {
	var saved *review.Review
	repo := &mockReviewRepository{UpsertFunc: func(_ context.Context, r *review.Review) error {
		saved = r
		return nil
	}}
	uc := NewSubmitReviewUseCase(repo, mockAcademyReader{}, markdown.NewReviewRenderer(), logger.NewNopLogger())

	rv, err := uc.Execute(context.Background(), SubmitReviewCommand{
		UserID: "u1", AcademyID: "a1", Rating: 5, Body: "**Great** coaches <script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.Same(t, saved, rv)
	assert.Contains(t, rv.BodyHTML, "<strong>Great</strong>")
	assert.NotContains(t, rv.BodyHTML, "<script>")
}

func TestSubmitReview_Rejections(t *testing.T) {
	repo := &mockReviewRepository{UpsertFunc: func(context.Context, *review.Review) error {
		t.Fatal("upsert must not be called")
		return nil
	}}
	uc := NewSubmitReviewUseCase(repo, mockAcademyReader{}, markdown.NewReviewRenderer(), logger.NewNopLogger())

	tests := []struct {
		name  string
		cmd   SubmitReviewCommand
		check func(error) bool
	}{
		{"rating too low", SubmitReviewCommand{UserID: "u1", AcademyID: "a1", Rating: 0}, apperrors.IsValidationError},
		{"rating too high", SubmitReviewCommand{UserID: "u1", AcademyID: "a1", Rating: 6}, apperrors.IsValidationError},
		{"unknown academy", SubmitReviewCommand{UserID: "u1", AcademyID: "zz", Rating: 3}, apperrors.IsValidationError},
		{"anonymous", SubmitReviewCommand{AcademyID: "a1", Rating: 3}, apperrors.IsUnauthorizedError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.cmd)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}
