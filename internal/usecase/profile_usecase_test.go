package usecase_test

import (
	"context"
	"testing"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProfileEditor(t *testing.T) {
	ident := &domain.Identity{UID: "u1"}
	ctx := context.Background()

	t.Run("publishing requires a complete card", func(t *testing.T) {
		store := new(MockProfileStore)
		uc := usecase.NewProfileUsecase(store, newValidate(), &fakeRefresher{})

		_, err := uc.SaveProfessionalProfile(ctx, "sess-1", ident, &domain.ProfessionalEditorForm{
			FullName:           "Maria Gomez",
			Phone:              "+549112345678",
			Categories:         nil, // not complete
			IsServicePublished: true,
		})

		assert.Error(t, err)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save persists and returns the fresh profile", func(t *testing.T) {
		store := newFakeProfileStore()
		store.set(completeProfile("u1", domain.RoleProfessional))
		refresher := &fakeRefresher{}
		uc := usecase.NewProfileUsecase(store, newValidate(), refresher)

		prof, err := uc.SaveProfessionalProfile(ctx, "sess-1", ident, &domain.ProfessionalEditorForm{
			FullName:           "Maria Gomez",
			Phone:              "+549112345678",
			Categories:         []domain.Category{domain.CategoryPlomeria, domain.CategoryElectricidad},
			Bio:                "Urgencias 24hs",
			IsServicePublished: true,
		})

		assert.NoError(t, err)
		assert.True(t, prof.IsServicePublished)
		assert.Len(t, prof.Categories, 2)
		assert.Equal(t, 1, refresher.count())
	})

	t.Run("me distinguishes missing profile from store failure", func(t *testing.T) {
		store := new(MockProfileStore)
		store.On("Get", mock.Anything, "u1").Return(nil, domain.ErrProfileNotFound)
		uc := usecase.NewProfileUsecase(store, newValidate(), &fakeRefresher{})

		_, err := uc.Me(ctx, ident)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestDirectoryListPublished(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown categories", func(t *testing.T) {
		uc := usecase.NewDirectoryUsecase(new(MockProfileStore))
		_, err := uc.ListPublished(ctx, "brujeria")
		assert.Error(t, err)
	})

	t.Run("queries only published complete professionals", func(t *testing.T) {
		store := new(MockProfileStore)
		store.On("Query", mock.Anything, mock.MatchedBy(func(f domain.ProfileFilter) bool {
			return f.Role == domain.RoleProfessional &&
				f.Complete != nil && *f.Complete &&
				f.Published != nil && *f.Published &&
				f.Category == domain.CategoryPlomeria
		})).Return([]domain.Profile{*completeProfile("u1", domain.RoleProfessional)}, nil)

		uc := usecase.NewDirectoryUsecase(store)
		profiles, err := uc.ListPublished(ctx, domain.CategoryPlomeria)

		assert.NoError(t, err)
		assert.Len(t, profiles, 1)
		store.AssertExpectations(t)
	})
}
