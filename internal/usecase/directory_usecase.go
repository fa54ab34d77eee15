package usecase

import (
	"context"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/apperror"
)

type directoryUsecase struct {
	profiles domain.ProfileStore
}

func NewDirectoryUsecase(profiles domain.ProfileStore) domain.DirectoryUsecase {
	return &directoryUsecase{profiles: profiles}
}

// ListPublished returns every professional visible in the public directory:
// complete profiles with a published service, optionally narrowed by category.
func (u *directoryUsecase) ListPublished(ctx context.Context, category domain.Category) ([]domain.Profile, error) {
	if category != "" && !category.IsValid() {
		return nil, apperror.BadRequest("Invalid category: " + string(category))
	}

	complete := true
	published := true
	profiles, err := u.profiles.Query(ctx, domain.ProfileFilter{
		Role:      domain.RoleProfessional,
		Complete:  &complete,
		Published: &published,
		Category:  category,
	})
	if err != nil {
		return nil, apperror.Unavailable("Failed to load professionals", err)
	}
	return profiles, nil
}
