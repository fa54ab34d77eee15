package usecase

import (
	"context"
	"errors"
	"strings"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/apperror"
	"go-servicios-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	profiles  domain.ProfileStore
	validate  *validator.Validate
	refresher Refresher
}

func NewProfileUsecase(profiles domain.ProfileStore, validate *validator.Validate, refresher Refresher) domain.ProfileUsecase {
	return &profileUsecase{profiles: profiles, validate: validate, refresher: refresher}
}

func (u *profileUsecase) Me(ctx context.Context, ident *domain.Identity) (*domain.Profile, error) {
	if ident == nil {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	prof, err := u.profiles.Get(ctx, ident.UID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, apperror.Unavailable("Failed to load profile", err)
	}
	return prof, nil
}

// SaveProfessionalProfile is the dashboard editor's save. A published service
// always satisfies the completeness invariant: name, phone and at least one
// category are required before the save goes through.
func (u *profileUsecase) SaveProfessionalProfile(ctx context.Context, sessionID string, ident *domain.Identity, form *domain.ProfessionalEditorForm) (*domain.Profile, error) {
	if ident == nil {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	form.FullName = strings.TrimSpace(form.FullName)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Bio = strings.TrimSpace(form.Bio)
	if err := u.validate.Struct(form); err != nil {
		return nil, apperror.BadRequest(validation.Describe(err))
	}
	for _, c := range form.Categories {
		if !c.IsValid() {
			return nil, apperror.BadRequest("Invalid category: " + string(c))
		}
	}

	complete := true
	patch := domain.ProfilePatch{
		FullName:           &form.FullName,
		Phone:              &form.Phone,
		Categories:         &form.Categories,
		Bio:                &form.Bio,
		IsProfileComplete:  &complete,
		IsServicePublished: &form.IsServicePublished,
	}

	if err := u.profiles.Put(ctx, ident.UID, patch); err != nil {
		return nil, apperror.Unavailable("Failed to save profile", err)
	}

	u.refresher.Refresh(sessionID)

	prof, err := u.profiles.Get(ctx, ident.UID)
	if err != nil {
		return nil, apperror.Unavailable("Saved, but failed to reload profile", err)
	}
	return prof, nil
}
