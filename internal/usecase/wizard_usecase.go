package usecase

import (
	"context"
	"errors"
	"strings"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/apperror"
	"go-servicios-backend/pkg/metrics"
	"go-servicios-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type wizardUsecase struct {
	profiles  domain.ProfileStore
	markers   domain.SessionStore
	validate  *validator.Validate
	refresher Refresher
}

func NewWizardUsecase(profiles domain.ProfileStore, markers domain.SessionStore, validate *validator.Validate, refresher Refresher) domain.WizardUsecase {
	return &wizardUsecase{
		profiles:  profiles,
		markers:   markers,
		validate:  validate,
		refresher: refresher,
	}
}

// ============================================================================
// Entry
// ============================================================================

// Enter computes the step to land on and the prefilled field values. The
// remote profile is read here, at step entry, and never again mid-edit: the
// client keeps the authoritative copy of in-progress values.
func (u *wizardUsecase) Enter(ctx context.Context, sessionID string, ident *domain.Identity, preSelected domain.Role) (*domain.WizardState, error) {
	if ident == nil {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	prof, err := u.profiles.Get(ctx, ident.UID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, apperror.Unavailable("Failed to load profile", err)
		}
		prof = nil
	}

	pending, _ := u.markers.PendingSwitch(ctx, sessionID)

	state := &domain.WizardState{PendingRoleSwitch: pending}

	// Role already fixed for the session skips the select-role step:
	// a mid-flight switch forces the professional form, a stored role or a
	// preselected role from the registration flow lands on its form.
	switch {
	case pending:
		state.Step = domain.StepProfessionalForm
	case prof != nil && prof.Role.IsValid():
		state.Step = stepFor(prof.Role)
	case preSelected.IsValid():
		state.Step = stepFor(preSelected)
	default:
		state.Step = domain.StepSelectRole
	}
	state.CanGoBack = !pending && preSelected == domain.RoleUnset &&
		(prof == nil || !prof.Role.IsValid())

	// Prefills: stored profile wins, identity display name fills the gap.
	if prof != nil {
		state.FullName = prof.FullName
		state.Phone = prof.Phone
		state.Categories = prof.Categories
		state.Bio = prof.Bio
	}
	if state.FullName == "" {
		state.FullName = ident.DisplayName
	}

	return state, nil
}

// SelectRole is a pure local transition: no store interaction. Profiles that
// already carry a role never reach this step (Enter skips it).
func (u *wizardUsecase) SelectRole(_ context.Context, _ string, ident *domain.Identity, role domain.Role) (*domain.WizardState, error) {
	if ident == nil {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if !role.IsValid() {
		return nil, apperror.BadRequest("Invalid role: " + string(role))
	}
	return &domain.WizardState{
		Step:      stepFor(role),
		FullName:  ident.DisplayName,
		CanGoBack: true,
	}, nil
}

// ============================================================================
// Submits
// ============================================================================

func (u *wizardUsecase) SubmitClient(ctx context.Context, sessionID string, ident *domain.Identity, form *domain.ClientForm) (*domain.NavigationIntent, error) {
	if ident == nil {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	form.FullName = strings.TrimSpace(form.FullName)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := u.validate.Struct(form); err != nil {
		return nil, apperror.BadRequest(validation.Describe(err))
	}

	role := domain.RoleClient
	complete := true
	published := false
	patch := domain.ProfilePatch{
		Role:               &role,
		FullName:           &form.FullName,
		Phone:              &form.Phone,
		IsProfileComplete:  &complete,
		IsServicePublished: &published,
	}

	if err := u.profiles.Put(ctx, ident.UID, patch); err != nil {
		metrics.CountWizardSubmission(string(role), "error")
		return nil, apperror.Unavailable("Failed to save profile", err)
	}
	metrics.CountWizardSubmission(string(role), "ok")

	u.refresher.Refresh(sessionID)
	intent := domain.Goto(domain.ScreenClientDashboard)
	return &intent, nil
}

func (u *wizardUsecase) SubmitProfessional(ctx context.Context, sessionID string, ident *domain.Identity, form *domain.ProfessionalForm) (*domain.NavigationIntent, error) {
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

	prior, err := u.profiles.Get(ctx, ident.UID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, apperror.Unavailable("Failed to load profile", err)
		}
		prior = nil
	}

	pending, _ := u.markers.PendingSwitch(ctx, sessionID)

	role := domain.RoleProfessional

	// Mid-switch from client: flip the role first in its own write, so a
	// concurrent reconciliation can never read role=professional combined
	// with stale client-only fields.
	if pending && prior != nil && prior.Role == domain.RoleClient {
		if err := u.profiles.Put(ctx, ident.UID, domain.ProfilePatch{Role: &role}); err != nil {
			metrics.CountWizardSubmission(string(role), "error")
			return nil, apperror.Unavailable("Failed to update role", err)
		}
	}

	complete := true
	published := prior != nil && prior.IsServicePublished
	patch := domain.ProfilePatch{
		Role:               &role,
		FullName:           &form.FullName,
		Phone:              &form.Phone,
		Categories:         &form.Categories,
		Bio:                &form.Bio,
		IsProfileComplete:  &complete,
		IsServicePublished: &published,
	}

	if err := u.profiles.Put(ctx, ident.UID, patch); err != nil {
		metrics.CountWizardSubmission(string(role), "error")
		return nil, apperror.Unavailable("Failed to save profile", err)
	}
	metrics.CountWizardSubmission(string(role), "ok")

	// The marker resolves together with the write that completed the switch,
	// and only once both writes have landed.
	if pending {
		_ = u.markers.ClearPendingSwitch(ctx, sessionID)
	}

	u.refresher.Refresh(sessionID)
	intent := domain.Goto(domain.ScreenProfessionalDashboard)
	return &intent, nil
}

// ============================================================================
// Role Switch
// ============================================================================

// StartRoleSwitch flips the role immediately when the stored profile already
// satisfies the target role's required fields; otherwise it sets the pending
// marker and routes through the completion wizard.
func (u *wizardUsecase) StartRoleSwitch(ctx context.Context, sessionID string, ident *domain.Identity, to domain.Role) (*domain.NavigationIntent, error) {
	if ident == nil {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if !to.IsValid() {
		return nil, apperror.BadRequest("Invalid role: " + string(to))
	}

	prior, err := u.profiles.Get(ctx, ident.UID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, apperror.BadRequest("No profile to switch; complete your profile first")
		}
		return nil, apperror.Unavailable("Failed to load profile", err)
	}

	if prior.Role == to {
		intent := domain.Goto(domain.DashboardFor(to))
		return &intent, nil
	}

	if prior.MeetsCompletionFor(to) {
		if err := u.profiles.Put(ctx, ident.UID, domain.ProfilePatch{Role: &to}); err != nil {
			return nil, apperror.Unavailable("Failed to update role", err)
		}
		u.refresher.Refresh(sessionID)
		intent := domain.Goto(domain.DashboardFor(to))
		return &intent, nil
	}

	// Missing role-specific data: park the switch and collect it in the wizard.
	if err := u.markers.SetPendingSwitch(ctx, sessionID); err != nil {
		return nil, apperror.Internal(err)
	}
	intent := domain.Goto(domain.ScreenCompleteProfile)
	intent.PendingRoleSwitch = true
	intent.PreSelectedRole = to
	return &intent, nil
}

// CancelRoleSwitch clears the marker and leaves the stored role untouched.
func (u *wizardUsecase) CancelRoleSwitch(ctx context.Context, sessionID string) error {
	if err := u.markers.ClearPendingSwitch(ctx, sessionID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func stepFor(role domain.Role) domain.WizardStep {
	if role == domain.RoleProfessional {
		return domain.StepProfessionalForm
	}
	return domain.StepClientForm
}
