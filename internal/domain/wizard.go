package domain

import "context"

// ============================================================================
// Wizard Steps
// ============================================================================

// WizardStep is the profile-completion wizard's current screen.
type WizardStep string

const (
	StepSelectRole       WizardStep = "select-role"
	StepClientForm       WizardStep = "client-form"
	StepProfessionalForm WizardStep = "professional-form"
)

// WizardState is what the completion screen renders: the step to show plus
// prefilled field values. In-progress edits stay client-side; the state is
// reconciled with the remote profile only at entry to a step, never mid-edit.
type WizardState struct {
	Step              WizardStep `json:"step"`
	FullName          string     `json:"full_name,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Categories        []Category `json:"categories,omitempty"`
	Bio               string     `json:"bio,omitempty"`
	PendingRoleSwitch bool       `json:"pending_role_switch,omitempty"`
	// CanGoBack is false when a role is already fixed for the session and
	// the select-role step must be skipped.
	CanGoBack bool `json:"can_go_back"`
}

// ============================================================================
// Form Payloads
// ============================================================================

type ClientForm struct {
	FullName string `json:"full_name" validate:"required,valid_name"`
	Phone    string `json:"phone" validate:"required,valid_phone"`
}

type ProfessionalForm struct {
	FullName   string     `json:"full_name" validate:"required,valid_name"`
	Phone      string     `json:"phone" validate:"required,valid_phone"`
	Categories []Category `json:"categories" validate:"required,min=1"`
	Bio        string     `json:"bio" validate:"omitempty,max=600"`
}

// ProfessionalEditorForm is the dashboard profile editor payload. Publishing
// requires the completeness invariant to hold.
type ProfessionalEditorForm struct {
	FullName           string     `json:"full_name" validate:"required,valid_name"`
	Phone              string     `json:"phone" validate:"required,valid_phone"`
	Categories         []Category `json:"categories" validate:"required,min=1"`
	Bio                string     `json:"bio" validate:"omitempty,max=600"`
	IsServicePublished bool       `json:"is_service_published"`
}

// ============================================================================
// Session Marker Store
// ============================================================================

// SessionStore holds the one piece of durable session-local state the core
// relies on: the pending role switch marker. It must survive a page reload.
type SessionStore interface {
	SetPendingSwitch(ctx context.Context, sessionID string) error
	PendingSwitch(ctx context.Context, sessionID string) (bool, error)
	ClearPendingSwitch(ctx context.Context, sessionID string) error
}

// ============================================================================
// Usecase Interfaces
// ============================================================================

// WizardUsecase drives the multi-step profile completion flow and the
// role-switch sub-flow.
type WizardUsecase interface {
	Enter(ctx context.Context, sessionID string, ident *Identity, preSelected Role) (*WizardState, error)
	SelectRole(ctx context.Context, sessionID string, ident *Identity, role Role) (*WizardState, error)
	SubmitClient(ctx context.Context, sessionID string, ident *Identity, form *ClientForm) (*NavigationIntent, error)
	SubmitProfessional(ctx context.Context, sessionID string, ident *Identity, form *ProfessionalForm) (*NavigationIntent, error)
	StartRoleSwitch(ctx context.Context, sessionID string, ident *Identity, to Role) (*NavigationIntent, error)
	CancelRoleSwitch(ctx context.Context, sessionID string) error
}

// ProfileUsecase covers the professional dashboard's profile editor.
type ProfileUsecase interface {
	Me(ctx context.Context, ident *Identity) (*Profile, error)
	SaveProfessionalProfile(ctx context.Context, sessionID string, ident *Identity, form *ProfessionalEditorForm) (*Profile, error)
}

// DirectoryUsecase lists published professionals for the public services page.
type DirectoryUsecase interface {
	ListPublished(ctx context.Context, category Category) ([]Profile, error)
}

// AuthUsecase fronts the hosted identity provider for the auth screens.
type AuthUsecase interface {
	Register(ctx context.Context, email, password string, role Role) (*AuthSession, error)
	Login(ctx context.Context, email, password string) (*AuthSession, error)
	LoginWithProvider(ctx context.Context, provider, idToken string) (*AuthSession, error)
	Logout(ctx context.Context, sessionID, accessToken string) error
	EnsureProfileExists(ctx context.Context, ident *Identity) error
}
