package domain

// ============================================================================
// Screens
// ============================================================================

// Screen identifies a navigable screen of the front end. The backend never
// addresses URLs; the client adapter maps screen ids to routes.
type Screen string

const (
	ScreenHome                  Screen = "home"
	ScreenServices              Screen = "services"
	ScreenAbout                 Screen = "about"
	ScreenAuth                  Screen = "auth"
	ScreenRegister              Screen = "register"
	ScreenRoleSelect            Screen = "role-select"
	ScreenCompleteProfile       Screen = "complete-profile"
	ScreenClientDashboard       Screen = "client-dashboard"
	ScreenProfessionalDashboard Screen = "professional-dashboard"
)

// IsValid checks if the screen id is known.
func (s Screen) IsValid() bool {
	switch s {
	case ScreenHome, ScreenServices, ScreenAbout, ScreenAuth, ScreenRegister,
		ScreenRoleSelect, ScreenCompleteProfile, ScreenClientDashboard,
		ScreenProfessionalDashboard:
		return true
	}
	return false
}

// IsDashboard reports whether the screen is a role dashboard.
func (s Screen) IsDashboard() bool {
	return s == ScreenClientDashboard || s == ScreenProfessionalDashboard
}

// IsProtected reports whether the screen requires a signed-in user.
func (s Screen) IsProtected() bool {
	return s.IsDashboard() || s == ScreenCompleteProfile
}

// IsEntry reports whether the screen belongs to the sign-in/registration flow.
// A user with a complete profile sitting on one of these is redirected to
// their dashboard.
func (s Screen) IsEntry() bool {
	return s == ScreenAuth || s == ScreenRegister || s == ScreenRoleSelect
}

// DashboardFor maps a role to its dashboard screen.
func DashboardFor(role Role) Screen {
	if role == RoleProfessional {
		return ScreenProfessionalDashboard
	}
	return ScreenClientDashboard
}

// ============================================================================
// Navigation Intents
// ============================================================================

// IntentKind discriminates NavigationIntent.
type IntentKind string

const (
	IntentAllow IntentKind = "allow-current"
	IntentGoto  IntentKind = "goto"
)

// NavigationIntent is the reconciler's computed decision: either allow the
// current location or navigate to Target. Recomputed on every identity event
// and location change; never persisted.
type NavigationIntent struct {
	Kind              IntentKind `json:"kind"`
	Target            Screen     `json:"target,omitempty"`
	PreSelectedRole   Role       `json:"pre_selected_role,omitempty"`
	PendingRoleSwitch bool       `json:"pending_role_switch,omitempty"`
}

// AllowCurrent is the fixed-point intent.
func AllowCurrent() NavigationIntent {
	return NavigationIntent{Kind: IntentAllow}
}

// Goto builds a navigation intent to the given screen.
func Goto(target Screen) NavigationIntent {
	return NavigationIntent{Kind: IntentGoto, Target: target}
}

// ============================================================================
// Reconciler State
// ============================================================================

// ReconcilerState is the session's canonical auth+profile state.
type ReconcilerState string

const (
	StateUnknown    ReconcilerState = "unknown"
	StateAnonymous  ReconcilerState = "anonymous"
	StateNoProfile  ReconcilerState = "authenticated-no-profile"
	StateIncomplete ReconcilerState = "authenticated-incomplete"
	StateComplete   ReconcilerState = "authenticated-complete"
)

// Authenticated reports whether the state carries a signed-in identity.
func (s ReconcilerState) Authenticated() bool {
	return s == StateNoProfile || s == StateIncomplete || s == StateComplete
}

// Decision is the reconciler's single shared mutable value: current state plus
// the navigation intent for the current location. Updated only by the
// reconciliation function, last-write-wins.
type Decision struct {
	State        ReconcilerState  `json:"state"`
	Role         Role             `json:"role,omitempty"`
	Profile      *Profile         `json:"profile,omitempty"`
	Intent       NavigationIntent `json:"intent"`
	TransientErr string           `json:"transient_error,omitempty"`
}

// ============================================================================
// Route Guard Requirements
// ============================================================================

// Requirement is a screen's declared access requirement.
type Requirement string

const (
	RequireNone          Requirement = "none"
	RequireAuthenticated Requirement = "authenticated"
	RequireClient        Requirement = "role-client"
	RequireProfessional  Requirement = "role-professional"
)
