package usecase

import "go-servicios-backend/internal/domain"

// Guard evaluates a screen's declared requirement against the session's
// current reconciler decision. It returns allow-current or the redirect the
// reconciler's rules prescribe; it never re-derives state on its own.
func Guard(d domain.Decision, req domain.Requirement) domain.NavigationIntent {
	switch req {
	case domain.RequireNone:
		return domain.AllowCurrent()

	case domain.RequireAuthenticated:
		switch d.State {
		case domain.StateIncomplete, domain.StateComplete:
			return domain.AllowCurrent()
		case domain.StateNoProfile:
			return domain.Goto(domain.ScreenCompleteProfile)
		default:
			return domain.Goto(domain.ScreenAuth)
		}

	case domain.RequireClient, domain.RequireProfessional:
		want := domain.RoleClient
		if req == domain.RequireProfessional {
			want = domain.RoleProfessional
		}

		switch d.State {
		case domain.StateComplete:
			if d.Role == want {
				return domain.AllowCurrent()
			}
			// Lateral redirect to the user's own dashboard, never to auth.
			return domain.Goto(domain.DashboardFor(d.Role))
		case domain.StateIncomplete, domain.StateNoProfile:
			return domain.Goto(domain.ScreenCompleteProfile)
		default:
			return domain.Goto(domain.ScreenAuth)
		}
	}

	return domain.Goto(domain.ScreenAuth)
}
