package usecase_test

import (
	"testing"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	decision := func(state domain.ReconcilerState, role domain.Role) domain.Decision {
		return domain.Decision{State: state, Role: role}
	}

	cases := []struct {
		name string
		d    domain.Decision
		req  domain.Requirement
		want domain.NavigationIntent
	}{
		{
			name: "public screens never redirect",
			d:    decision(domain.StateAnonymous, domain.RoleUnset),
			req:  domain.RequireNone,
			want: domain.AllowCurrent(),
		},
		{
			name: "anonymous user on authenticated screen goes to auth",
			d:    decision(domain.StateAnonymous, domain.RoleUnset),
			req:  domain.RequireAuthenticated,
			want: domain.Goto(domain.ScreenAuth),
		},
		{
			name: "unknown state is treated as unauthenticated",
			d:    decision(domain.StateUnknown, domain.RoleUnset),
			req:  domain.RequireClient,
			want: domain.Goto(domain.ScreenAuth),
		},
		{
			name: "authenticated without profile must complete it first",
			d:    decision(domain.StateNoProfile, domain.RoleUnset),
			req:  domain.RequireAuthenticated,
			want: domain.Goto(domain.ScreenCompleteProfile),
		},
		{
			name: "incomplete profile may use authenticated screens",
			d:    decision(domain.StateIncomplete, domain.RoleUnset),
			req:  domain.RequireAuthenticated,
			want: domain.AllowCurrent(),
		},
		{
			name: "incomplete profile cannot reach a dashboard",
			d:    decision(domain.StateIncomplete, domain.RoleUnset),
			req:  domain.RequireProfessional,
			want: domain.Goto(domain.ScreenCompleteProfile),
		},
		{
			name: "matching role is allowed",
			d:    decision(domain.StateComplete, domain.RoleProfessional),
			req:  domain.RequireProfessional,
			want: domain.AllowCurrent(),
		},
		{
			name: "client on professional dashboard is sent to its own, not to auth",
			d:    decision(domain.StateComplete, domain.RoleClient),
			req:  domain.RequireProfessional,
			want: domain.Goto(domain.ScreenClientDashboard),
		},
		{
			name: "professional on client dashboard is sent to its own",
			d:    decision(domain.StateComplete, domain.RoleProfessional),
			req:  domain.RequireClient,
			want: domain.Goto(domain.ScreenProfessionalDashboard),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, usecase.Guard(tc.d, tc.req))
		})
	}
}
