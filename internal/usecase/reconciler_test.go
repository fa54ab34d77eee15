package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

// fakeProfileStore is a controllable in-memory ProfileStore. A non-nil gate
// makes Get block until the gate is closed, which lets tests hold a fetch in
// flight while newer events queue up.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
	getErr   error
	gate     chan struct{}
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*domain.Profile)}
}

func (s *fakeProfileStore) Get(_ context.Context, userID string) (*domain.Profile, error) {
	s.mu.Lock()
	gate := s.gate
	err := s.getErr
	prof := s.profiles[userID]
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if prof == nil {
		return nil, domain.ErrProfileNotFound
	}
	cp := *prof
	return &cp, nil
}

func (s *fakeProfileStore) Put(_ context.Context, userID string, patch domain.ProfilePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prof := s.profiles[userID]
	if prof == nil {
		prof = &domain.Profile{UserID: userID}
		s.profiles[userID] = prof
	}
	if patch.Role != nil {
		prof.Role = *patch.Role
	}
	if patch.FullName != nil {
		prof.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		prof.Phone = *patch.Phone
	}
	if patch.Categories != nil {
		prof.Categories = *patch.Categories
	}
	if patch.Bio != nil {
		prof.Bio = *patch.Bio
	}
	if patch.IsServicePublished != nil {
		prof.IsServicePublished = *patch.IsServicePublished
	}
	if patch.IsProfileComplete != nil {
		prof.IsProfileComplete = *patch.IsProfileComplete
	}
	return nil
}

func (s *fakeProfileStore) Query(_ context.Context, _ domain.ProfileFilter) ([]domain.Profile, error) {
	return nil, nil
}

func (s *fakeProfileStore) set(prof *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[prof.UserID] = prof
}

type fakeMarkers struct {
	mu sync.Mutex
	m  map[string]bool
}

func newFakeMarkers() *fakeMarkers {
	return &fakeMarkers{m: make(map[string]bool)}
}

func (f *fakeMarkers) SetPendingSwitch(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[sessionID] = true
	return nil
}

func (f *fakeMarkers) PendingSwitch(_ context.Context, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m[sessionID], nil
}

func (f *fakeMarkers) ClearPendingSwitch(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, sessionID)
	return nil
}

func completeProfile(uid string, role domain.Role) *domain.Profile {
	p := &domain.Profile{
		UserID:            uid,
		Role:              role,
		FullName:          "Maria Gomez",
		Phone:             "+549112345678",
		IsProfileComplete: true,
	}
	if role == domain.RoleProfessional {
		p.Categories = []domain.Category{domain.CategoryPlomeria}
	}
	return p
}

func startReconciler(t *testing.T, store domain.ProfileStore, markers domain.SessionStore) *usecase.Reconciler {
	t.Helper()
	r := usecase.NewReconciler("sess-1", store, markers)
	r.Start(context.Background())
	t.Cleanup(r.Stop)
	return r
}

func waitFor(t *testing.T, r *usecase.Reconciler, cond func(domain.Decision) bool) domain.Decision {
	t.Helper()
	assert.Eventually(t, func() bool {
		return cond(r.Current())
	}, time.Second, 2*time.Millisecond)
	return r.Current()
}

func TestReconcilerSignedOut(t *testing.T) {
	t.Run("first pass on protected screen forces home", func(t *testing.T) {
		store := newFakeProfileStore()
		r := startReconciler(t, store, newFakeMarkers())
		r.SetLocation(context.Background(), domain.ScreenClientDashboard)

		r.OnIdentityChange(nil)

		d := waitFor(t, r, func(d domain.Decision) bool {
			return d.State == domain.StateAnonymous
		})
		assert.Equal(t, domain.IntentGoto, d.Intent.Kind)
		assert.Equal(t, domain.ScreenHome, d.Intent.Target)
	})

	t.Run("first pass on public screen allows", func(t *testing.T) {
		store := newFakeProfileStore()
		r := startReconciler(t, store, newFakeMarkers())
		r.SetLocation(context.Background(), domain.ScreenServices)

		r.OnIdentityChange(nil)

		d := waitFor(t, r, func(d domain.Decision) bool {
			return d.State == domain.StateAnonymous
		})
		assert.Equal(t, domain.IntentAllow, d.Intent.Kind)
	})

	t.Run("sign-out clears a pending role switch", func(t *testing.T) {
		store := newFakeProfileStore()
		markers := newFakeMarkers()
		assert.NoError(t, markers.SetPendingSwitch(context.Background(), "sess-1"))

		r := startReconciler(t, store, markers)
		r.OnIdentityChange(nil)

		waitFor(t, r, func(d domain.Decision) bool {
			return d.State == domain.StateAnonymous
		})
		pending, _ := markers.PendingSwitch(context.Background(), "sess-1")
		assert.False(t, pending)
	})
}

func TestReconcilerProfileStates(t *testing.T) {
	ident := &domain.Identity{UID: "u1", Email: "u1@example.com"}

	t.Run("no profile forces completion wizard", func(t *testing.T) {
		store := newFakeProfileStore()
		r := startReconciler(t, store, newFakeMarkers())

		r.OnIdentityChange(ident)

		d := waitFor(t, r, func(d domain.Decision) bool {
			return d.State == domain.StateNoProfile
		})
		assert.Equal(t, domain.IntentGoto, d.Intent.Kind)
		assert.Equal(t, domain.ScreenCompleteProfile, d.Intent.Target)
	})

	t.Run("incomplete profile carries its stored role as preselection", func(t *testing.T) {
		store := newFakeProfileStore()
		store.set(&domain.Profile{UserID: "u1", Role: domain.RoleProfessional})
		r := startReconciler(t, store, newFakeMarkers())

		r.OnIdentityChange(ident)

		d := waitFor(t, r, func(d domain.Decision) bool {
			return d.State == domain.StateIncomplete
		})
		assert.Equal(t, domain.ScreenCompleteProfile, d.Intent.Target)
		assert.Equal(t, domain.RoleProfessional, d.Intent.PreSelectedRole)
	})

	t.Run("complete profile on auth screen goes to its dashboard", func(t *testing.T) {
		store := newFakeProfileStore()
		store.set(completeProfile("u1", domain.RoleClient))
		r := startReconciler(t, store, newFakeMarkers())
		r.SetLocation(context.Background(), domain.ScreenAuth)

		r.OnIdentityChange(ident)

		d := waitFor(t, r, func(d domain.Decision) bool {
			return d.State == domain.StateComplete
		})
		assert.Equal(t, domain.RoleClient, d.Role)
		assert.Equal(t, domain.ScreenClientDashboard, d.Intent.Target)
	})

	t.Run("complete profile on completion screen leaves unless switch pending", func(t *testing.T) {
		store := newFakeProfileStore()
		store.set(completeProfile("u1", domain.RoleProfessional))
		markers := newFakeMarkers()
		r := startReconciler(t, store, markers)
		r.SetLocation(context.Background(), domain.ScreenCompleteProfile)

		r.OnIdentityChange(ident)
		d := waitFor(t, r, func(d domain.Decision) bool {
			return d.State == domain.StateComplete
		})
		assert.Equal(t, domain.ScreenProfessionalDashboard, d.Intent.Target)

		// With the marker set, staying on the completion screen is allowed.
		assert.NoError(t, markers.SetPendingSwitch(context.Background(), "sess-1"))
		d = r.SetLocation(context.Background(), domain.ScreenCompleteProfile)
		assert.Equal(t, domain.IntentAllow, d.Intent.Kind)
	})
}

// Every forced redirect must land on a screen the same state then allows,
// otherwise the client would loop.
func TestReconcilerRedirectsReachFixedPoint(t *testing.T) {
	ident := &domain.Identity{UID: "u1"}

	cases := []struct {
		name    string
		profile *domain.Profile
		signOut bool
		from    domain.Screen
	}{
		{name: "anonymous on dashboard", signOut: true, from: domain.ScreenProfessionalDashboard},
		{name: "no profile on dashboard", from: domain.ScreenClientDashboard},
		{name: "incomplete on home", profile: &domain.Profile{UserID: "u1", Role: domain.RoleClient}, from: domain.ScreenHome},
		{name: "complete client on role select", profile: completeProfile("u1", domain.RoleClient), from: domain.ScreenRoleSelect},
		{name: "complete professional on register", profile: completeProfile("u1", domain.RoleProfessional), from: domain.ScreenRegister},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeProfileStore()
			if tc.profile != nil {
				store.set(tc.profile)
			}
			r := startReconciler(t, store, newFakeMarkers())
			r.SetLocation(context.Background(), tc.from)

			if tc.signOut {
				r.OnIdentityChange(nil)
			} else {
				r.OnIdentityChange(ident)
			}

			d := waitFor(t, r, func(d domain.Decision) bool {
				return d.State != domain.StateUnknown
			})
			if d.Intent.Kind != domain.IntentGoto {
				return
			}

			// Follow the redirect: the new location must be a fixed point.
			d = r.SetLocation(context.Background(), d.Intent.Target)
			assert.Equal(t, domain.IntentAllow, d.Intent.Kind, "redirect target %q must be allowed", d.Intent.Target)
		})
	}
}

func TestReconcilerDuplicateDeliveriesAreIdempotent(t *testing.T) {
	store := newFakeProfileStore()
	store.set(completeProfile("u1", domain.RoleClient))
	r := startReconciler(t, store, newFakeMarkers())
	r.SetLocation(context.Background(), domain.ScreenClientDashboard)

	ident := &domain.Identity{UID: "u1"}
	r.OnIdentityChange(ident)
	first := waitFor(t, r, func(d domain.Decision) bool {
		return d.State == domain.StateComplete
	})

	// The provider may re-announce the same user any number of times.
	r.OnIdentityChange(ident)
	r.OnIdentityChange(ident)

	second := waitFor(t, r, func(d domain.Decision) bool {
		return d.State == domain.StateComplete
	})
	assert.Equal(t, first.Intent, second.Intent)
	assert.Equal(t, domain.IntentAllow, second.Intent.Kind)
}

// A fetch result that was overtaken by a newer identity event must be
// discarded, not applied. If the stale pass were applied it would consume the
// first-pass side effects, and the later sign-out would no longer force the
// user off the protected screen.
func TestReconcilerDiscardsStaleFetch(t *testing.T) {
	store := newFakeProfileStore()
	gate := make(chan struct{})
	store.gate = gate

	r := startReconciler(t, store, newFakeMarkers())
	r.SetLocation(context.Background(), domain.ScreenClientDashboard)

	r.OnIdentityChange(&domain.Identity{UID: "u1"}) // fetch blocks on the gate
	r.OnIdentityChange(nil)                         // overtakes while in flight
	close(gate)

	d := waitFor(t, r, func(d domain.Decision) bool {
		return d.State == domain.StateAnonymous
	})
	assert.Equal(t, domain.IntentGoto, d.Intent.Kind)
	assert.Equal(t, domain.ScreenHome, d.Intent.Target)
}

func TestReconcilerTransientStoreError(t *testing.T) {
	store := newFakeProfileStore()
	store.getErr = domain.NewStoreError("get", errors.New("connection refused"))
	markers := newFakeMarkers()
	assert.NoError(t, markers.SetPendingSwitch(context.Background(), "sess-1"))

	r := startReconciler(t, store, markers)
	r.SetLocation(context.Background(), domain.ScreenClientDashboard)

	ident := &domain.Identity{UID: "u1"}
	r.OnIdentityChange(ident)

	d := waitFor(t, r, func(d domain.Decision) bool {
		return d.TransientErr != ""
	})
	// No forced navigation and no state change on a read failure.
	assert.Equal(t, domain.IntentAllow, d.Intent.Kind)
	assert.Equal(t, domain.StateUnknown, d.State)

	// A failed fetch is not a sign-out: the mid-flight role switch survives.
	pending, _ := markers.PendingSwitch(context.Background(), "sess-1")
	assert.True(t, pending)

	// The failed pass did not count as the initial one, but it did record the
	// identity: a refresh retries the fetch for the same user and still gets
	// the first-pass treatment, forcing the user off the dashboard.
	store.mu.Lock()
	store.getErr = nil
	store.mu.Unlock()
	r.Refresh()

	d = waitFor(t, r, func(d domain.Decision) bool {
		return d.State == domain.StateNoProfile
	})
	assert.Equal(t, domain.ScreenCompleteProfile, d.Intent.Target)
	assert.Empty(t, d.TransientErr)
}
