package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/metrics"
)

// Reconciler is the per-session profile-state machine. It consumes identity
// change events, loads the profile, and keeps a single current Decision (state
// + navigation intent) that the route guard and the navigation endpoint read.
//
// Two policies here are load-bearing and must not be "simplified":
//   - first pass vs steady state: the forced "leave protected area" and "leave
//     dashboard on incomplete" side effects run only on the very first
//     reconciliation after load, so an unrelated token refresh never bounces a
//     user who is legitimately deep in a dashboard;
//   - the pending-role-switch marker suppresses the "completed profile leaves
//     the completion screen" redirect while a role switch is mid-flight.
type Reconciler struct {
	sessionID string
	store     domain.ProfileStore
	markers   domain.SessionStore

	// seq stamps deliveries; latest is the newest stamped seq. A fetch result
	// is applied only if its event is still the latest (recency check).
	seq    atomic.Uint64
	latest atomic.Uint64

	events chan domain.IdentityEvent
	done   chan struct{}
	stop   sync.Once

	mu              sync.Mutex
	state           domain.ReconcilerState
	role            domain.Role
	profile         *domain.Profile
	identity        *domain.Identity
	location        domain.Screen
	initialPassDone bool
	decision        domain.Decision
}

func NewReconciler(sessionID string, store domain.ProfileStore, markers domain.SessionStore) *Reconciler {
	r := &Reconciler{
		sessionID: sessionID,
		store:     store,
		markers:   markers,
		state:     domain.StateUnknown,
		location:  domain.ScreenHome,
		events:    make(chan domain.IdentityEvent, 16),
		done:      make(chan struct{}),
	}
	r.decision = domain.Decision{State: domain.StateUnknown, Intent: domain.AllowCurrent()}
	return r
}

// Start launches the event loop. One goroutine per session; Stop ends it.
func (r *Reconciler) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.done:
				return
			case ev := <-r.events:
				r.reconcile(ctx, ev)
			}
		}
	}()
}

// Stop ends the event loop. Safe to call more than once.
func (r *Reconciler) Stop() {
	r.stop.Do(func() { close(r.done) })
}

// OnIdentityChange delivers one identity-change event (nil = signed out).
// Non-blocking: when the buffer is full the oldest queued event is dropped,
// which is sound because reconciliation is last-writer-wins by recency.
func (r *Reconciler) OnIdentityChange(ident *domain.Identity) uint64 {
	ev := domain.IdentityEvent{Seq: r.seq.Add(1), Identity: ident}
	r.latest.Store(ev.Seq)
	for {
		select {
		case r.events <- ev:
			return ev.Seq
		default:
			select {
			case <-r.events:
			default:
			}
		}
	}
}

// Refresh re-delivers the current identity, forcing a profile refetch. The
// wizard calls this after every successful save.
func (r *Reconciler) Refresh() {
	r.mu.Lock()
	ident := r.identity
	r.mu.Unlock()
	r.OnIdentityChange(ident)
}

// Current returns the decision as of the last completed reconciliation pass.
func (r *Reconciler) Current() domain.Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decision
}

// SetLocation records a location change and recomputes the navigation intent
// from cached state, without refetching the profile. Location changes are not
// reconciliation passes: first-pass side effects never apply here.
func (r *Reconciler) SetLocation(ctx context.Context, screen domain.Screen) domain.Decision {
	pending, _ := r.markers.PendingSwitch(ctx, r.sessionID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if screen.IsValid() {
		r.location = screen
	}
	r.setDecisionLocked(r.intentLocked(false, pending), "")
	return r.decision
}

// ============================================================================
// Reconciliation
// ============================================================================

func (r *Reconciler) reconcile(ctx context.Context, ev domain.IdentityEvent) {
	if ev.Identity == nil {
		r.applySignedOut(ctx, ev)
		return
	}

	prof, err := r.store.Get(ctx, ev.Identity.UID)

	// Recency check: if a newer identity event arrived while this fetch was in
	// flight, its outcome supersedes ours. Discard, never apply.
	if ev.Seq != r.latest.Load() {
		metrics.CountStaleDiscard()
		return
	}

	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		// Transient read failure: keep the previous state, surface the error,
		// never force a navigation. The initial pass does not count as done so
		// a retry still gets the full first-pass treatment. The identity is
		// still recorded, so Refresh retries the fetch for this user instead
		// of replaying a sign-out.
		r.mu.Lock()
		r.identity = ev.Identity
		r.setDecisionLocked(domain.AllowCurrent(), err.Error())
		r.mu.Unlock()
		metrics.CountPass("transient-error")
		return
	}
	if errors.Is(err, domain.ErrProfileNotFound) {
		prof = nil
	}

	pending, _ := r.markers.PendingSwitch(ctx, r.sessionID)

	r.mu.Lock()
	defer r.mu.Unlock()

	firstPass := !r.initialPassDone
	r.initialPassDone = true
	r.identity = ev.Identity
	r.profile = prof

	switch {
	case prof == nil:
		r.state = domain.StateNoProfile
		r.role = domain.RoleUnset
	case !prof.IsProfileComplete:
		r.state = domain.StateIncomplete
		r.role = domain.RoleUnset
	default:
		r.state = domain.StateComplete
		r.role = prof.Role
	}

	r.setDecisionLocked(r.intentLocked(firstPass, pending), "")
	metrics.CountPass(string(r.state))
}

func (r *Reconciler) applySignedOut(ctx context.Context, ev domain.IdentityEvent) {
	// Sign-out invalidates any mid-flight role switch.
	_ = r.markers.ClearPendingSwitch(ctx, r.sessionID)

	r.mu.Lock()
	defer r.mu.Unlock()

	firstPass := !r.initialPassDone
	r.initialPassDone = true
	r.identity = nil
	r.profile = nil
	r.role = domain.RoleUnset
	r.state = domain.StateAnonymous

	intent := domain.AllowCurrent()
	if firstPass && r.location.IsProtected() {
		intent = domain.Goto(domain.ScreenHome)
	}
	r.setDecisionLocked(intent, "")
	metrics.CountPass(string(r.state))
}

// intentLocked computes the navigation intent for the current state and
// location. Must hold r.mu.
func (r *Reconciler) intentLocked(firstPass, pendingSwitch bool) domain.NavigationIntent {
	loc := r.location

	switch r.state {
	case domain.StateAnonymous:
		if firstPass && loc.IsProtected() {
			return domain.Goto(domain.ScreenHome)
		}

	case domain.StateNoProfile, domain.StateIncomplete:
		if firstPass {
			if loc != domain.ScreenCompleteProfile {
				return r.completionIntentLocked(pendingSwitch)
			}
		} else if loc.IsEntry() {
			// Steady state: a sign-in performed on the auth screens still
			// moves the user along to the completion flow.
			return r.completionIntentLocked(pendingSwitch)
		}

	case domain.StateComplete:
		if loc.IsEntry() || (loc == domain.ScreenCompleteProfile && !pendingSwitch) {
			return domain.Goto(domain.DashboardFor(r.role))
		}
	}

	return domain.AllowCurrent()
}

func (r *Reconciler) completionIntentLocked(pendingSwitch bool) domain.NavigationIntent {
	intent := domain.Goto(domain.ScreenCompleteProfile)
	intent.PendingRoleSwitch = pendingSwitch
	if r.profile != nil && r.profile.Role.IsValid() {
		intent.PreSelectedRole = r.profile.Role
	}
	return intent
}

// setDecisionLocked rebuilds the shared Decision value. Must hold r.mu.
func (r *Reconciler) setDecisionLocked(intent domain.NavigationIntent, transientErr string) {
	d := domain.Decision{
		State:        r.state,
		Profile:      r.profile,
		Intent:       intent,
		TransientErr: transientErr,
	}
	if r.state == domain.StateComplete {
		d.Role = r.role
	}
	r.decision = d

	if intent.Kind == domain.IntentGoto {
		metrics.CountRedirect(string(intent.Target))
	}
}
