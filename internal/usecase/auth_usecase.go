package usecase

import (
	"context"
	"errors"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/apperror"
	"go-servicios-backend/pkg/logger"
)

type authUsecase struct {
	idp      domain.IdentityProvider
	profiles domain.ProfileStore
	markers  domain.SessionStore
	sessions *Sessions
}

func NewAuthUsecase(idp domain.IdentityProvider, profiles domain.ProfileStore, markers domain.SessionStore, sessions *Sessions) domain.AuthUsecase {
	return &authUsecase{idp: idp, profiles: profiles, markers: markers, sessions: sessions}
}

func (u *authUsecase) Register(ctx context.Context, email, password string, role domain.Role) (*domain.AuthSession, error) {
	if role != domain.RoleUnset && !role.IsValid() {
		return nil, apperror.BadRequest("Invalid role: " + string(role))
	}

	sess, err := u.idp.RegisterWithCredentials(ctx, email, password)
	if err != nil {
		return nil, authErrorToApp(err)
	}

	// Seed a partial profile so the wizard has a document to merge into. The
	// chosen role is a preselection, not completion.
	if sess.Identity.UID != "" {
		patch := domain.ProfilePatch{}
		if role.IsValid() {
			patch.Role = &role
		}
		if err := u.profiles.Put(ctx, sess.Identity.UID, patch); err != nil {
			// Registration succeeded upstream; the profile row will be created
			// on first reconciliation instead.
			logger.Log.Warn("failed to seed profile at registration",
				"user_id", sess.Identity.UID, "error", err)
		}
	}

	return sess, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	sess, err := u.idp.SignInWithCredentials(ctx, email, password)
	if err != nil {
		return nil, authErrorToApp(err)
	}

	if err := u.EnsureProfileExists(ctx, &sess.Identity); err != nil {
		// Transient store failure must not block the sign-in.
		logger.Log.Warn("profile bootstrap failed at login",
			"user_id", sess.Identity.UID, "error", err)
	}
	return sess, nil
}

func (u *authUsecase) LoginWithProvider(ctx context.Context, provider, idToken string) (*domain.AuthSession, error) {
	sess, err := u.idp.SignInWithProvider(ctx, provider, idToken)
	if err != nil {
		return nil, authErrorToApp(err)
	}

	if err := u.EnsureProfileExists(ctx, &sess.Identity); err != nil {
		logger.Log.Warn("profile bootstrap failed at provider login",
			"user_id", sess.Identity.UID, "error", err)
	}
	return sess, nil
}

// Logout signs out upstream; on success the session gets an identity-change
// delivery of "none" and its pending-switch marker is cleared.
func (u *authUsecase) Logout(ctx context.Context, sessionID, accessToken string) error {
	if err := u.idp.SignOut(ctx, accessToken); err != nil {
		return authErrorToApp(err)
	}

	_ = u.markers.ClearPendingSwitch(ctx, sessionID)
	u.sessions.Publish(sessionID, nil)
	return nil
}

// EnsureProfileExists creates the (empty) profile row on first sign-in. The
// upsert is idempotent: an existing profile is left untouched.
func (u *authUsecase) EnsureProfileExists(ctx context.Context, ident *domain.Identity) error {
	if ident == nil || ident.UID == "" {
		return apperror.Unauthorized("User not authenticated")
	}

	_, err := u.profiles.Get(ctx, ident.UID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return err
	}
	return u.profiles.Put(ctx, ident.UID, domain.ProfilePatch{})
}

// authErrorToApp maps provider failures to HTTP-shaped errors while keeping
// the taxonomy code visible to the form.
func authErrorToApp(err error) error {
	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		return apperror.Internal(err)
	}

	switch ae.Code {
	case domain.AuthEmailInUse:
		return apperror.Conflict(ae.Error())
	case domain.AuthWeakPassword:
		return apperror.BadRequest(ae.Error())
	case domain.AuthInvalidCredential, domain.AuthInvalidToken:
		return apperror.Unauthorized(ae.Error())
	case domain.AuthProviderUnreachable:
		return apperror.Unavailable(ae.Error(), ae)
	default:
		return apperror.Internal(ae)
	}
}
