package domain

import "context"

// Identity is the read-only view of the signed-in user owned by the identity
// provider. It is valid only for the current session.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// AuthSession is the result of a successful credential exchange with the
// hosted auth provider.
type AuthSession struct {
	Identity     Identity `json:"identity"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int      `json:"expires_in,omitempty"`
}

// IdentityProvider is the facade over the hosted auth service. All calls are
// remote and may fail with *AuthError.
type IdentityProvider interface {
	RegisterWithCredentials(ctx context.Context, email, password string) (*AuthSession, error)
	SignInWithCredentials(ctx context.Context, email, password string) (*AuthSession, error)
	SignInWithProvider(ctx context.Context, provider, idToken string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	// VerifyToken validates an access token locally (HS256 secret or JWKS)
	// and returns the identity it carries.
	VerifyToken(ctx context.Context, accessToken string) (*Identity, error)
}

// IdentityEvent is one identity-change delivery for a session. Identity is nil
// for "signed out". Seq increases per session; deliveries carrying the same
// logical identity may repeat and must be handled idempotently.
type IdentityEvent struct {
	Seq      uint64
	Identity *Identity
}
