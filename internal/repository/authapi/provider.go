package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/auth"

	"github.com/golang-jwt/jwt/v5"
)

// provider is the IdentityProvider facade over the hosted auth REST API
// (GoTrue-style endpoints: /auth/v1/signup, /auth/v1/token, /auth/v1/logout).
type provider struct {
	baseURL   string
	anonKey   string
	jwtSecret string
	jwks      *auth.Provider
	http      *http.Client
}

// NewProvider builds the facade. jwtSecret verifies HS256 tokens; RS256 tokens
// fall back to the JWKS provider.
func NewProvider(baseURL, anonKey, jwtSecret string, jwks *auth.Provider) domain.IdentityProvider {
	return &provider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		jwtSecret: jwtSecret,
		jwks:      jwks,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			FullName  string `json:"full_name"`
			AvatarURL string `json:"avatar_url"`
		} `json:"user_metadata"`
	} `json:"user"`
}

type errorResponse struct {
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

func (e *errorResponse) message() string {
	for _, m := range []string{e.Msg, e.ErrorDescription, e.Error} {
		if m != "" {
			return m
		}
	}
	return "authentication failed"
}

func (p *provider) RegisterWithCredentials(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := map[string]any{"email": email, "password": password}

	var out tokenResponse
	if err := p.post(ctx, "/auth/v1/signup", body, &out); err != nil {
		return nil, classifyRegisterError(err)
	}
	return sessionFrom(&out, email), nil
}

func (p *provider) SignInWithCredentials(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := map[string]any{"email": email, "password": password}

	var out tokenResponse
	if err := p.post(ctx, "/auth/v1/token?grant_type=password", body, &out); err != nil {
		return nil, classifySignInError(err)
	}
	return sessionFrom(&out, email), nil
}

func (p *provider) SignInWithProvider(ctx context.Context, providerKind, idToken string) (*domain.AuthSession, error) {
	body := map[string]any{"provider": providerKind, "id_token": idToken}

	var out tokenResponse
	if err := p.post(ctx, "/auth/v1/token?grant_type=id_token", body, &out); err != nil {
		return nil, classifySignInError(err)
	}
	return sessionFrom(&out, out.User.Email), nil
}

func (p *provider) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return domain.NewAuthError(domain.AuthProviderUnreachable, "could not build request", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.http.Do(req)
	if err != nil {
		return domain.NewAuthError(domain.AuthProviderUnreachable, "auth provider unreachable", err)
	}
	defer resp.Body.Close()

	// GoTrue answers 204 on success; an already-expired token is not an error
	// worth surfacing to the user signing out.
	if resp.StatusCode >= 500 {
		return domain.NewAuthError(domain.AuthProviderUnreachable,
			fmt.Sprintf("auth provider returned %d", resp.StatusCode), nil)
	}
	return nil
}

// VerifyToken validates the access token locally and extracts the identity.
// No network round trip: HS256 uses the shared secret, RS256 the cached JWKS.
func (p *provider) VerifyToken(_ context.Context, accessToken string) (*domain.Identity, error) {
	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
			if p.jwtSecret == "" {
				return nil, fmt.Errorf("HS256 token received but AUTH_JWT_SECRET is not configured")
			}
			return []byte(p.jwtSecret), nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return p.jwks.KeyFunc(token)
		}
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	})
	if err != nil || !token.Valid {
		return nil, domain.NewAuthError(domain.AuthInvalidToken, "invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.NewAuthError(domain.AuthInvalidToken, "invalid claims", nil)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.NewAuthError(domain.AuthInvalidToken, "token has no subject", nil)
	}

	ident := &domain.Identity{UID: sub}
	ident.Email, _ = claims["email"].(string)
	if meta, ok := claims["user_metadata"].(map[string]any); ok {
		ident.DisplayName, _ = meta["full_name"].(string)
		ident.AvatarURL, _ = meta["avatar_url"].(string)
	}
	return ident, nil
}

// ============================================================================
// Internals
// ============================================================================

// apiError carries the upstream status and body for classification.
type apiError struct {
	status int
	body   errorResponse
	err    error
}

func (e *apiError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("auth api %d: %s", e.status, e.body.message())
}

func (p *provider) post(ctx context.Context, path string, body, out any) error {
	jsonBody, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return &apiError{err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return &apiError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &apiError{status: resp.StatusCode, body: errResp}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func classifyRegisterError(err error) error {
	ae, ok := err.(*apiError)
	if !ok || ae.err != nil {
		return domain.NewAuthError(domain.AuthProviderUnreachable, "auth provider unreachable", err)
	}

	msg := strings.ToLower(ae.body.message())
	switch {
	case ae.status == http.StatusUnprocessableEntity && strings.Contains(msg, "already registered"),
		ae.body.ErrorCode == "user_already_exists",
		strings.Contains(msg, "already been registered"):
		return domain.NewAuthError(domain.AuthEmailInUse, "email already in use", nil)
	case ae.body.ErrorCode == "weak_password", strings.Contains(msg, "password"):
		return domain.NewAuthError(domain.AuthWeakPassword, ae.body.message(), nil)
	default:
		return domain.NewAuthError(domain.AuthInvalidCredential, ae.body.message(), nil)
	}
}

func classifySignInError(err error) error {
	ae, ok := err.(*apiError)
	if !ok || ae.err != nil {
		return domain.NewAuthError(domain.AuthProviderUnreachable, "auth provider unreachable", err)
	}
	return domain.NewAuthError(domain.AuthInvalidCredential, "invalid email or password", nil)
}

func sessionFrom(out *tokenResponse, email string) *domain.AuthSession {
	if out.User.Email != "" {
		email = out.User.Email
	}
	return &domain.AuthSession{
		Identity: domain.Identity{
			UID:         out.User.ID,
			Email:       email,
			DisplayName: out.User.UserMetadata.FullName,
			AvatarURL:   out.User.UserMetadata.AvatarURL,
		},
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
	}
}
