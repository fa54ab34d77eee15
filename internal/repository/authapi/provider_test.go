package authapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/repository/authapi"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func newProvider(t *testing.T, handler http.HandlerFunc) domain.IdentityProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return authapi.NewProvider(srv.URL, "anon-key", testSecret, nil)
}

func TestRegisterErrorClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error_code":"user_already_exists","msg":"User already registered"}`))
		})

		_, err := p.RegisterWithCredentials(ctx, "u1@example.com", "secret123")
		assert.Equal(t, domain.AuthEmailInUse, domain.AuthCode(err))
	})

	t.Run("weak password", func(t *testing.T) {
		p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error_code":"weak_password","msg":"Password should be at least 6 characters"}`))
		})

		_, err := p.RegisterWithCredentials(ctx, "u1@example.com", "123")
		assert.Equal(t, domain.AuthWeakPassword, domain.AuthCode(err))
	})

	t.Run("unreachable provider", func(t *testing.T) {
		p := authapi.NewProvider("http://127.0.0.1:1", "anon-key", testSecret, nil)
		_, err := p.RegisterWithCredentials(ctx, "u1@example.com", "secret123")
		assert.Equal(t, domain.AuthProviderUnreachable, domain.AuthCode(err))
	})
}

func TestSignInClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("bad credentials are one generic class", func(t *testing.T) {
		p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
		})

		_, err := p.SignInWithCredentials(ctx, "u1@example.com", "wrong")
		assert.Equal(t, domain.AuthInvalidCredential, domain.AuthCode(err))
	})

	t.Run("successful sign-in carries identity and tokens", func(t *testing.T) {
		p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "anon-key", r.Header.Get("apikey"))
			w.Write([]byte(`{
				"access_token":"at","refresh_token":"rt","expires_in":3600,
				"user":{"id":"u1","email":"u1@example.com","user_metadata":{"full_name":"Juan Perez"}}
			}`))
		})

		sess, err := p.SignInWithCredentials(ctx, "u1@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, "u1", sess.Identity.UID)
		assert.Equal(t, "Juan Perez", sess.Identity.DisplayName)
		assert.Equal(t, "at", sess.AccessToken)
		assert.Equal(t, 3600, sess.ExpiresIn)
	})
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	p := authapi.NewProvider("http://localhost", "anon-key", testSecret, nil)

	signed := func(claims jwt.MapClaims) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(testSecret))
		assert.NoError(t, err)
		return s
	}

	t.Run("valid token yields the identity", func(t *testing.T) {
		s := signed(jwt.MapClaims{
			"sub":   "u1",
			"email": "u1@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
			"user_metadata": map[string]any{
				"full_name": "Juan Perez",
			},
		})

		ident, err := p.VerifyToken(ctx, s)
		assert.NoError(t, err)
		assert.Equal(t, "u1", ident.UID)
		assert.Equal(t, "Juan Perez", ident.DisplayName)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		s := signed(jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := p.VerifyToken(ctx, s)
		assert.Equal(t, domain.AuthInvalidToken, domain.AuthCode(err))
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		s, _ := token.SignedString([]byte("other-secret"))

		_, err := p.VerifyToken(ctx, s)
		assert.Equal(t, domain.AuthInvalidToken, domain.AuthCode(err))
	})

	t.Run("token without subject is rejected", func(t *testing.T) {
		s := signed(jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := p.VerifyToken(ctx, s)
		assert.Equal(t, domain.AuthInvalidToken, domain.AuthCode(err))
	})
}
