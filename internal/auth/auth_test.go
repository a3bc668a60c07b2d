package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/credit-service/internal/config"
)

func signed(t *testing.T, method jwt.SigningMethod, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer fake-token", want: "fake-token"},
		{header: "bearer fake-token", want: "fake-token"},
		{header: " Bearer fake-token ", want: "fake-token"},
		{header: "Bearer  fake-token", want: " fake-token"},
		{header: "Bearer", want: ""},
		{header: "Bearer ", want: ""},
		{header: "", wantErr: true},
		{header: "Basic dXNlcjpwYXNz", wantErr: true},
		{header: "fake-token", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingToken)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticToken(t *testing.T) {
	a := NewStaticToken("fake-token")
	assert.NoError(t, a.Authenticate("fake-token"))
	assert.ErrorIs(t, a.Authenticate("fake-token "), ErrInvalidToken)
	assert.ErrorIs(t, a.Authenticate("Fake-Token"), ErrInvalidToken)
	assert.ErrorIs(t, a.Authenticate(""), ErrInvalidToken)
}

func TestHashedToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	a := NewHashedToken(string(hash))
	assert.NoError(t, a.Authenticate("s3cret"))
	assert.ErrorIs(t, a.Authenticate("other"), ErrInvalidToken)
}

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier("jwt-secret")
	assert.NoError(t, v.Authenticate(signed(t, jwt.SigningMethodHS256, "jwt-secret", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, v.Authenticate(signed(t, jwt.SigningMethodHS256, "jwt-secret", time.Now().Add(-time.Hour))), ErrInvalidToken)
	assert.ErrorIs(t, v.Authenticate(signed(t, jwt.SigningMethodHS256, "other", time.Now().Add(time.Hour))), ErrInvalidToken)
	assert.ErrorIs(t, v.Authenticate(signed(t, jwt.SigningMethodHS384, "jwt-secret", time.Now().Add(time.Hour))), ErrInvalidToken)
	assert.ErrorIs(t, v.Authenticate("fake-token"), ErrInvalidToken)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ops"}).
		SignedString([]byte("jwt-secret"))
	require.NoError(t, err)
	assert.ErrorIs(t, v.Authenticate(noExp), ErrInvalidToken)
}

func TestFromConfig(t *testing.T) {
	a := FromConfig(&config.Config{APIToken: "fake-token", JWTSecret: "jwt-secret"})
	assert.NoError(t, a.Authenticate("fake-token"))
	assert.NoError(t, a.Authenticate(signed(t, jwt.SigningMethodHS256, "jwt-secret", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, a.Authenticate("nope"), ErrInvalidToken)

	assert.ErrorIs(t, FromConfig(&config.Config{}).Authenticate("anything"), ErrNoAuthenticator)
}
