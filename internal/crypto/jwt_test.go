package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, method jwt.SigningMethod, key any, issuer, audience string, expires time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: 42,
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return s
}

func TestValidateTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("ValidateToken() UserID = %d, want 42", claims.UserID)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	hour := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"garbage", "not-a-valid-token", testSecret},
		{"wrong secret", signClaims(t, jwt.SigningMethodHS256, []byte("other"), tokenIssuer, tokenAudience, hour), testSecret},
		{"expired", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), tokenIssuer, tokenAudience, time.Now().Add(-time.Minute)), testSecret},
		{"wrong issuer", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), "wrong-issuer", tokenAudience, hour), testSecret},
		{"wrong audience", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), tokenIssuer, "wrong-audience", hour), testSecret},
		{"other hmac size", signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), tokenIssuer, tokenAudience, hour), testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token, tt.secret); err != ErrInvalidToken {
				t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}
