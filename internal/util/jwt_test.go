package util

import (
	"testing"
	"time"
)

func TestAdminJWTRoundTrip(t *testing.T) {
	secret := "unit-test-secret"

	token, err := GenerateAdminJWT(secret, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseAdminJWT(token, secret)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}
}

func TestAdminJWTWrongSecret(t *testing.T) {
	token, err := GenerateAdminJWT("secret-a", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := ParseAdminJWT(token, "secret-b"); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestAdminJWTExpired(t *testing.T) {
	token, err := GenerateAdminJWT("secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := ParseAdminJWT(token, "secret"); err == nil {
		t.Fatal("expected parse to fail for expired token")
	}
}

func TestAppErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{Validation("bad input %d", 7), KindValidation},
		{UnauthorizedError("nope"), KindUnauthorized},
		{NotFoundError("session"), KindNotFound},
	}
	for _, tc := range cases {
		appErr, ok := AsAppError(tc.err)
		if !ok {
			t.Fatalf("AsAppError failed for %v", tc.err)
		}
		if appErr.Kind != tc.kind {
			t.Fatalf("expected kind %d, got %d", tc.kind, appErr.Kind)
		}
	}

	if msg := NotFoundError("session").Error(); msg != "session not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}
