package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	token, err := SignJWT(Claims{Sub: "google:42", Email: "x@example.com", Name: "Pat"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "google:42" || claims.Email != "x@example.com" || claims.Name != "Pat" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Iss != issuer {
		t.Fatalf("iss = %q, want %q", claims.Iss, issuer)
	}
	if claims.Exp <= time.Now().UTC().Unix() {
		t.Fatalf("exp = %d is not in the future", claims.Exp)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	a, err := SignJWT(Claims{Sub: "google:42"})
	if err != nil {
		t.Fatalf("SignJWT a: %v", err)
	}
	b, err := SignJWT(Claims{Sub: "google:43"})
	if err != nil {
		t.Fatalf("SignJWT b: %v", err)
	}

	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	forged := pa[0] + "." + pb[1] + "." + pa[2]
	if _, err := VerifyJWT(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := SignJWT(Claims{Sub: "google:42"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-two")
	if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	token, err := SignJWT(Claims{Sub: "google:42", Exp: time.Now().UTC().Add(-time.Minute).Unix()})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	for _, token := range []string{"", "nope", "a.b", "a.b.c.d"} {
		if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: err = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestSignRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := SignJWT(Claims{Sub: "google:42"}); err == nil {
		t.Fatal("expected error without JWT_SECRET in production")
	}
}
