package jwt

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	Setup("test-secret", false)

	cookie, err := CreateToken(42)
	if err != nil {
		t.Fatal(err)
	}
	if cookie.Name != "JWT" || cookie.Value == "" {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}

	token, err := VerifyToken(cookie.Value)
	if err != nil {
		t.Fatal(err)
	}
	if token.UserID != 42 {
		t.Errorf("token user ID = %d, want 42", token.UserID)
	}
	if !token.ExpiresAt.After(time.Now()) {
		t.Error("fresh token is already expired")
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	Setup("test-secret", false)

	if _, err := VerifyToken("not-a-token"); err == nil {
		t.Error("garbage token verified")
	}
}
