package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	clientID := "client-123"

	tok, err := GenerateToken(clientID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := GetClientIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetClientIDFromToken error: %v", err)
	}
	if got != clientID {
		t.Fatalf("clientID mismatch: got %q want %q", got, clientID)
	}
}

func TestGetClientIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("c1", []byte("secret"), -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err = GetClientIDFromToken(tok, []byte("secret")); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestGetClientIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("c2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err = GetClientIDFromToken(tok, []byte("wrong-secret")); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestGetClientIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	if _, err := GetClientIDFromToken("not.a.jwt", []byte("k")); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
