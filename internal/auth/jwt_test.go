package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("test-secret", "frontier-hub", 10*time.Minute, Claims{
		UserID: "user-1",
		Rank:   "voyager",
	})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	claims, err := ParseToken("test-secret", "frontier-hub", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %s", claims.UserID)
	}
	if claims.Rank != "voyager" {
		t.Fatalf("expected voyager, got %s", claims.Rank)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAccessToken("test-secret", "frontier-hub", 10*time.Minute, Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := ParseToken("other-secret", "frontier-hub", token); err == nil {
		t.Fatalf("expected wrong-secret token to be rejected")
	}
}

func TestTokenRejectsWrongIssuer(t *testing.T) {
	token, err := NewAccessToken("test-secret", "someone-else", 10*time.Minute, Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := ParseToken("test-secret", "frontier-hub", token); err == nil {
		t.Fatalf("expected wrong-issuer token to be rejected")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := NewAccessToken("test-secret", "frontier-hub", -time.Minute, Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := ParseToken("test-secret", "frontier-hub", token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}
