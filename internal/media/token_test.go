package media

import (
	"testing"
	"time"
)

func TestRoomTokenGrant(t *testing.T) {
	signer, err := NewTokenSigner("key-1", "secret-1", time.Hour)
	if err != nil {
		t.Fatalf("signer error: %v", err)
	}
	token, err := signer.RoomToken("user-1", "Cadet One", "simpod-abc", true, true)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	claims, err := parseRoomToken("secret-1", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected identity user-1, got %s", claims.Subject)
	}
	if claims.Issuer != "key-1" {
		t.Fatalf("expected issuer key-1, got %s", claims.Issuer)
	}
	if claims.Video.Room != "simpod-abc" || !claims.Video.RoomJoin {
		t.Fatalf("expected join grant scoped to simpod-abc, got %+v", claims.Video)
	}
	if claims.Video.CanPublish == nil || !*claims.Video.CanPublish {
		t.Fatalf("expected publish grant")
	}
	if claims.Video.CanSubscribe == nil || !*claims.Video.CanSubscribe {
		t.Fatalf("expected subscribe grant")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry")
	}
}

func TestRoomTokenWithheldPublish(t *testing.T) {
	signer, err := NewTokenSigner("key-1", "secret-1", time.Hour)
	if err != nil {
		t.Fatalf("signer error: %v", err)
	}
	token, err := signer.RoomToken("user-1", "", "simpod-abc", false, true)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	claims, err := parseRoomToken("secret-1", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.Video.CanPublish == nil || *claims.Video.CanPublish {
		t.Fatalf("expected publish explicitly withheld")
	}
}

func TestRoomTokenValidation(t *testing.T) {
	if _, err := NewTokenSigner("", "secret", time.Hour); err == nil {
		t.Fatalf("expected missing key to error")
	}
	signer, err := NewTokenSigner("key-1", "secret-1", time.Hour)
	if err != nil {
		t.Fatalf("signer error: %v", err)
	}
	if _, err := signer.RoomToken("", "", "simpod-abc", true, true); err == nil {
		t.Fatalf("expected missing identity to error")
	}
	if _, err := signer.RoomToken("user-1", "", "", true, true); err == nil {
		t.Fatalf("expected missing room to error")
	}

	token, err := signer.RoomToken("user-1", "", "simpod-abc", true, true)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := parseRoomToken("wrong-secret", token); err == nil {
		t.Fatalf("expected wrong secret to be rejected")
	}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"participant_joined","room":{"name":"simpod-abc"}}`)
	signature := SignBody("hook-secret", body)

	if !VerifySignature("hook-secret", body, signature) {
		t.Fatalf("expected valid signature to verify")
	}
	if !VerifySignature("hook-secret", body, " "+signature+" ") {
		t.Fatalf("expected trimmed signature to verify")
	}
	if VerifySignature("hook-secret", body, "") {
		t.Fatalf("expected empty signature to fail")
	}
	if VerifySignature("hook-secret", body, "not-hex") {
		t.Fatalf("expected malformed signature to fail")
	}
	if VerifySignature("other-secret", body, signature) {
		t.Fatalf("expected wrong secret to fail")
	}
	if VerifySignature("hook-secret", []byte(`{"event":"tampered"}`), signature) {
		t.Fatalf("expected tampered body to fail")
	}
}
