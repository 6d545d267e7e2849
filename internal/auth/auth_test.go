package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMachineTokenFormat(t *testing.T) {
	gen := NewMachineTokenGenerator()

	token, hash, err := gen.GenerateMachineToken()
	if err != nil {
		t.Fatalf("GenerateMachineToken: %v", err)
	}
	if !strings.HasPrefix(token, "orc_") {
		t.Errorf("token %q lacks the orc_ prefix", token)
	}
	if !gen.ValidateTokenFormat(token) {
		t.Errorf("generated token %q fails its own format check", token)
	}
	if gen.HashToken(token) != hash {
		t.Error("hash of generated token does not match the returned hash")
	}
	if gen.ValidateTokenFormat("not-a-token") {
		t.Error("garbage passed the format check")
	}

	// Two tokens never collide.
	token2, _, err := gen.GenerateMachineToken()
	if err != nil {
		t.Fatalf("GenerateMachineToken: %v", err)
	}
	if token == token2 {
		t.Error("two generated tokens are identical")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	h := NewJWTHandler("test-secret", time.Minute)

	id := uuid.New()
	signed, err := h.GenerateAccessToken(id, "station-1", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := h.ValidateAccessToken(signed)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.TokenID != id || claims.Name != "station-1" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}

	// A token signed with a different key never validates.
	other := NewJWTHandler("other-secret", time.Minute)
	if _, err := other.ValidateAccessToken(signed); err == nil {
		t.Error("token accepted under the wrong key")
	}
}

func TestJWTExpiry(t *testing.T) {
	h := NewJWTHandler("test-secret", -time.Minute)

	signed, err := h.GenerateAccessToken(uuid.New(), "x", "operator")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := h.ValidateAccessToken(signed); err == nil {
		t.Error("expired token accepted")
	}
}

func TestSecretHasherRoundTrip(t *testing.T) {
	sh := NewSecretHasher()

	encoded, err := sh.HashSecret("correct horse")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}

	ok, err := sh.VerifySecret("correct horse", encoded)
	if err != nil || !ok {
		t.Fatalf("VerifySecret = %v, %v; want true, nil", ok, err)
	}
	ok, err = sh.VerifySecret("wrong", encoded)
	if err != nil || ok {
		t.Fatalf("VerifySecret(wrong) = %v, %v; want false, nil", ok, err)
	}
	if _, err := sh.VerifySecret("x", "garbage"); err == nil {
		t.Error("malformed hash accepted")
	}
}

func TestPermissionsToRole(t *testing.T) {
	if r := permissionsToRole([]Permission{PermOperator, PermAdmin}); r != "admin" {
		t.Errorf("role = %q, want admin", r)
	}
	if r := permissionsToRole([]Permission{PermOperator}); r != "operator" {
		t.Errorf("role = %q, want operator", r)
	}
}
