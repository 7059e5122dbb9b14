package auth

import (
	"testing"
	"time"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "credit-gateway",
		Expiration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)
	roles := []string{RoleAdmin, RoleOperator}

	tokenString, err := svc.GenerateToken("user-001", roles)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if tokenString == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	claims, err := svc.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.UserID != "user-001" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-001")
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("Roles length = %d, want 2", len(claims.Roles))
	}
	if !claims.HasRole(RoleAdmin) || !claims.HasRole(RoleOperator) {
		t.Errorf("Roles = %v, want admin and operator", claims.Roles)
	}
	if claims.Issuer != "credit-gateway" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "credit-gateway")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "credit-gateway",
		Expiration: -1 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	token, err := svc.GenerateToken("user-001", []string{RoleAPIClient})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("expected error validating expired token")
	}
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	minting, err := NewJWTService(JWTConfig{
		Secret:     "shared-secret",
		Issuer:     "some-other-issuer",
		Expiration: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	token, err := minting.GenerateToken("user-002", nil)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	validating, err := NewJWTService(JWTConfig{
		Secret: "shared-secret",
		Issuer: "credit-gateway",
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	if _, err := validating.ValidateToken(token); err == nil {
		t.Error("expected error for mismatched issuer")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestJWTService(t)

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestNewJWTService_NoKeyMaterial(t *testing.T) {
	if _, err := NewJWTService(JWTConfig{Issuer: "credit-gateway"}); err == nil {
		t.Error("expected error when neither secret nor public key is configured")
	}
}
