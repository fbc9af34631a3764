package auth

import (
	"testing"
	"time"

	"leadvoice/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		JWTIssuer:       "leadvoice",
		JWTAudience:     "leadvoice-api",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager init: %v", err)
	}
	return m
}

func TestIssueAndVerifyPair(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()

	pair, err := m.IssuePair(now, "user-1", "ada@example.com", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "ada@example.com" || claims.Role != "USER" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	refreshClaims, err := m.Verify(pair.RefreshToken, TokenTypeRefresh, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refreshClaims.Role != "" {
		t.Fatalf("refresh tokens must not carry a role, got %q", refreshClaims.Role)
	}
}

func TestVerify_RejectsWrongTokenType(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()
	pair, _ := m.IssuePair(now, "user-1", "a@b.c", "USER")

	if _, err := m.Verify(pair.RefreshToken, TokenTypeAccess, now); err == nil {
		t.Fatal("refresh token must not pass as access token")
	}
	if _, err := m.Verify(pair.AccessToken, TokenTypeRefresh, now); err == nil {
		t.Fatal("access token must not pass as refresh token")
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()
	pair, _ := m.IssuePair(now, "user-1", "a@b.c", "USER")

	if _, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(16*time.Minute)); err == nil {
		t.Fatal("expired access token must be rejected")
	}

	// Within leeway just past expiry is still accepted.
	if _, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(15*time.Minute+10*time.Second)); err != nil {
		t.Fatalf("token within clock-skew leeway rejected: %v", err)
	}
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	m := testManager(t)
	other, _ := NewManager(config.AuthConfig{JWTSecret: "different-secret"})
	now := time.Unix(1700000000, 0).UTC()

	pair, _ := other.IssuePair(now, "user-1", "a@b.c", "USER")
	if _, err := m.Verify(pair.AccessToken, TokenTypeAccess, now); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Fatal("valid password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("invalid password accepted")
	}
}
