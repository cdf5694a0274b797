package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret"

func TestGuestTokenRoundTrip(t *testing.T) {
    raw, err := NewGuestToken(testSecret, "guest@example.com")
    if err != nil {
        t.Fatalf("mint failed: %v", err)
    }
    claims, err := ParseGuestToken(testSecret, raw)
    if err != nil {
        t.Fatalf("parse failed: %v", err)
    }
    if claims.Email != "guest@example.com" {
        t.Errorf("expected email %q, got %q", "guest@example.com", claims.Email)
    }
}

func TestGuestTokenWrongSecret(t *testing.T) {
    raw, err := NewGuestToken(testSecret, "guest@example.com")
    if err != nil {
        t.Fatalf("mint failed: %v", err)
    }
    if _, err := ParseGuestToken("other-secret", raw); err != ErrInvalidGuestToken {
        t.Errorf("expected ErrInvalidGuestToken, got %v", err)
    }
}

func TestGuestTokenExpired(t *testing.T) {
    claims := jwt.MapClaims{
        "email": "guest@example.com",
        "exp":   time.Now().UTC().Add(-time.Hour).Unix(),
        "iat":   time.Now().UTC().Add(-25 * time.Hour).Unix(),
    }
    raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    if err != nil {
        t.Fatalf("sign failed: %v", err)
    }
    if _, err := ParseGuestToken(testSecret, raw); err != ErrInvalidGuestToken {
        t.Errorf("expected ErrInvalidGuestToken for expired token, got %v", err)
    }
}

func TestGuestTokenGarbage(t *testing.T) {
    if _, err := ParseGuestToken(testSecret, "not-a-token"); err != ErrInvalidGuestToken {
        t.Errorf("expected ErrInvalidGuestToken for garbage, got %v", err)
    }
}

func TestGuestTokenNoIdentityClaim(t *testing.T) {
    claims := jwt.MapClaims{
        "exp": time.Now().UTC().Add(time.Hour).Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    if err != nil {
        t.Fatalf("sign failed: %v", err)
    }
    if _, err := ParseGuestToken(testSecret, raw); err != ErrInvalidGuestToken {
        t.Errorf("expected ErrInvalidGuestToken without identity claims, got %v", err)
    }
}
