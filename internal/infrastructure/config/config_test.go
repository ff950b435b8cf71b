package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.OAuth2.ClientID != "clientId" || cfg.OAuth2.ClientSecret != "clientSecret" {
		t.Errorf("OAuth2 defaults wrong: %+v", cfg.OAuth2)
	}
	if cfg.Auth.DefaultAuthority != "ROLE_USER" {
		t.Errorf("DefaultAuthority = %q, want ROLE_USER", cfg.Auth.DefaultAuthority)
	}
	if cfg.Auth.TestURLSentinel != "http://localhost/" {
		t.Errorf("TestURLSentinel = %q, want http://localhost/", cfg.Auth.TestURLSentinel)
	}
	if cfg.Auth.TokenTimeout != 10*time.Second {
		t.Errorf("TokenTimeout = %v, want 10s", cfg.Auth.TokenTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("OAUTH2_CLIENT_ID", "initiatives")
	t.Setenv("AUTH_DEFAULT_AUTHORITY", "ROLE_MEMBER")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.OAuth2.ClientID != "initiatives" {
		t.Errorf("ClientID = %q, want initiatives", cfg.OAuth2.ClientID)
	}
	if cfg.Auth.DefaultAuthority != "ROLE_MEMBER" {
		t.Errorf("DefaultAuthority = %q, want ROLE_MEMBER", cfg.Auth.DefaultAuthority)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
}
