// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateFacilitatorKey(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		salt      string
	}{
		{"standard", "session123", "secret-salt"},
		{"empty session id", "", "salt"},
		{"empty salt", "session456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateFacilitatorKey(tt.sessionID, tt.salt)

			if key == "" {
				t.Error("GenerateFacilitatorKey() returned empty string")
			}

			// Should be deterministic
			if key2 := GenerateFacilitatorKey(tt.sessionID, tt.salt); key != key2 {
				t.Error("GenerateFacilitatorKey() is not deterministic")
			}

			if tt.sessionID != "" && tt.salt != "" {
				if GenerateFacilitatorKey(tt.sessionID+"x", tt.salt) == key {
					t.Error("GenerateFacilitatorKey() produced same key for different session IDs")
				}
			}

			if strings.Contains(key, "=") {
				t.Error("GenerateFacilitatorKey() contains padding characters")
			}
		})
	}
}

func TestValidateFacilitatorKey(t *testing.T) {
	sessionID := "test-session-123"
	salt := "test-salt"
	validKey := GenerateFacilitatorKey(sessionID, salt)

	tests := []struct {
		name      string
		sessionID string
		key       string
		salt      string
		wantErr   bool
	}{
		{"valid key", sessionID, validKey, salt, false},
		{"wrong key", sessionID, "wrong-key", salt, true},
		{"wrong session id", "different-session", validKey, salt, true},
		{"wrong salt", sessionID, validKey, "different-salt", true},
		{"empty key", sessionID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFacilitatorKey(tt.sessionID, tt.key, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFacilitatorKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidFacilitatorKey {
				t.Errorf("ValidateFacilitatorKey() error = %v, want %v", err, ErrInvalidFacilitatorKey)
			}
		})
	}
}

func TestGenerateJoinCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateJoinCode()
		if err != nil {
			t.Fatalf("GenerateJoinCode() error = %v", err)
		}
		if !ValidJoinCode(code) {
			t.Fatalf("GenerateJoinCode() = %q, not 6 digits", code)
		}
		if code[0] == '0' {
			t.Fatalf("GenerateJoinCode() = %q, has leading zero", code)
		}
	}
}

func TestValidJoinCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"123456", true},
		{"012345", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"", false},
		{" 123456", false},
	}
	for _, tt := range tests {
		if got := ValidJoinCode(tt.code); got != tt.want {
			t.Errorf("ValidJoinCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestSessionSlug(t *testing.T) {
	tests := []struct {
		name string
		team string
		code string
		want string
	}{
		{"no team", "", "123456", "123456"},
		{"simple", "Core", "123456", "core-123456"},
		{"spaces collapse", "  Platform   Team ", "654321", "platform-team-654321"},
		{"punctuation dropped", "R&D / Ops!", "111111", "rd--ops-111111"},
		{"only symbols", "!!!", "222222", "222222"},
		{"long name capped", strings.Repeat("a", 60), "333333", strings.Repeat("a", 40) + "-333333"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionSlug(tt.team, tt.code); got != tt.want {
				t.Errorf("SessionSlug(%q, %q) = %q, want %q", tt.team, tt.code, got, tt.want)
			}
		})
	}
}
