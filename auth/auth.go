// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var (
	ErrInvalidFacilitatorKey = errors.New("invalid facilitator key")
	ErrInvalidJoinCode       = errors.New("join code must be 6 digits")
)

const (
	JoinCodeLen = 6
	maxTeamSlug = 40
)

var (
	joinCodePattern = regexp.MustCompile(`^\d{6}$`)
	whitespace      = regexp.MustCompile(`\s+`)
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]`)
)

// GenerateFacilitatorKey creates an HMAC-based key for managing a session
// This is deterministic and verifiable
func GenerateFacilitatorKey(sessionID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(sessionID))
	sum := h.Sum(nil)

	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateFacilitatorKey checks if the provided key is valid for the session
func ValidateFacilitatorKey(sessionID, key, salt string) error {
	expected := GenerateFacilitatorKey(sessionID, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidFacilitatorKey
	}
	return nil
}

// GenerateJoinCode returns a random 6-digit code in 100000-999999
func GenerateJoinCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	return fmt.Sprintf("%d", 100000+n.Int64()), nil
}

// ValidJoinCode reports whether code is exactly six digits
func ValidJoinCode(code string) bool {
	return joinCodePattern.MatchString(code)
}

// SlugifyTeam lowercases a team name, joins words with hyphens and drops
// anything outside [a-z0-9-]
func SlugifyTeam(team string) string {
	s := strings.ToLower(strings.TrimSpace(team))
	s = whitespace.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	if len(s) > maxTeamSlug {
		s = s[:maxTeamSlug]
	}
	return s
}

// SessionSlug is the human-friendly lookup key: "<team-slug>-<code>", or
// just the code when the team name has no usable characters
func SessionSlug(teamName, code string) string {
	if team := SlugifyTeam(teamName); team != "" {
		return team + "-" + code
	}
	return code
}
