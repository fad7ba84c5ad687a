// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session keys, join codes and slugs.

# Facilitator Keys

Facilitator keys use HMAC-SHA256 to create deterministic, verifiable keys:

	key := auth.GenerateFacilitatorKey(sessionID, salt)
	err := auth.ValidateFacilitatorKey(sessionID, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same session ID and salt always produce the same key. This allows
validation without storing the key anywhere. It guards session deletion.

# Join Codes

Participants join with a six-digit code:

	code, err := auth.GenerateJoinCode() // 100000-999999
	ok := auth.ValidJoinCode("123456")

# Slugs

SessionSlug builds the shareable lookup key from the team name and code:

	auth.SessionSlug("Platform Team", "123456") // "platform-team-123456"
	auth.SessionSlug("", "123456")              // "123456"
*/
package auth
