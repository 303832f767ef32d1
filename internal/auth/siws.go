// Package auth verifies Sign-In With Solana (SIWS) proofs: a caller-asserted
// base58 pubkey, a signed message, and an ed25519 signature over it. The
// verified pubkey is the caller's identity for the rest of the request; it is
// never read from a request body.
package auth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

var ErrUnauthenticated = errors.New("unauthenticated")

const expirationPrefix = "Expiration Time:"

// Verify checks that signature is a valid ed25519 signature of message under
// the claimed address, and that any "Expiration Time:" line embedded in the
// message (SIWS format, RFC 3339) is still in the future. It returns the
// canonical base58 pubkey string.
func Verify(address, message, signature string) (string, error) {
	return verifyAt(time.Now(), address, message, signature)
}

func verifyAt(now time.Time, address, message, signature string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: missing siws address", ErrUnauthenticated)
	}
	if message == "" {
		return "", fmt.Errorf("%w: missing siws message", ErrUnauthenticated)
	}
	if strings.TrimSpace(signature) == "" {
		return "", fmt.Errorf("%w: missing siws signature", ErrUnauthenticated)
	}

	pubkey, err := base58.Decode(address)
	if err != nil || len(pubkey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: invalid siws address (not a base58 pubkey)", ErrUnauthenticated)
	}

	sig, err := base58.Decode(strings.TrimSpace(signature))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return "", fmt.Errorf("%w: invalid siws signature (not valid base58)", ErrUnauthenticated)
	}

	if !ed25519.Verify(ed25519.PublicKey(pubkey), []byte(message), sig) {
		return "", fmt.Errorf("%w: invalid siws signature", ErrUnauthenticated)
	}

	exp, ok, err := expirationTime(message)
	if err != nil {
		return "", fmt.Errorf("%w: malformed expiration time", ErrUnauthenticated)
	}
	if ok && !now.Before(exp) {
		return "", fmt.Errorf("%w: siws message expired", ErrUnauthenticated)
	}

	// Re-encode so the identity string is canonical regardless of how the
	// caller spelled the address.
	return base58.Encode(pubkey), nil
}

// expirationTime scans the message for an "Expiration Time: <RFC 3339>" line.
func expirationTime(message string) (time.Time, bool, error) {
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, expirationPrefix) {
			continue
		}

		raw := strings.TrimSpace(strings.TrimPrefix(line, expirationPrefix))

		exp, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parse expiration: %w", err)
		}

		return exp, true, nil
	}

	return time.Time{}, false, nil
}
