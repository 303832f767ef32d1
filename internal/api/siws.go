package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/seeker-rps/api/internal/auth"
)

type ctxKey int

const identityKey ctxKey = iota

// SIWSAuth verifies the X-SIWS-Address / X-SIWS-Message / X-SIWS-Signature
// headers (message is base64 of the signed text) and stashes the verified
// pubkey in the request context.
func SIWSAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		address := r.Header.Get("X-SIWS-Address")
		messageB64 := r.Header.Get("X-SIWS-Message")
		signature := r.Header.Get("X-SIWS-Signature")

		var message string
		if messageB64 != "" {
			raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(messageB64))
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid siws message encoding")
				return
			}
			message = string(raw)
		}

		pubkey, err := auth.Verify(address, message, signature)
		if err != nil {
			slog.Warn("siws proof rejected", "error", err)
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, pubkey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom returns the verified caller pubkey set by SIWSAuth.
func identityFrom(ctx context.Context) (string, bool) {
	pubkey, ok := ctx.Value(identityKey).(string)

	return pubkey, ok
}
