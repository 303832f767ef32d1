package api

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mr-tron/base58"
)

func signedHeaders(t *testing.T, message string) (address, messageB64, signature string) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	sig := ed25519.Sign(priv, []byte(message))

	return base58.Encode(pub),
		base64.StdEncoding.EncodeToString([]byte(message)),
		base58.Encode(sig)
}

func TestSIWSAuth_ValidProofExposesIdentity(t *testing.T) {
	t.Parallel()

	address, messageB64, signature := signedHeaders(t, "seeker-rps wants you to sign in")

	var seen string

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pubkey, ok := identityFrom(r.Context())
		if !ok {
			t.Errorf("identity missing from context")
		}

		seen = pubkey
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/games", nil)
	req.Header.Set("X-SIWS-Address", address)
	req.Header.Set("X-SIWS-Message", messageB64)
	req.Header.Set("X-SIWS-Signature", signature)

	rec := httptest.NewRecorder()
	SIWSAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if seen != address {
		t.Fatalf("identity = %q, want %q", seen, address)
	}
}

func TestSIWSAuth_Rejections(t *testing.T) {
	t.Parallel()

	address, messageB64, signature := signedHeaders(t, "sign in")
	otherAddress, _, _ := signedHeaders(t, "sign in")

	tests := []struct {
		name   string
		mutate func(h http.Header)
	}{
		{
			name:   "missing_headers",
			mutate: func(h http.Header) { h.Del("X-SIWS-Signature") },
		},
		{
			name:   "message_not_base64",
			mutate: func(h http.Header) { h.Set("X-SIWS-Message", "%%%not-base64%%%") },
		},
		{
			name:   "signature_from_other_key",
			mutate: func(h http.Header) { h.Set("X-SIWS-Address", otherAddress) },
		},
		{
			name: "tampered_message",
			mutate: func(h http.Header) {
				h.Set("X-SIWS-Message", base64.StdEncoding.EncodeToString([]byte("sign in as someone else")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Errorf("handler must not run on rejected proof")
			})

			req := httptest.NewRequest(http.MethodPost, "/games", nil)
			req.Header.Set("X-SIWS-Address", address)
			req.Header.Set("X-SIWS-Message", messageB64)
			req.Header.Set("X-SIWS-Signature", signature)
			tt.mutate(req.Header)

			rec := httptest.NewRecorder()
			SIWSAuth(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}

			var body map[string]string
			err := json.Unmarshal(rec.Body.Bytes(), &body)
			if err != nil {
				t.Fatalf("error body not JSON: %v", err)
			}

			if body["code"] != codeUnauthenticated {
				t.Fatalf("code = %q, want %q", body["code"], codeUnauthenticated)
			}
		})
	}
}
