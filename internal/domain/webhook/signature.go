package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Provider-Signature"

// secretPrefix is stripped from configured secrets before use as HMAC key.
const secretPrefix = "whsec_"

// Verify reports whether signature authenticates body under secret.
// An empty secret disables verification and accepts every request.
func Verify(body []byte, signature, secret string) bool {
	if secret == "" {
		return true
	}
	if signature == "" {
		return false
	}

	got, err := base64.StdEncoding.Strict().DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, mac(body, secret))
}

// Sign returns the signature Verify expects for body under secret.
func Sign(body []byte, secret string) string {
	return base64.StdEncoding.EncodeToString(mac(body, secret))
}

func mac(body []byte, secret string) []byte {
	h := hmac.New(sha256.New, []byte(strings.TrimPrefix(secret, secretPrefix)))
	h.Write(body)
	return h.Sum(nil)
}
