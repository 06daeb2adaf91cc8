// Package cryptoutil provides cryptographic helpers for webhook authentication.
package cryptoutil

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignaturePrefix is the literal scheme prefix carried in the X-Signature header.
const SignaturePrefix = "sha256="

// Sign computes the signature header value for a raw payload:
// "sha256=" followed by the hex-encoded HMAC-SHA256 of the body.
func Sign(rawBody, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(rawBody)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature header against the raw request body.
// The header must use the "sha256=" scheme; any other scheme is rejected before
// a digest is computed. The digest comparison is length-checked and constant-time
// so the check leaks no information about where two signatures diverge.
//
// An empty secret is a configuration problem, not a verification outcome;
// callers are expected to handle that case before calling VerifySignature.
func VerifySignature(rawBody []byte, signatureHeader string, secret []byte) bool {
	if !strings.HasPrefix(signatureHeader, SignaturePrefix) {
		return false
	}
	provided := signatureHeader[len(SignaturePrefix):]

	mac := hmac.New(sha256.New, secret)
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if len(provided) != len(expected) {
		return false
	}
	return hmac.Equal([]byte(provided), []byte(expected))
}
