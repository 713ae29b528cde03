package msgxwhatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/Abraxas-365/wacloud/msgx"
)

// SignatureHeader carries the HMAC-SHA256 of a delivery body keyed by the app secret
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// Sign returns the X-Hub-Signature-256 value for body
func Sign(appSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against body. The "sha256=" prefix is
// optional.
func VerifySignature(appSecret, signature string, body []byte) error {
	if signature == "" {
		return msgx.Registry.NewWithMessage(msgx.ErrInvalidSignature, "missing signature header").
			WithDetail("provider", providerName)
	}

	got := strings.ToLower(strings.TrimPrefix(signature, signaturePrefix))
	want := strings.TrimPrefix(Sign(appSecret, body), signaturePrefix)
	if !hmac.Equal([]byte(got), []byte(want)) {
		return msgx.Registry.NewWithMessage(msgx.ErrInvalidSignature, "signature mismatch").
			WithDetail("provider", providerName).
			WithDetail("body_length", len(body))
	}
	return nil
}
