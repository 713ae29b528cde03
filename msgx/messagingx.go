package msgx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abraxas-365/wacloud/errx"
)

// Receiver is a provider that accepts webhook subscriptions and deliveries.
// Front ends (WebhookServer, msgxfiber, msgxlambda) translate HTTP requests
// into these calls.
type Receiver interface {
	// GetProviderName returns the provider name
	GetProviderName() string

	// VerifySubscription answers the subscription handshake. It returns the
	// challenge to echo and true when the handshake is accepted.
	VerifySubscription(mode, token, challenge string) (string, bool)

	// VerifySignature checks the signature header sent with a delivery
	VerifySignature(signature string, body []byte) error

	// HandleNotification parses and dispatches one delivery
	HandleNotification(ctx context.Context, body []byte) error

	// SignatureHeader names the header VerifySignature expects
	SignatureHeader() string
}

// Query parameter names used by the subscription handshake
const (
	QueryMode        = "hub.mode"
	QueryVerifyToken = "hub.verify_token"
	QueryChallenge   = "hub.challenge"
)

// AckBody is written for every accepted delivery
const AckBody = "EVENT_RECEIVED"

// Outcome is the HTTP answer a front end should give
type Outcome struct {
	Status int
	Body   string
	Err    *errx.Error
}

// Subscribe runs the handshake for a receiver. Rejections answer 403.
func Subscribe(r Receiver, mode, token, challenge string) Outcome {
	if echo, ok := r.VerifySubscription(mode, token, challenge); ok {
		return Outcome{Status: http.StatusOK, Body: echo}
	}
	return Outcome{
		Status: http.StatusForbidden,
		Err: Registry.New(ErrWebhookVerificationFailed).
			WithDetail("provider", r.GetProviderName()),
	}
}

// Deliver checks the signature and hands the body to the receiver. Bad
// signatures answer 401, invalid payloads 400, other failures the status
// carried by the error.
func Deliver(ctx context.Context, r Receiver, signature string, body []byte) Outcome {
	if err := r.VerifySignature(signature, body); err != nil {
		return failure(r, ErrInvalidSignature, err)
	}
	if err := r.HandleNotification(ctx, body); err != nil {
		var xerr *errx.Error
		if errors.As(err, &xerr) {
			return Outcome{Status: xerr.StatusOrDefault(), Err: xerr}
		}
		return failure(r, ErrHandlerFailed, err)
	}
	return Outcome{Status: http.StatusOK, Body: AckBody}
}

func failure(r Receiver, code errx.Code, cause error) Outcome {
	xerr := Registry.NewWithCause(code, cause).WithDetail("provider", r.GetProviderName())
	if inner, ok := errx.As(cause); ok {
		xerr.Message = inner.Message
	}
	return Outcome{Status: xerr.StatusOrDefault(), Err: xerr}
}

// NormalizePath ensures p starts with "/" and has no trailing slash
func NormalizePath(p string) string {
	p = "/" + strings.Trim(p, "/")
	return p
}
