package msgx

import (
	"net/http"

	"github.com/Abraxas-365/wacloud/errx"
)

var Registry = errx.NewRegistry("MESSAGING")

// Error codes for messaging operations
var (
	ErrInvalidMessage = Registry.Register(
		"INVALID_MESSAGE",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Invalid message format or content",
	)

	ErrInvalidPayload = Registry.Register(
		"INVALID_PAYLOAD",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Invalid webhook payload",
	)

	ErrWebhookVerificationFailed = Registry.Register(
		"WEBHOOK_VERIFICATION_FAILED",
		errx.TypeAuthorization,
		http.StatusForbidden,
		"Webhook verification failed",
	)

	ErrInvalidSignature = Registry.Register(
		"INVALID_SIGNATURE",
		errx.TypeAuthorization,
		http.StatusUnauthorized,
		"Webhook signature is missing or invalid",
	)

	ErrHandlerFailed = Registry.Register(
		"HANDLER_FAILED",
		errx.TypeInternal,
		http.StatusInternalServerError,
		"Notification handler failed",
	)

	ErrProviderConfigInvalid = Registry.Register(
		"PROVIDER_CONFIG_INVALID",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Invalid provider configuration",
	)

	ErrMediaStoreFailed = Registry.Register(
		"MEDIA_STORE_FAILED",
		errx.TypeSystem,
		http.StatusInternalServerError,
		"Failed to store downloaded media",
	)
)
