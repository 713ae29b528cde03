/*
Package errx provides the structured error type shared by every package in this
module. Errors carry a code, a type, a message, optional details and the HTTP
status that best describes them.

# Basic Usage

	err := errx.New("media id or link required", errx.TypeValidation)

	if errx.IsType(err, errx.TypeValidation) {
		// caller supplied a bad combination of fields
	}

# Error Registry

Library-defined failures are registered once with a prefix:

	var Registry = errx.NewRegistry("MESSAGING")

	var ErrInvalidMessage = Registry.Register(
		"INVALID_MESSAGE", errx.TypeValidation, http.StatusBadRequest, "Invalid message")

	err := Registry.NewWithMessage(ErrInvalidMessage, "image id or link required")

# Remote Codes

Errors reported by the Graph API keep the remote code verbatim:

	err := errx.NewWithCode("131030", "Recipient phone number not in allowed list", errx.TypeExternal).
		WithHTTPStatus(http.StatusBadRequest)

# Branching

	switch {
	case errx.IsType(err, errx.TypeUnavailable):
		// no response was received, safe to retry later
	case errx.IsType(err, errx.TypeValidation):
		// permanent, fix the input
	}

Framework adapters live in errxfiber, errxlambda and errxcobra.
*/
package errx
