// Package msgxwhatsapp is a client for the WhatsApp Business Platform Cloud API.
//
// Sending:
//
//	client, err := msgxwhatsapp.NewClient(msgxwhatsapp.Config{
//		AccessToken:   token,
//		PhoneNumberID: numberID,
//	})
//	resp, err := client.SendText(ctx, "15551234567", "Hello", msgxwhatsapp.WithPreviewURL())
//
// Every call issues exactly one request (two for media downloads) and never
// retries. Failures are *errx.Error values:
//
//	errx.IsType(err, errx.TypeValidation)  // rejected before sending
//	errx.IsType(err, errx.TypeExternal)    // Graph API error, Code is the remote code
//	errx.IsCode(err, msgxwhatsapp.CodeNetworkError)  // no response
//	errx.IsCode(err, msgxwhatsapp.CodeUnknownError)  // anything else
//
// Receiving:
//
//	result, err := msgxwhatsapp.HandleWebhook(body)
//	for _, m := range result.Messages {
//		if text, ok := m.Content.(*msgxwhatsapp.InboundText); ok {
//			...
//		}
//	}
//
// WebhookReceiver plugs the handshake, signature check and normalizer into
// the msgx webhook front ends.
package msgxwhatsapp
