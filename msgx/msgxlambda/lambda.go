// Package msgxlambda serves a msgx receiver as an API Gateway proxy handler.
package msgxlambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/Abraxas-365/wacloud/errx/errxlambda"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx"
	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// NewHandler returns a handler answering GET with the subscription handshake
// and POST with delivery processing. Failures are rendered by errxlambda.
func NewHandler(receiver msgx.Receiver) errxlambda.HandlerFunc {
	return errxlambda.ErrorMiddleware(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		id := header(event, msgx.RequestIDHeader)
		if id == "" {
			id = event.RequestContext.RequestID
		}
		if id == "" {
			id = uuid.NewString()
		}
		log := logx.With("request_id", id)

		var out msgx.Outcome
		switch event.HTTPMethod {
		case http.MethodGet:
			q := event.QueryStringParameters
			out = msgx.Subscribe(receiver, q[msgx.QueryMode], q[msgx.QueryVerifyToken], q[msgx.QueryChallenge])
		case http.MethodPost:
			body, err := decodeBody(event)
			if err != nil {
				return events.APIGatewayProxyResponse{}, msgx.Registry.NewWithCause(msgx.ErrInvalidPayload, err).
					WithDetail("provider", receiver.GetProviderName())
			}
			if len(body) > msgx.MaxBodyBytes {
				return events.APIGatewayProxyResponse{}, msgx.Registry.NewWithMessage(msgx.ErrInvalidPayload, "payload too large").
					WithDetail("provider", receiver.GetProviderName())
			}
			out = msgx.Deliver(ctx, receiver, header(event, receiver.SignatureHeader()), body)
		default:
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusMethodNotAllowed,
				Headers:    map[string]string{"Allow": "GET, POST", msgx.RequestIDHeader: id},
			}, nil
		}

		if out.Err != nil {
			log.Warn("%s %s rejected: %v", event.HTTPMethod, event.Path, out.Err)
			resp := errxlambda.ToResponse(out.Err.WithHTTPStatus(out.Status))
			resp.Headers[msgx.RequestIDHeader] = id
			return resp, nil
		}
		log.Debug("%s %s accepted", event.HTTPMethod, event.Path)
		return events.APIGatewayProxyResponse{
			StatusCode: out.Status,
			Headers:    map[string]string{"Content-Type": "text/plain", msgx.RequestIDHeader: id},
			Body:       out.Body,
		}, nil
	})
}

func decodeBody(event events.APIGatewayProxyRequest) ([]byte, error) {
	if event.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(event.Body)
	}
	return []byte(event.Body), nil
}

// header looks name up case-insensitively; API Gateway keeps the client's casing
func header(event events.APIGatewayProxyRequest, name string) string {
	for k, v := range event.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	for k, v := range event.MultiValueHeaders {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
