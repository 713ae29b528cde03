package errxlambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/aws/aws-lambda-go/events"
)

// HandlerFunc is an API Gateway proxy handler that may return an errx.Error
type HandlerFunc func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// ErrorMiddleware wraps a handler so returned errors become JSON responses
// instead of Lambda invocation failures.
func ErrorMiddleware(handler HandlerFunc) HandlerFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		response, err := handler(ctx, event)
		if err == nil {
			return response, nil
		}

		logx.Warn("lambda %s %s failed: %v", event.HTTPMethod, event.Path, err)

		var xerr *errx.Error
		if errors.As(err, &xerr) {
			return ToResponse(xerr), nil
		}
		return ToResponse(&errx.Error{
			Code:       "INTERNAL_ERROR",
			Type:       errx.TypeInternal,
			Message:    err.Error(),
			HTTPStatus: http.StatusInternalServerError,
		}), nil
	}
}

// ToResponse converts an errx.Error to an API Gateway proxy response
func ToResponse(e *errx.Error) events.APIGatewayProxyResponse {
	payload := map[string]any{
		"code":    e.Code,
		"type":    e.Type,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		payload["details"] = e.Details
	}

	body, err := json.Marshal(map[string]any{"error": payload})
	if err != nil {
		logx.Error("failed to marshal error response: %v", err)
		body = []byte(`{"error":{"code":"INTERNAL_ERROR","type":"INTERNAL","message":"An unexpected error occurred"}}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: e.StatusOrDefault(),
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
