package errxlambda

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/aws/aws-lambda-go/events"
)

func TestErrorMiddlewareConvertsErrors(t *testing.T) {
	handler := ErrorMiddleware(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, errx.New("payload must be an object", errx.TypeValidation).
			WithHTTPStatus(http.StatusBadRequest)
	})

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "POST", Path: "/webhook"})
	if err != nil {
		t.Fatalf("middleware must swallow errors, got %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, "payload must be an object") {
		t.Fatalf("unexpected body %s", resp.Body)
	}
}

func TestErrorMiddlewarePlainError(t *testing.T) {
	handler := ErrorMiddleware(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, errors.New("boom")
	})

	resp, _ := handler(context.Background(), events.APIGatewayProxyRequest{})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, "INTERNAL_ERROR") {
		t.Fatalf("unexpected body %s", resp.Body)
	}
}

func TestErrorMiddlewarePassesThrough(t *testing.T) {
	handler := ErrorMiddleware(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "EVENT_RECEIVED"}, nil
	})

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{})
	if err != nil || resp.Body != "EVENT_RECEIVED" {
		t.Fatalf("unexpected passthrough: %+v %v", resp, err)
	}
}
