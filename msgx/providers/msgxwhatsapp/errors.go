package msgxwhatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Abraxas-365/wacloud/errx"
)

// Codes for failures that do not come from the Graph API
const (
	CodeNetworkError errx.Code = "NETWORK_ERROR"
	CodeUnknownError errx.Code = "UNKNOWN_ERROR"
)

const (
	msgUnknownAPIError = "Unknown WhatsApp API error"
	msgNoResponse      = "No response received from WhatsApp API"
	msgUnknownError    = "Unknown error occurred"
)

// failure is everything known about a request that did not succeed
type failure struct {
	// Status and Body are set when an HTTP response was received
	Status int
	Body   []byte
	// Request is set once the request was built
	Request *http.Request
	Err     error
}

type graphErrorResponse struct {
	Error *graphError `json:"error"`
}

type graphError struct {
	Message      string          `json:"message"`
	Type         string          `json:"type"`
	Code         json.RawMessage `json:"code"`
	ErrorSubcode int             `json:"error_subcode,omitempty"`
	FbtraceID    string          `json:"fbtrace_id,omitempty"`
	ErrorData    any             `json:"error_data,omitempty"`
	Details      any             `json:"details,omitempty"`
}

// mapFailure turns f into the single error shape returned to callers. A
// received response wins over a transport error, which wins over anything
// else. It never returns nil.
func mapFailure(f failure) *errx.Error {
	switch {
	case f.Status != 0:
		return apiError(f.Status, f.Body)
	case f.Request != nil && f.Err != nil:
		return errx.NewWithCode(CodeNetworkError, msgNoResponse, errx.TypeUnavailable).
			WithDetail("request", f.Request.Method+" "+f.Request.URL.String()).
			WithCause(f.Err)
	default:
		msg := msgUnknownError
		if f.Err != nil && f.Err.Error() != "" {
			msg = f.Err.Error()
		}
		return errx.NewWithCode(CodeUnknownError, msg, errx.TypeInternal).WithCause(f.Err)
	}
}

// notDispatched reports a request whose context ended before it was sent.
// Nothing reached the network, so it is not a NETWORK_ERROR.
func notDispatched(req *http.Request) *errx.Error {
	if err := req.Context().Err(); err != nil {
		return mapFailure(failure{Err: fmt.Errorf("request not sent: %w", err)})
	}
	return nil
}

// apiError reads the nested "error" object of a Graph API error response
func apiError(status int, body []byte) *errx.Error {
	var resp graphErrorResponse
	_ = json.Unmarshal(body, &resp)

	ge := resp.Error
	if ge == nil {
		ge = &graphError{}
	}

	msg := ge.Message
	if msg == "" {
		msg = msgUnknownAPIError
	}

	xerr := errx.NewWithCode(errx.Code(decodeCode(ge.Code)), msg, errx.TypeExternal).
		WithHTTPStatus(status)

	switch {
	case ge.ErrorData != nil:
		xerr.Details = asDetails(ge.ErrorData)
	case ge.Details != nil:
		xerr.Details = asDetails(ge.Details)
	}
	if ge.FbtraceID != "" {
		xerr.WithDetail("fbtrace_id", ge.FbtraceID)
	}
	return xerr
}

// decodeCode accepts the remote code as a JSON number or string
func decodeCode(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func asDetails(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"details": v}
}

// httpStatusError is used by the media resolver, whose failures carry the
// HTTP status as the code.
func httpStatusError(status int, body []byte) *errx.Error {
	var resp graphErrorResponse
	_ = json.Unmarshal(body, &resp)

	msg := fmt.Sprintf("Request failed with status code %d", status)
	if resp.Error != nil && resp.Error.Message != "" {
		msg = resp.Error.Message
	}
	return errx.NewWithCode(errx.Code(strconv.Itoa(status)), msg, errx.TypeExternal).
		WithHTTPStatus(status)
}
