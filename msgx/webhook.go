package msgx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Abraxas-365/wacloud/logx"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader carries the delivery id assigned to every webhook request
const RequestIDHeader = "X-Request-ID"

// MaxBodyBytes caps the size of a webhook delivery
const MaxBodyBytes = 1 << 20

// WebhookServer routes webhook endpoints to receivers
type WebhookServer struct {
	router *mux.Router
	port   int
	server *http.Server
}

// NewWebhookServer creates a new webhook server listening on port
func NewWebhookServer(port int) *WebhookServer {
	router := mux.NewRouter()
	router.Use(requestID)
	return &WebhookServer{router: router, port: port}
}

// RegisterProvider mounts receiver on path for GET (handshake) and POST (deliveries)
func (ws *WebhookServer) RegisterProvider(path string, receiver Receiver) {
	path = NormalizePath(path)
	ws.router.HandleFunc(path, ws.handleSubscribe(receiver)).Methods(http.MethodGet)
	ws.router.HandleFunc(path, ws.handleDelivery(receiver)).Methods(http.MethodPost)
	logx.Info("Registered %s webhook on %s", receiver.GetProviderName(), path)
}

// HandleFunc mounts an extra route, e.g. a health check
func (ws *WebhookServer) HandleFunc(path string, h http.HandlerFunc, methods ...string) {
	r := ws.router.HandleFunc(path, h)
	if len(methods) > 0 {
		r.Methods(methods...)
	}
}

// Handler returns the router, e.g. for httptest
func (ws *WebhookServer) Handler() http.Handler {
	return ws.router
}

func (ws *WebhookServer) handleSubscribe(receiver Receiver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		write(w, r, Subscribe(receiver, q.Get(QueryMode), q.Get(QueryVerifyToken), q.Get(QueryChallenge)))
	}
}

func (ws *WebhookServer) handleDelivery(receiver Receiver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			Registry.NewWithCause(ErrInvalidPayload, err).
				WithDetail("provider", receiver.GetProviderName()).
				ToHTTP(w)
			return
		}
		signature := r.Header.Get(receiver.SignatureHeader())
		write(w, r, Deliver(r.Context(), receiver, signature, body))
	}
}

func write(w http.ResponseWriter, r *http.Request, out Outcome) {
	log := logx.With("request_id", w.Header().Get(RequestIDHeader))
	if out.Err != nil {
		log.Warn("%s %s rejected: %v", r.Method, r.URL.Path, out.Err)
		out.Err.WithHTTPStatus(out.Status).ToHTTP(w)
		return
	}
	log.Debug("%s %s accepted", r.Method, r.URL.Path)
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(out.Status)
	io.WriteString(w, out.Body)
}

// requestID assigns a delivery id, keeping one supplied by an upstream proxy
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// Start starts the webhook server and blocks until it stops
func (ws *WebhookServer) Start() error {
	ws.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", ws.port),
		Handler:           ws.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logx.Info("Webhook server listening on :%d", ws.port)

	if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the webhook server
func (ws *WebhookServer) Stop(ctx context.Context) error {
	if ws.server == nil {
		return nil
	}
	return ws.server.Shutdown(ctx)
}
