package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/wacloud/configx"
	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx"
	"github.com/Abraxas-365/wacloud/msgx/msgxfiber"
	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

const (
	engineMux   = "mux"
	engineFiber = "fiber"
)

type serveFlags struct {
	engine    string
	path      string
	reply     bool
	saveMedia bool
}

func newServeCmd(env *environment) *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the webhook endpoint",
		RunE: env.cli.Wrap(func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), env, flags)
		}),
	}
	cmd.Flags().StringVar(&flags.engine, "engine", engineMux, "HTTP engine: mux or fiber")
	cmd.Flags().StringVar(&flags.path, "path", "/webhook/whatsapp", "webhook path")
	cmd.Flags().BoolVar(&flags.reply, "reply", true, "answer inbound messages (needs WHATSAPP_TOKEN and WHATSAPP_NUMBER_ID)")
	cmd.Flags().BoolVar(&flags.saveMedia, "save-media", false, "store inbound media in the media store")
	return cmd
}

func serve(ctx context.Context, env *environment, flags serveFlags) error {
	cfg, err := env.config()
	if err != nil {
		return err
	}
	rc := receiverConfig(cfg)
	if rc.VerifyToken == "" {
		return configx.Invalid(keyVerifyToken, EnvPrefix+"VERIFY_TOKEN is required to serve webhooks")
	}

	handler, err := notificationHandler(ctx, env, flags)
	if err != nil {
		return err
	}
	receiver := msgxwhatsapp.NewWebhookReceiver(rc, handler)
	port := cfg.Get(keyPort).AsInt()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch flags.engine {
	case engineMux:
		return serveMux(ctx, port, flags.path, receiver)
	case engineFiber:
		return serveFiber(ctx, port, flags.path, receiver)
	}
	return errx.New("engine must be mux or fiber", errx.TypeValidation).WithDetail("engine", flags.engine)
}

// notificationHandler replies through the bot when credentials are present
// and only logs deliveries otherwise
func notificationHandler(ctx context.Context, env *environment, flags serveFlags) (msgxwhatsapp.NotificationHandler, error) {
	if !flags.reply {
		return logOnly, nil
	}
	client, err := env.client()
	if err != nil {
		logx.Warn("Replies disabled: %v", err)
		return logOnly, nil
	}

	var store fsx.FileSystem
	if flags.saveMedia {
		cfg, _ := env.config()
		if store, _, err = mediaStore(ctx, cfg); err != nil {
			return nil, err
		}
	}
	return NewMessageProcessor(client, store).Handler(), nil
}

func logOnly(_ context.Context, result *msgxwhatsapp.WebhookResult) error {
	for _, m := range result.Messages {
		logx.Info("Message %s from %s (%s)", m.ID, m.From, m.Type)
	}
	for _, s := range result.Statuses {
		logx.Info("Status %s for %s", s.Status, s.ID)
	}
	return nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func serveMux(ctx context.Context, port int, path string, receiver msgx.Receiver) error {
	ws := msgx.NewWebhookServer(port)
	ws.RegisterProvider(path, receiver)
	ws.HandleFunc("/health", health, http.MethodGet)

	errCh := make(chan error, 1)
	go func() { errCh <- ws.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := ws.Stop(shutdownCtx); err != nil {
		return errx.Wrap(err, "server shutdown failed", errx.TypeSystem)
	}
	logx.Info("Server stopped")
	return nil
}

func serveFiber(ctx context.Context, port int, path string, receiver msgx.Receiver) error {
	app := msgxfiber.NewApp()
	msgxfiber.Register(app, path, receiver)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	errCh := make(chan error, 1)
	go func() {
		logx.Info("Webhook server listening on :%d (fiber)", port)
		errCh <- app.Listen(fmt.Sprintf(":%d", port))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logx.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return errx.Wrap(err, "server shutdown failed", errx.TypeSystem)
	}
	logx.Info("Server stopped")
	return nil
}
