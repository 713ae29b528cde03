// Package msgxfiber mounts msgx receivers on a Fiber app.
package msgxfiber

import (
	"github.com/Abraxas-365/wacloud/errx/errxfiber"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp returns a Fiber app configured for webhook traffic: errx-aware error
// rendering, the msgx body limit and a delivery id on every request.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          errxfiber.ErrorHandler(),
		BodyLimit:             msgx.MaxBodyBytes,
		DisableStartupMessage: true,
	})
	app.Use(requestid.New(requestid.Config{Header: msgx.RequestIDHeader}))
	return app
}

// Register mounts receiver on path: GET answers the subscription handshake
// and POST accepts deliveries.
func Register(router fiber.Router, path string, receiver msgx.Receiver) {
	path = msgx.NormalizePath(path)
	router.Get(path, subscribeHandler(receiver))
	router.Post(path, deliveryHandler(receiver))
	logx.Info("Registered %s webhook on %s (fiber)", receiver.GetProviderName(), path)
}

func subscribeHandler(receiver msgx.Receiver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := msgx.Subscribe(receiver,
			c.Query(msgx.QueryMode), c.Query(msgx.QueryVerifyToken), c.Query(msgx.QueryChallenge))
		return write(c, out)
	}
}

func deliveryHandler(receiver msgx.Receiver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// fiber reuses the request buffer once the handler returns
		body := append([]byte(nil), c.Body()...)
		signature := c.Get(receiver.SignatureHeader())
		return write(c, msgx.Deliver(c.UserContext(), receiver, signature, body))
	}
}

func write(c *fiber.Ctx, out msgx.Outcome) error {
	if out.Err != nil {
		return out.Err.WithHTTPStatus(out.Status)
	}
	logx.With("request_id", c.GetRespHeader(msgx.RequestIDHeader)).
		Debug("%s %s accepted", c.Method(), c.Path())
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
	return c.Status(out.Status).SendString(out.Body)
}
