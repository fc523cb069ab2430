package router

import (
	bookingHandler "rental-service/internal/module/booking/handler"
	customerHandler "rental-service/internal/module/customer/handler"
	"rental-service/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

func Initialize(app *fiber.App, handlerBooking *bookingHandler.BookingHandler, handlerCustomer *customerHandler.CustomerHandler, m *middleware.Middleware) *fiber.App {

	// health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("OK")
	})

	app.Use(m.CorrelationID, m.Tracing)

	Api := app.Group("/api")

	// public routes
	v1 := Api.Group("/v1")
	v1.Post("/customers/resolve", handlerCustomer.Resolve)
	v1.Post("/customers/resolve/apply", handlerCustomer.ApplyResolution)

	v1.Post("/bookings", handlerBooking.CreateBooking)
	v1.Get("/bookings/:id", handlerBooking.ShowBooking)
	v1.Post("/bookings/:id/payment", handlerBooking.InitiatePayment)

	v1.Get("/payments/verify", handlerBooking.VerifyPayment)
	v1.Post("/payments/verify", handlerBooking.VerifyPayment)
	v1.Get("/payments/callback", handlerBooking.PaymentCallback)

	private := Api.Group("/private", m.ValidateInternalToken)
	private.Post("/payments/verify", handlerBooking.ReconcilePayment)

	return app

}
