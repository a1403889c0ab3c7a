package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ledger/internal/handler"
)

// RegisterRoutes registers routes that are not part of the ledger API.
// metricsHandler may be nil when metrics are served on their own
// listener.
func RegisterRoutes(e *echo.Echo, metricsHandler http.Handler) {
	e.GET("/healthz", handler.Health)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}
}

// RegisterLedger registers the record endpoints under /v1.  cache, when
// non-nil, is applied to lookups of records that never change after
// creation; train lookups bypass it because bookings change the seat
// count.
func RegisterLedger(e *echo.Echo, h *handler.LedgerHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")

	var lookup []echo.MiddlewareFunc
	if cache != nil {
		lookup = append(lookup, cache)
	}

	g.POST("/trains", h.CreateTrain)
	g.GET("/trains/:id", h.GetTrain)

	g.POST("/schedules", h.CreateSchedule)
	g.GET("/schedules/:id", h.GetSchedule, lookup...)

	g.POST("/passengers", h.CreatePassenger)
	g.GET("/passengers/:id", h.GetPassenger, lookup...)

	g.POST("/bookings", h.BookTicket)
	g.GET("/bookings/:id", h.GetBooking, lookup...)
}
