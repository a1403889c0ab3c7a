package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type bookTicketRequest struct {
	ID          string `json:"booking_id"`
	PassengerID string `json:"passenger_id"`
	TrainID     string `json:"train_id"`
	ScheduleID  string `json:"schedule_id"`
}

// BookTicket handles POST /v1/bookings.  Seat number and booking date
// are assigned by the ledger and returned in the 201 response.
func (h *LedgerHandler) BookTicket(c echo.Context) error {
	var body bookTicketRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	b, err := h.Ledger.BookTicket(c.Request().Context(),
		idOrNew(body.ID),
		strings.TrimSpace(body.PassengerID),
		strings.TrimSpace(body.TrainID),
		strings.TrimSpace(body.ScheduleID),
	)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// GetBooking handles GET /v1/bookings/:id.
func (h *LedgerHandler) GetBooking(c echo.Context) error {
	b, err := h.Ledger.GetBooking(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
