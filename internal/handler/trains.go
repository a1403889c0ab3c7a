package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type createTrainRequest struct {
	ID         string   `json:"train_id"`
	Name       string   `json:"name"`
	TotalSeats *int     `json:"total_seats"`
	Routes     []string `json:"routes"`
}

// CreateTrain handles POST /v1/trains.  total_seats is required; an
// empty train_id is replaced with a generated one.
func (h *LedgerHandler) CreateTrain(c echo.Context) error {
	var body createTrainRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.TotalSeats == nil {
		return badRequest(c, "total_seats is required")
	}
	routes := make([]string, 0, len(body.Routes))
	for _, st := range body.Routes {
		routes = append(routes, strings.TrimSpace(st))
	}
	t, err := h.Ledger.AddTrain(c.Request().Context(), idOrNew(body.ID), strings.TrimSpace(body.Name), *body.TotalSeats, routes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// GetTrain handles GET /v1/trains/:id.
func (h *LedgerHandler) GetTrain(c echo.Context) error {
	t, err := h.Ledger.GetTrain(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
