package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ledger/internal/model"
)

func (h *LedgerHandler) CreatePassenger(c echo.Context) error {
	var body model.Passenger
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	body.ID = idOrNew(body.ID)
	p, err := h.Ledger.AddPassenger(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *LedgerHandler) GetPassenger(c echo.Context) error {
	p, err := h.Ledger.GetPassenger(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
