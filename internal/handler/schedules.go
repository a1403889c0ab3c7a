package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ledger/internal/model"
)

// CreateSchedule handles POST /v1/schedules.  The body uses the same
// keys as the stored record; times are not validated.
func (h *LedgerHandler) CreateSchedule(c echo.Context) error {
	var body model.Schedule
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(body.TrainID) == "" {
		return badRequest(c, "train_id is required")
	}
	body.ID = idOrNew(body.ID)
	body.TrainID = strings.TrimSpace(body.TrainID)
	sc, err := h.Ledger.AddSchedule(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, sc)
}

// GetSchedule handles GET /v1/schedules/:id.
func (h *LedgerHandler) GetSchedule(c echo.Context) error {
	sc, err := h.Ledger.GetSchedule(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sc)
}
