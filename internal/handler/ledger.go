package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ledger/internal/service"
)

// LedgerHandler exposes the ledger's create and lookup operations over
// HTTP.  It holds no state of its own.
type LedgerHandler struct {
	Ledger *service.Ledger
}

// NewLedgerHandler panics when ledger is nil.
func NewLedgerHandler(ledger *service.Ledger) *LedgerHandler {
	if ledger == nil {
		panic("nil ledger passed to NewLedgerHandler")
	}
	return &LedgerHandler{Ledger: ledger}
}

// writeError maps ledger errors onto HTTP responses.  Rejections carry
// their reason code in "error" so clients need not parse the message.
func writeError(c echo.Context, err error) error {
	r, ok := service.AsRejection(err)
	if !ok {
		if errors.Is(err, service.ErrPersistence) {
			c.Logger().Errorf("ledger save failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "persistence_failure"})
		}
		c.Logger().Errorf("ledger error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}
	status := http.StatusInternalServerError
	switch r.Reason {
	case service.ReasonDuplicateIdentifier, service.ReasonExhaustedResource:
		status = http.StatusConflict
	case service.ReasonUnknownReference:
		status = http.StatusUnprocessableEntity
	case service.ReasonNotFound:
		status = http.StatusNotFound
	case service.ReasonInvalidInput:
		status = http.StatusBadRequest
	}
	return c.JSON(status, echo.Map{"error": string(r.Reason), "message": r.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": msg})
}

// idOrNew trims id and generates a UUID when it is empty.
func idOrNew(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.NewString()
	}
	return id
}
