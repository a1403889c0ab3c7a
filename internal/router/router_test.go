package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ledger/internal/handler"
	"github.com/iliyamo/railway-ledger/internal/repository"
	"github.com/iliyamo/railway-ledger/internal/service"
)

func TestRoutesServeLedger(t *testing.T) {
	store := repository.NewStore(repository.NewFileBackend(t.TempDir()))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	e := echo.New()
	RegisterRoutes(e, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	}))
	RegisterLedger(e, handler.NewLedgerHandler(service.NewLedger(store)), nil)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/v1/trains", `{"train_id":"T1","name":"Express","total_seats":2,"routes":["A","B"]}`, http.StatusCreated},
		{http.MethodGet, "/v1/trains/T1", "", http.StatusOK},
		{http.MethodPost, "/v1/schedules", `{"schedule_id":"S1","train_id":"T1"}`, http.StatusCreated},
		{http.MethodGet, "/v1/schedules/S1", "", http.StatusOK},
		{http.MethodPost, "/v1/passengers", `{"passenger_id":"P1","name":"Ann","age":30,"gender":"F"}`, http.StatusCreated},
		{http.MethodGet, "/v1/passengers/P1", "", http.StatusOK},
		{http.MethodPost, "/v1/bookings", `{"booking_id":"B1","passenger_id":"P1","train_id":"T1","schedule_id":"S1"}`, http.StatusCreated},
		{http.MethodGet, "/v1/bookings/B1", "", http.StatusOK},
		{http.MethodGet, "/v1/bookings/B9", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		if tc.body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s %s = %d, want %d (%s)", tc.method, tc.path, rec.Code, tc.want, rec.Body.String())
		}
	}
}
