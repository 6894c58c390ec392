package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func record(t *testing.T, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestAppErrorResponseEnvelope(t *testing.T) {
	rec := record(t, func(c echo.Context) error {
		return AppErrorResponse(c, UpstreamError("ticker cache unavailable").WithError(errors.New("dial tcp: refused")))
	})

	// transport stays 200; the application status rides in the body
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Status int        `json:"status"`
		Data   []AppError `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != http.StatusBadGateway {
		t.Fatalf("expected body status 502, got %d", body.Status)
	}
	if len(body.Data) != 1 || body.Data[0].Code != "ERR_UPSTREAM" {
		t.Fatalf("unexpected error payload: %+v", body.Data)
	}
}

func TestAppErrorResponseUnknownErrorIs500(t *testing.T) {
	rec := record(t, func(c echo.Context) error {
		return AppErrorResponse(c, errors.New("plain error"))
	})

	var body APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != http.StatusInternalServerError {
		t.Fatalf("expected body status 500, got %d", body.Status)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := UpstreamError("signal store unavailable").WithError(cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	var appErr *AppError
	if !errors.As(error(err), &appErr) || appErr.Status != http.StatusBadGateway {
		t.Fatalf("expected AppError with 502, got %+v", appErr)
	}
}
