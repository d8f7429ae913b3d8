package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/docs_gateway/internal/filesapi"
	"github.com/Skotchmaster/docs_gateway/internal/logging"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Successful bool   `json:"successful"`
	Message    string `json:"message"`
}

type okResponse struct {
	Successful bool   `json:"successful"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data"`
}

// ErrorHandler renders every error that reaches echo as
// {"successful": false, "message": ...}. Anything that is not an
// *echo.HTTPError becomes a 500 without leaking its text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Internal server error."

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprint(m)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Successful: false, Message: msg})
}

type proxyResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

func proxyFail(c echo.Context, code int, msg string) error {
	return c.JSON(code, proxyResponse{Success: false, Message: msg})
}

// forward relays a Files API reply: the upstream status is kept and its body
// lands under "data" on success or "error" otherwise.
func forward(c echo.Context, res *filesapi.Result, err error, okMsg, failMsg string) error {
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("files_api_unreachable", "status", 500, "error", err)
		text, _ := json.Marshal(err.Error())
		return c.JSON(http.StatusInternalServerError, proxyResponse{
			Success: false,
			Message: failMsg,
			Error:   text,
		})
	}
	if res.OK() {
		return c.JSON(res.Status, proxyResponse{Success: true, Message: okMsg, Data: res.Body})
	}
	logging.FromContext(c.Request().Context()).Warn("files_api_error", "status", res.Status)
	return c.JSON(res.Status, proxyResponse{Success: false, Message: failMsg, Error: res.Body})
}
