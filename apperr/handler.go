package apperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders taxonomy errors as {kind, message} and keeps
// echo's own errors (404 on unknown routes, bind failures) in the same shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		if writeErr := c.JSON(appErr.HTTPStatus(), appErr); writeErr != nil {
			slog.Error("write error response", "err", writeErr)
		}
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		kind := KindValidation
		switch httpErr.Code {
		case http.StatusNotFound:
			kind = KindNotFound
		case http.StatusUnauthorized:
			kind = KindAuth
		case http.StatusForbidden:
			kind = KindForbidden
		}
		_ = c.JSON(httpErr.Code, &Error{Kind: kind, Message: msg})
		return
	}

	slog.Error("unhandled error", "err", err, "path", c.Path())
	_ = c.JSON(http.StatusInternalServerError, &Error{
		Kind:    "internal",
		Message: "internal server error",
	})
}
