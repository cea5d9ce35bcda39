package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/pkg/logging"
	authmw "github.com/Skotchmaster/loja/pkg/middleware/auth"
)

// ErrorHandler is the echo HTTPErrorHandler: it maps error kinds onto status
// codes and writes {message, details?}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error",
			"status", status,
			"kind", apperror.Kind(err),
			"error", err,
		)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", werr)
	}
}

// fail logs a handler error at a level matching its status and returns it
// for ErrorHandler to render.
func fail(l *slog.Logger, event string, err error) error {
	status, _ := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "error", err)
	}
	return err
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		detail := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			if he.Internal != nil {
				detail = he.Internal.Error()
			} else if msg, ok := he.Message.(string); ok {
				detail = msg
			}
		}
		return apperror.Validation("invalid body", detail)
	}
	return nil
}

func currentUser(c echo.Context) (string, error) {
	id, ok := authmw.UserID(c)
	if !ok {
		return "", apperror.ErrUnauthorized
	}
	return id, nil
}

type messageResponse struct {
	Message string `json:"message"`
}
