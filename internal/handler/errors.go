package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/web"
)

// NewHTTPErrorHandler renders 404 and 5xx errors with their dedicated
// views and answers other errors with their message as plain text.  Server
// errors are logged with their internal cause, which never reaches the
// browser.
func NewHTTPErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := &echo.HTTPError{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
		var target *echo.HTTPError
		if errors.As(err, &target) {
			he = target
		} else {
			he.Internal = err
		}

		entry := logger.WithFields(logrus.Fields{
			"status":     he.Code,
			"method":     c.Request().Method,
			"uri":        c.Request().RequestURI,
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		})
		if he.Internal != nil {
			entry = entry.WithError(he.Internal)
		}

		var view string
		switch {
		case he.Code == http.StatusNotFound:
			view = "errors/404.html"
			entry.Debug("not found")
		case he.Code >= http.StatusInternalServerError:
			view = "errors/500.html"
			entry.Error("request failed")
		}

		var rerr error
		switch {
		case c.Request().Method == http.MethodHead:
			rerr = c.NoContent(he.Code)
		case view != "":
			rerr = c.Render(he.Code, view, web.NewPage(c, http.StatusText(he.Code), nil))
		default:
			msg, ok := he.Message.(string)
			if !ok || msg == "" {
				msg = http.StatusText(he.Code)
			}
			rerr = c.String(he.Code, msg)
		}
		if rerr != nil {
			logger.WithError(rerr).Error("error page could not be rendered")
			if !c.Response().Committed {
				_ = c.String(he.Code, http.StatusText(he.Code))
			}
		}
	}
}
