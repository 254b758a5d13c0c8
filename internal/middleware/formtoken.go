package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/utils"
	"github.com/iliyamo/fyyur/internal/web"
)

const (
	// NonceCookie binds form tokens to one browser.
	NonceCookie = "fyyur_nonce"
	// FormTokenField is the form field carrying the token.
	FormTokenField = "form_token"
	// FormTokenHeader may carry the token instead of the form field.
	FormTokenHeader = "X-Form-Token"
)

// FormTokenConfig configures FormToken.
type FormTokenConfig struct {
	Secret string
	TTL    time.Duration
	// Exempt lists request paths whose unsafe requests are not checked.
	Exempt map[string]bool
	// Secure marks the nonce cookie Secure.
	Secure bool
	Logger logrus.FieldLogger
}

// FormToken guards form submissions.  Every request gets a nonce cookie and
// a fresh token signed for it under web.FormTokenKey; unsafe requests must
// echo a valid token for their nonce or they are rejected with 403.
func FormToken(cfg FormTokenConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			nonce := ""
			if ck, err := c.Cookie(NonceCookie); err == nil {
				nonce = ck.Value
			}
			fresh := nonce == ""
			if fresh {
				n, err := utils.NewNonce()
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
				}
				nonce = n
				c.SetCookie(&http.Cookie{
					Name:     NonceCookie,
					Value:    nonce,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if !isSafeMethod(req.Method) && !cfg.Exempt[req.URL.Path] {
				raw := req.Header.Get(FormTokenHeader)
				if raw == "" {
					raw = c.FormValue(FormTokenField)
				}
				var err error
				if fresh {
					err = utils.ErrFormTokenMismatch
				} else {
					err = utils.VerifyFormToken(cfg.Secret, raw, nonce)
				}
				if err != nil {
					cfg.Logger.WithError(err).WithField("path", req.URL.Path).Warn("form token rejected")
					return &echo.HTTPError{
						Code:     http.StatusForbidden,
						Message:  "The form has expired. Please go back, reload the page and try again.",
						Internal: err,
					}
				}
			}

			tok, err := utils.NewFormToken(cfg.Secret, nonce, cfg.TTL)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
			}
			c.Set(web.FormTokenKey, tok.Token)
			return next(c)
		}
	}
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
