package web

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// FlashCookie carries a one-shot notice across a redirect.
	FlashCookie = "fyyur_flash"
	// FormTokenKey is the echo context key under which the form token
	// middleware stores the token to embed in forms.
	FormTokenKey = "form_token"
)

// Page is the data every template receives.  Data holds the view specific
// part.
type Page struct {
	Title     string
	Flash     string
	FormToken string
	Data      any
}

// NewPage builds the page model, consuming any pending flash notice.
func NewPage(c echo.Context, title string, data any) Page {
	tok, _ := c.Get(FormTokenKey).(string)
	return Page{Title: title, Flash: PopFlash(c), FormToken: tok, Data: data}
}

// SetFlash queues msg for the next rendered page.
func SetFlash(c echo.Context, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending notice, if any, and clears the cookie.
func PopFlash(c echo.Context) string {
	ck, err := c.Cookie(FlashCookie)
	if err != nil || ck.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}

// HasFlash reports whether the request carries a pending notice.
func HasFlash(r *http.Request) bool {
	ck, err := r.Cookie(FlashCookie)
	return err == nil && ck.Value != ""
}
