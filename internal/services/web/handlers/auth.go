package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mmweb/internal/backend"
	"mmweb/internal/models"
)

type authPage struct {
	Email string
	Name  string
	Role  string
	Error string
}

func (h *ServerHandle) ShowLogin(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", authPage{})
}

func (h *ServerHandle) SubmitLogin(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	_, err := h.Sessions.Login(c, email, password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			// Bad credentials, not an expired session: stay on the page.
			return c.Render(http.StatusUnauthorized, "login.html", authPage{
				Email: email,
				Error: msgLoginFailed,
			})
		}

		h.Logger.Err(err).Msg("login failed")
		return c.Render(http.StatusOK, "login.html", authPage{
			Email: email,
			Error: msgLoginFailed,
		})
	}

	return c.Redirect(http.StatusFound, "/profile")
}

func (h *ServerHandle) ShowSignup(c echo.Context) error {
	return c.Render(http.StatusOK, "signup.html", authPage{Role: string(models.RoleMentee)})
}

func (h *ServerHandle) SubmitSignup(c echo.Context) error {
	email := c.FormValue("email")
	name := c.FormValue("name")

	page := authPage{Email: email, Name: name, Role: c.FormValue("role")}

	role, err := models.ParseRole(c.FormValue("role"))
	if err != nil {
		page.Error = msgSignupFailed
		return c.Render(http.StatusOK, "signup.html", page)
	}

	err = h.Backend.Signup(c.Request().Context(), backend.SignupParams{
		Email:    email,
		Password: c.FormValue("password"),
		Name:     name,
		Role:     string(role),
	})
	if err != nil {
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) && statusErr.Detail != "" {
			page.Error = statusErr.Detail
		} else {
			h.Logger.Err(err).Msg("signup failed")
			page.Error = msgSignupFailed
		}
		return c.Render(http.StatusOK, "signup.html", page)
	}

	return c.Redirect(http.StatusFound, "/login")
}

func (h *ServerHandle) Logout(c echo.Context) error {
	h.Sessions.Logout(c)
	return c.Redirect(http.StatusFound, "/login")
}
