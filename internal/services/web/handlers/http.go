package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"mmweb/internal/backend"
	"mmweb/internal/models"
	"mmweb/internal/session"
)

type ServerHandler interface {
	CheckHealth(echo.Context) error
	Root(echo.Context) error

	ShowLogin(echo.Context) error
	SubmitLogin(echo.Context) error
	ShowSignup(echo.Context) error
	SubmitSignup(echo.Context) error
	Logout(echo.Context) error

	ShowProfile(echo.Context) error
	ShowProfileEdit(echo.Context) error
	SubmitProfile(echo.Context) error
	ProfileImage(echo.Context) error

	ShowMentors(echo.Context) error
	ShowRequestForm(echo.Context) error
	SubmitRequest(echo.Context) error

	ShowRequests(echo.Context) error
	AcceptRequest(echo.Context) error
	RejectRequest(echo.Context) error
	ShowCancelConfirm(echo.Context) error
	CancelRequest(echo.Context) error
}

type ServerHandle struct {
	Backend  backend.Client
	Sessions *session.Manager
	Logger   *zerolog.Logger
}

func (h *ServerHandle) CheckHealth(c echo.Context) error {
	return c.String(http.StatusOK, "healthy")
}

func (h *ServerHandle) Root(c echo.Context) error {
	user, _, err := h.Sessions.Current(c)
	if err != nil {
		return err
	}

	if user != nil {
		return c.Redirect(http.StatusFound, "/profile")
	}

	return c.Redirect(http.StatusFound, "/login")
}

func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(session.ContextUserKey).(*models.User)
	return user
}

func bearer(c echo.Context) string {
	token, _ := c.Get(session.ContextTokenKey).(string)
	return token
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest)
	}
	return id, nil
}
