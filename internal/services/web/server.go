package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"mmweb/internal/backend"
	"mmweb/internal/services/web/handlers"
	"mmweb/internal/session"
)

type Server struct {
	port     string
	engine   *echo.Echo
	handlers handlers.ServerHandler
	sessions *session.Manager
}

func NewServer(port string, engine *echo.Echo, handlers handlers.ServerHandler, sessions *session.Manager) *Server {
	return &Server{
		port:     port,
		engine:   engine,
		handlers: handlers,
		sessions: sessions,
	}
}

func (svc *Server) Run() error {
	svc.Register()

	if err := svc.engine.Start(svc.port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Register wires the error handler and the route table onto the engine.
func (svc *Server) Register() {
	svc.engine.HTTPErrorHandler = svc.errorHandler

	svc.engine.GET("/health", svc.handlers.CheckHealth)
	svc.engine.GET("/metrics", echoprometheus.NewHandler())

	svc.engine.GET("/", svc.handlers.Root)
	svc.engine.GET("/login", svc.handlers.ShowLogin, svc.sessions.RedirectAuthed)
	svc.engine.POST("/login", svc.handlers.SubmitLogin)
	svc.engine.GET("/signup", svc.handlers.ShowSignup, svc.sessions.RedirectAuthed)
	svc.engine.POST("/signup", svc.handlers.SubmitSignup)
	svc.engine.POST("/logout", svc.handlers.Logout)

	auth := svc.sessions.RequireUser

	svc.engine.GET("/profile", svc.handlers.ShowProfile, auth)
	svc.engine.GET("/profile/edit", svc.handlers.ShowProfileEdit, auth)
	svc.engine.POST("/profile", svc.handlers.SubmitProfile, auth)
	svc.engine.GET("/profile/image/:role/:id", svc.handlers.ProfileImage, auth)

	svc.engine.GET("/mentors", svc.handlers.ShowMentors, auth)
	svc.engine.GET("/mentors/:id/request", svc.handlers.ShowRequestForm, auth)
	svc.engine.POST("/mentors/:id/request", svc.handlers.SubmitRequest, auth)

	svc.engine.GET("/requests", svc.handlers.ShowRequests, auth)
	svc.engine.POST("/requests/:id/accept", svc.handlers.AcceptRequest, auth)
	svc.engine.POST("/requests/:id/reject", svc.handlers.RejectRequest, auth)
	svc.engine.GET("/requests/:id/cancel", svc.handlers.ShowCancelConfirm, auth)
	svc.engine.POST("/requests/:id/cancel", svc.handlers.CancelRequest, auth)
}

// errorHandler is the single place where a backend 401 is turned into a
// session reset plus a redirect to the login page, no matter which handler
// surfaced it.
func (svc *Server) errorHandler(err error, c echo.Context) {
	if errors.Is(err, backend.ErrUnauthorized) {
		svc.sessions.Clear(c)

		if !c.Response().Committed {
			if err := c.Redirect(http.StatusFound, "/login"); err != nil {
				c.Logger().Error(err)
			}
		}
		return
	}

	svc.engine.DefaultHTTPErrorHandler(err, c)
}
