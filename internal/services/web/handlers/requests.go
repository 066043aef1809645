package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mmweb/internal/backend"
	"mmweb/internal/models"
)

type requestsPage struct {
	User     *models.User
	Requests []models.MatchRequest
	Incoming bool
	Error    string
	Notice   string
}

type cancelConfirmPage struct {
	User    *models.User
	Request *models.MatchRequest
}

// ShowRequests is exhaustive on the session role: mentors see requests
// addressed to them, mentees the ones they created.
func (h *ServerHandle) ShowRequests(c echo.Context) error {
	user := currentUser(c)

	page := requestsPage{
		User:   user,
		Notice: noticeFor(c.QueryParam("notice")),
		Error:  actionError(c.QueryParam("failed")),
	}

	var (
		requests []models.MatchRequest
		err      error
	)

	switch user.Role {
	case models.RoleMentor:
		page.Incoming = true
		requests, err = h.Backend.IncomingRequests(c.Request().Context(), bearer(c))
	case models.RoleMentee:
		requests, err = h.Backend.OutgoingRequests(c.Request().Context(), bearer(c))
	default:
		return echo.NewHTTPError(http.StatusForbidden)
	}

	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}

		h.Logger.Err(err).Msg("unable to fetch match requests")
		page.Error = msgRequestsLoadFail
		return c.Render(http.StatusOK, "requests.html", page)
	}

	page.Requests = requests

	return c.Render(http.StatusOK, "requests.html", page)
}

func (h *ServerHandle) AcceptRequest(c echo.Context) error {
	return h.transition(c, "accept", "accepted", func(c echo.Context, id int) error {
		_, err := h.Backend.AcceptRequest(c.Request().Context(), bearer(c), id)
		return err
	})
}

func (h *ServerHandle) RejectRequest(c echo.Context) error {
	return h.transition(c, "reject", "rejected", func(c echo.Context, id int) error {
		_, err := h.Backend.RejectRequest(c.Request().Context(), bearer(c), id)
		return err
	})
}

// ShowCancelConfirm renders the interstitial confirmation; the destructive
// call is only issued by the follow-up POST.
func (h *ServerHandle) ShowCancelConfirm(c echo.Context) error {
	user := currentUser(c)

	if user.Role != models.RoleMentee {
		return c.Redirect(http.StatusFound, "/requests")
	}

	id, err := paramID(c)
	if err != nil {
		return err
	}

	requests, err := h.Backend.OutgoingRequests(c.Request().Context(), bearer(c))
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}
		return c.Redirect(http.StatusFound, "/requests?failed=cancel")
	}

	for i := range requests {
		if requests[i].ID == id && requests[i].Status.Pending() {
			return c.Render(http.StatusOK, "cancel_confirm.html", cancelConfirmPage{
				User:    user,
				Request: &requests[i],
			})
		}
	}

	return c.Redirect(http.StatusFound, "/requests")
}

func (h *ServerHandle) CancelRequest(c echo.Context) error {
	return h.transition(c, "cancel", "cancelled", func(c echo.Context, id int) error {
		_, err := h.Backend.CancelRequest(c.Request().Context(), bearer(c), id)
		return err
	})
}

// transition runs one status mutation and always comes back to the list
// page, so the rendered state is whatever the backend now holds.
func (h *ServerHandle) transition(c echo.Context, action, notice string, call func(echo.Context, int) error) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := call(c, id); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}

		h.Logger.Err(err).Int("request_id", id).Str("action", action).Msg("request transition failed")
		return c.Redirect(http.StatusFound, "/requests?failed="+action)
	}

	return c.Redirect(http.StatusFound, "/requests?notice="+notice)
}

func actionError(action string) string {
	switch action {
	case "accept":
		return msgAcceptFailed
	case "reject":
		return msgRejectFailed
	case "cancel":
		return msgCancelFailed
	}
	return ""
}
