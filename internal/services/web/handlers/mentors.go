package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"mmweb/internal/backend"
	"mmweb/internal/models"
)

type mentorsPage struct {
	User    *models.User
	Mentors []models.User
	Query   string
	Sort    models.SortKey
	Error   string
	Notice  string
}

type requestFormPage struct {
	User    *models.User
	Mentor  *models.User
	Message string
	Error   string
}

// ShowMentors fetches the directory with the server-applied sort key and
// then applies the free-text filter locally. The filter never changes what
// is asked of the backend, only what is rendered.
func (h *ServerHandle) ShowMentors(c echo.Context) error {
	user := currentUser(c)

	page := mentorsPage{
		User:   user,
		Query:  c.QueryParam("q"),
		Sort:   models.ParseSortKey(c.QueryParam("orderBy")),
		Notice: noticeFor(c.QueryParam("notice")),
	}

	mentors, err := h.Backend.Mentors(c.Request().Context(), bearer(c), page.Sort, "")
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}

		h.Logger.Err(err).Msg("unable to fetch mentor directory")
		page.Error = msgMentorsLoadFailed
		return c.Render(http.StatusOK, "mentors.html", page)
	}

	page.Mentors = models.FilterMentors(mentors, page.Query)

	return c.Render(http.StatusOK, "mentors.html", page)
}

// ShowRequestForm opens the confirmation flow for one mentor. Only mentees
// get this far; other roles are bounced back with a notice and nothing is
// sent anywhere.
func (h *ServerHandle) ShowRequestForm(c echo.Context) error {
	user := currentUser(c)

	if user.Role != models.RoleMentee {
		return h.renderMenteeOnly(c, user)
	}

	mentor, err := h.findMentor(c)
	if err != nil {
		return err
	}
	if mentor == nil {
		return c.Redirect(http.StatusFound, "/mentors")
	}

	return c.Render(http.StatusOK, "request_form.html", requestFormPage{
		User:   user,
		Mentor: mentor,
	})
}

func (h *ServerHandle) SubmitRequest(c echo.Context) error {
	user := currentUser(c)

	if user.Role != models.RoleMentee {
		return h.renderMenteeOnly(c, user)
	}

	mentorID, err := paramID(c)
	if err != nil {
		return err
	}

	// Display fields ride along in the form so a validation failure can
	// re-render the confirmation without another directory fetch.
	page := requestFormPage{
		User: user,
		Mentor: &models.User{
			ID:      mentorID,
			Role:    models.RoleMentor,
			Name:    c.FormValue("mentor_name"),
			Company: c.FormValue("mentor_company"),
		},
		Message: c.FormValue("message"),
	}

	if strings.TrimSpace(page.Message) == "" {
		page.Error = msgMessageRequired
		return c.Render(http.StatusOK, "request_form.html", page)
	}

	_, err = h.Backend.CreateMatchRequest(c.Request().Context(), bearer(c), mentorID, page.Message)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}

		h.Logger.Err(err).Int("mentor_id", mentorID).Msg("unable to create match request")

		page.Error = msgRequestFailed

		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) && statusErr.Detail != "" {
			page.Error = statusErr.Detail
		}

		return c.Render(http.StatusOK, "request_form.html", page)
	}

	return c.Redirect(http.StatusFound, "/requests?notice=sent")
}

func (h *ServerHandle) renderMenteeOnly(c echo.Context, user *models.User) error {
	return c.Render(http.StatusForbidden, "mentors.html", mentorsPage{
		User:  user,
		Sort:  models.SortNewest,
		Error: msgMenteeOnly,
	})
}

func (h *ServerHandle) findMentor(c echo.Context) (*models.User, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}

	mentors, err := h.Backend.Mentors(c.Request().Context(), bearer(c), models.SortNewest, "")
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, err
		}
		h.Logger.Err(err).Msg("unable to fetch mentor directory")
		return nil, nil
	}

	for i := range mentors {
		if mentors[i].ID == id {
			return &mentors[i], nil
		}
	}

	return nil, nil
}
