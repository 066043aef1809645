package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"mmweb/internal/backend"
	"mmweb/internal/models"
)

const maxImageBytes = 1 << 20

type profilePage struct {
	User   *models.User
	Notice string
}

type profileEditPage struct {
	User   *models.User
	Name   string
	Bio    string
	Skills string
	Error  string
}

func (h *ServerHandle) ShowProfile(c echo.Context) error {
	return c.Render(http.StatusOK, "profile.html", profilePage{
		User:   currentUser(c),
		Notice: noticeFor(c.QueryParam("notice")),
	})
}

func (h *ServerHandle) ShowProfileEdit(c echo.Context) error {
	user := currentUser(c)

	return c.Render(http.StatusOK, "profile_edit.html", profileEditPage{
		User:   user,
		Name:   user.Name,
		Bio:    user.Bio,
		Skills: strings.Join(user.Skills, ", "),
	})
}

func (h *ServerHandle) SubmitProfile(c echo.Context) error {
	user := currentUser(c)

	page := profileEditPage{
		User:   user,
		Name:   c.FormValue("name"),
		Bio:    c.FormValue("bio"),
		Skills: c.FormValue("skills"),
	}

	update := backend.ProfileUpdate{
		ID:   user.ID,
		Name: page.Name,
		Role: string(user.Role),
		Bio:  page.Bio,
	}

	if user.Role == models.RoleMentor {
		update.Skills = splitSkills(page.Skills)
	}

	// The photo is validated entirely locally; a bad file never reaches
	// the backend and no payload is built for it.
	image, errMsg, err := h.encodePhoto(c)
	if err != nil {
		return err
	}
	if errMsg != "" {
		page.Error = errMsg
		return c.Render(http.StatusOK, "profile_edit.html", page)
	}
	update.Image = image

	updated, err := h.Backend.UpdateProfile(c.Request().Context(), bearer(c), update)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}

		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) && statusErr.Detail != "" {
			page.Error = statusErr.Detail
		} else {
			h.Logger.Err(err).Msg("profile update failed")
			page.Error = msgProfileSaveFail
		}
		return c.Render(http.StatusOK, "profile_edit.html", page)
	}

	h.Sessions.Update(c, updated)

	return c.Redirect(http.StatusFound, "/profile?notice=saved")
}

// encodePhoto reads an optional uploaded photo and returns it base64
// encoded. A validation failure comes back as a user message with no
// payload; only unexpected read errors become hard errors.
func (h *ServerHandle) encodePhoto(c echo.Context) (string, string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		// No file selected.
		return "", "", nil
	}
	if file.Size == 0 {
		return "", "", nil
	}

	if file.Size > maxImageBytes {
		return "", msgImageSize, nil
	}

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return "", "", err
	}
	if len(data) > maxImageBytes {
		return "", msgImageSize, nil
	}

	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
	default:
		return "", msgImageType, nil
	}

	return base64.StdEncoding.EncodeToString(data), "", nil
}

// ProfileImage proxies the backend image endpoint, falling back to a
// role-labelled placeholder when the image cannot be served.
func (h *ServerHandle) ProfileImage(c echo.Context) error {
	role, err := models.ParseRole(c.Param("role"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest)
	}

	data, contentType, err := h.Backend.ProfileImage(c.Request().Context(), bearer(c), role, id)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}
		return c.Redirect(http.StatusFound, placeholderURL(role))
	}

	if contentType == "" {
		contentType = "image/jpeg"
	}

	return c.Blob(http.StatusOK, contentType, data)
}

func placeholderURL(role models.Role) string {
	return fmt.Sprintf("https://placehold.co/500x500.jpg?text=%s", strings.ToUpper(string(role)))
}

func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")

	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}

	return skills
}
