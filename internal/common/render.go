package common

import (
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"mmweb/internal/models"
)

// Labels shown in the templates. The UI is Korean like the rest of the
// product surface.
var statusLabels = map[models.RequestStatus]string{
	models.StatusPending:   "대기중",
	models.StatusAccepted:  "수락됨",
	models.StatusRejected:  "거절됨",
	models.StatusCancelled: "취소됨",
}

var roleLabels = map[models.Role]string{
	models.RoleMentor: "멘토",
	models.RoleMentee: "멘티",
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"statusLabel": func(s models.RequestStatus) string {
			if label, ok := statusLabels[s]; ok {
				return label
			}
			return string(s)
		},
		"roleLabel": func(r models.Role) string {
			if label, ok := roleLabels[r]; ok {
				return label
			}
			return string(r)
		},
		"joinSkills": func(skills []string) string {
			return strings.Join(skills, ", ")
		},
	}
}

type Template struct {
	tmpl *template.Template
}

func NewTemplate(parse string) (*Template, error) {
	parsedTmpl, err := template.New("").Funcs(templateFuncs()).ParseGlob(parse)
	if err != nil {
		return nil, err
	}

	return &Template{
		tmpl: parsedTmpl,
	}, nil
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.tmpl.ExecuteTemplate(w, name, data)
}
