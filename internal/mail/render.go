package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// InvitationData fills the invitation template.
type InvitationData struct {
	ProjectName string
	InviterName string
	SignupURL   string
	ExpiresAt   time.Time
}

// MemberAddedData fills the member_added template.
type MemberAddedData struct {
	ProjectName string
	InviterName string
	ProjectURL  string
}

// Renderer renders the embedded HTML templates.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("mail").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.UTC().Format("Jan 2, 2006 15:04 MST")
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Invitation renders the email sent to an address without an account.
func (r *Renderer) Invitation(data InvitationData) (subject, html string, err error) {
	html, err = r.render("invitation.html", data)
	return "Invitation to join " + data.ProjectName, html, err
}

// MemberAdded renders the email sent to an existing user added to a project.
func (r *Renderer) MemberAdded(data MemberAddedData) (subject, html string, err error) {
	html, err = r.render("member_added.html", data)
	return "You've been added to " + data.ProjectName, html, err
}

func (r *Renderer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
