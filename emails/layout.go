// Package emails renders the HTML bodies of every outgoing SMUNCH email.
//
// Each email type builds a Fragment holding only its own content. The only
// way to turn a Fragment into a sendable Document is Renderer.wrap, which
// adds the shared banner and sign-off exactly once.
package emails

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/smunch/smunch-backend/utils"
)

const defaultName = "Smunchie"

// Fragment is the email specific content block. It cannot be sent on its own.
type Fragment struct {
	subject string
	body    template.HTML
}

// Document is a complete email ready for a mailer.
type Document struct {
	Subject string
	HTML    string
}

type Config struct {
	BannerURL    string
	ContactEmail string
	Location     *time.Location
}

type Renderer struct {
	cfg Config
}

func NewRenderer(cfg Config) *Renderer {
	if cfg.Location == nil {
		cfg.Location = utils.Singapore
	}
	return &Renderer{cfg: cfg}
}

var layoutTmpl = template.Must(template.New("layout").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <img src="{{.BannerURL}}" alt="SMUNCH Banner" style="width: 100%; max-width: 600px; display: block; margin-bottom: 20px;" />

  <div style="padding: 20px;">
    <div style="margin: 0 0 20px 0; line-height: 1.5;">
      {{.Inner}}
    </div>

    <p style="margin: 0 0 12px 0;">Regards,<br>The SMUNCH Team 💙</p>
    <p style="font-size: 0.9em; color: #666; margin: 0;">Made for SMU students, by SMU students.</p>
  </div>
</div>
`))

func (r *Renderer) wrap(f Fragment) (Document, error) {
	var buf bytes.Buffer
	err := layoutTmpl.Execute(&buf, struct {
		BannerURL string
		Inner     template.HTML
	}{r.cfg.BannerURL, f.body})
	if err != nil {
		return Document{}, fmt.Errorf("render layout: %w", err)
	}
	return Document{Subject: f.subject, HTML: buf.String()}, nil
}

func fragment(subject string, tmpl *template.Template, data interface{}) (Fragment, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Fragment{}, fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return Fragment{subject: subject, body: template.HTML(buf.String())}, nil
}

// render builds the fragment and wraps it. Every public template goes through here.
func (r *Renderer) render(subject string, tmpl *template.Template, data interface{}) (Document, error) {
	f, err := fragment(subject, tmpl, data)
	if err != nil {
		return Document{}, err
	}
	return r.wrap(f)
}

func (r *Renderer) formatTime(t time.Time) string {
	return utils.FormatDateTime(t, r.cfg.Location)
}

func nameOrDefault(name string) string {
	if name == "" {
		return defaultName
	}
	return name
}
