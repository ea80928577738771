package email

import (
	"bytes"
	"fmt"
	"html/template"
	texttpl "text/template"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

// Templates embebidos: no dependemos de archivos en disco para los dos
// correos que manda el sistema.

const leaveDecidedHTML = `<html><body>
<p>Hola {{.Name}},</p>
<p>Tu solicitud de licencia ({{.Kind}}) del <b>{{.StartDate}}</b> al <b>{{.EndDate}}</b> fue <b>{{.StatusText}}</b>.</p>
{{if .BaseURL}}<p>Podés ver el detalle en <a href="{{.BaseURL}}/leaves">{{.BaseURL}}/leaves</a>.</p>{{end}}
<p>— Recursos Humanos</p>
</body></html>`

const leaveDecidedText = `Hola {{.Name}},

Tu solicitud de licencia ({{.Kind}}) del {{.StartDate}} al {{.EndDate}} fue {{.StatusText}}.
{{if .BaseURL}}
Detalle: {{.BaseURL}}/leaves
{{end}}
— Recursos Humanos`

const welcomeHTML = `<html><body>
<p>Hola {{.Name}},</p>
<p>Tu ficha de empleado fue dada de alta{{if .Position}} como <b>{{.Position}}</b>{{end}}.</p>
{{if .BaseURL}}<p>Accedé al portal en <a href="{{.BaseURL}}">{{.BaseURL}}</a>.</p>{{end}}
<p>— Recursos Humanos</p>
</body></html>`

const welcomeText = `Hola {{.Name}},

Tu ficha de empleado fue dada de alta{{if .Position}} como {{.Position}}{{end}}.
{{if .BaseURL}}
Portal: {{.BaseURL}}
{{end}}
— Recursos Humanos`

var (
	leaveDecidedHTMLTpl = template.Must(template.New("leave_html").Parse(leaveDecidedHTML))
	leaveDecidedTextTpl = texttpl.Must(texttpl.New("leave_txt").Parse(leaveDecidedText))
	welcomeHTMLTpl      = template.Must(template.New("welcome_html").Parse(welcomeHTML))
	welcomeTextTpl      = texttpl.Must(texttpl.New("welcome_txt").Parse(welcomeText))
)

// LeaveDecidedVars alimenta el correo de resolución de licencia.
type LeaveDecidedVars struct {
	Name       string
	Kind       string
	Status     string // APPROVED | REJECTED
	StatusText string // se completa en el render si viene vacío
	StartDate  string // YYYY-MM-DD
	EndDate    string
	BaseURL    string
}

// WelcomeVars alimenta el correo de alta de ficha.
type WelcomeVars struct {
	Name     string
	Position string
	BaseURL  string
}

// RenderLeaveDecided arma el correo de decisión listo para enviar.
func RenderLeaveDecided(to string, v LeaveDecidedVars) (Message, error) {
	if v.StatusText == "" {
		v.StatusText = statusText(v.Status)
	}

	htmlBody, err := renderHTML(leaveDecidedHTMLTpl, v)
	if err != nil {
		return Message{}, err
	}
	textBody, err := renderText(leaveDecidedTextTpl, v)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Tu solicitud de licencia fue %s", v.StatusText),
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}

// RenderWelcome arma el correo de bienvenida listo para enviar.
func RenderWelcome(to string, v WelcomeVars) (Message, error) {
	htmlBody, err := renderHTML(welcomeHTMLTpl, v)
	if err != nil {
		return Message{}, err
	}
	textBody, err := renderText(welcomeTextTpl, v)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Tu ficha de empleado fue creada",
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}

func statusText(status string) string {
	switch status {
	case repository.LeaveApproved:
		return "aprobada"
	case repository.LeaveRejected:
		return "rechazada"
	case repository.LeaveCancelled:
		return "cancelada"
	default:
		return "actualizada"
	}
}

func renderHTML(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderText(t *texttpl.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
