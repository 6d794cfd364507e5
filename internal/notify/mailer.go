package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/infrastructure/config"
)

// Mailer sends the internal team notification plus a confirmation copy to the
// submitter. The SMTP dialer is created once on first use and reused; it is
// safe to share between workers after initialization.
type Mailer struct {
	cfg config.MailConfig

	once   sync.Once
	dialer *gomail.Dialer
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Name() string { return "mail" }

func (m *Mailer) Send(_ context.Context, r *domain.ServiceRequest) error {
	m.once.Do(func() {
		m.dialer = gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	})

	msgs := []*gomail.Message{m.teamMessage(r)}
	if r.Email != "" {
		msgs = append(msgs, m.clientMessage(r))
	}

	if err := m.dialer.DialAndSend(msgs...); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *Mailer) teamMessage(r *domain.ServiceRequest) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.TeamRecipients...)
	msg.SetHeader("Subject", "Nueva solicitud de "+r.Name)
	msg.SetBody("text/plain", fmt.Sprintf(
		"Nueva solicitud recibida:\n\nNombre: %s\nEmail: %s\nTeléfono: %s\nDescripción: %s\n\nID: %s",
		r.Name, r.Email, r.Phone, r.Description, r.ID,
	))
	msg.AddAlternative("text/html", teamHTML(r))
	return msg
}

// teamHTML renders the HTML alternative. Request fields arrive straight from
// the public form, so everything is escaped before interpolation.
func teamHTML(r *domain.ServiceRequest) string {
	return fmt.Sprintf(
		`<h2>Nueva solicitud recibida</h2>
<p><strong>Nombre:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Teléfono:</strong> %s</p>
<p><strong>Descripción:</strong><br>%s</p>
<p><strong>ID:</strong> %s</p>`,
		html.EscapeString(r.Name),
		html.EscapeString(r.Email),
		html.EscapeString(r.Phone),
		htmlSafe(r.Description),
		html.EscapeString(r.ID),
	)
}

func (m *Mailer) clientMessage(r *domain.ServiceRequest) *gomail.Message {
	replyTo := m.cfg.ReplyTo
	if replyTo == "" {
		replyTo = m.cfg.From
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", r.Email)
	msg.SetHeader("Reply-To", replyTo)
	msg.SetHeader("Subject", "¡Gracias por tu solicitud!")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\nGracias por contactarnos. Nuestro equipo revisará tu solicitud y te responderemos a este mismo correo.\n\nResumen:\n- Teléfono: %s\n- Descripción: %s\n\nEquipo Uixom",
		r.Name, r.Phone, r.Description,
	))
	msg.AddAlternative("text/html", clientHTML(r))
	return msg
}

func clientHTML(r *domain.ServiceRequest) string {
	return fmt.Sprintf(
		`<p>Hola %s,</p>
<p>Gracias por contactarnos. Nuestro equipo revisará tu solicitud y te responderemos a este mismo correo.</p>
<p><strong>Resumen:</strong><br>Teléfono: %s<br>Descripción: %s</p>
<p>Equipo Uixom</p>`,
		html.EscapeString(r.Name),
		html.EscapeString(r.Phone),
		htmlSafe(r.Description),
	)
}

// htmlSafe escapes free text and keeps its line breaks visible in HTML.
func htmlSafe(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
