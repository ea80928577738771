// Package email envía las notificaciones por correo de staffdesk:
// bienvenida al crear una ficha y resolución de licencias.
//
// Los envíos son best-effort: un SMTP caído nunca voltea la operación
// de negocio que lo disparó. De eso se encarga el service, acá sólo
// se envía.
package email

import (
	"context"

	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// Message es un correo listo para enviar. El destinatario recibe Text
// y HTML como multipart/alternative.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender es la interfaz para enviar emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Noop descarta los envíos. Se usa con email.enabled = false y en tests.
type Noop struct{}

func (Noop) Send(ctx context.Context, msg Message) error {
	logger.From(ctx).Debug("email descartado (noop)",
		logger.Component("email"),
		logger.String("to", msg.To),
		logger.String("subject", msg.Subject),
	)
	return nil
}
