package notify

import (
	"context"

	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

// Buffer acumula eventos generados dentro de una transacción para publicarlos
// únicamente después del commit. Nunca se publica dentro de la transacción que
// muta stock: el fan-out es asíncrono respecto al kardex.
type Buffer struct {
	events []Event
}

// Add encola un evento pendiente de publicación.
func (b *Buffer) Add(ev Event) {
	b.events = append(b.events, ev)
}

// Events devuelve los eventos acumulados.
func (b *Buffer) Events() []Event {
	return b.events
}

// PublishAll publica los eventos del buffer tras un commit exitoso.
// Los errores de publicación solo se registran: una notificación fallida
// jamás revierte un asiento ya confirmado.
func PublishAll(ctx context.Context, n Notifier, log *logger.Logger, b *Buffer) {
	if n == nil || b == nil {
		return
	}
	for _, ev := range b.events {
		if err := n.Publish(ctx, ev); err != nil && log != nil {
			log.Warn().Err(err).Str("event", ev.Type).Msg("no se pudo publicar notificación")
		}
	}
}
