package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tu-usuario/kardex-erp/internal/application/notify"
)

var _ notify.Notifier = (*Notifier)(nil)

// Notifier publica eventos de dominio por pub/sub de Redis. Cada tipo de
// evento sale por su propio canal: <prefijo>.<tipo> (ej. kardex.low-stock).
// El worker de notificaciones se suscribe a <prefijo>.* y hace el fan-out.
type Notifier struct {
	client *redis.Client
	prefix string
}

// NewNotifier construye el publicador sobre un cliente ya conectado.
func NewNotifier(client *redis.Client, channelPrefix string) *Notifier {
	return &Notifier{client: client, prefix: channelPrefix}
}

// Publish serializa el evento a JSON y lo publica en su canal.
func (n *Notifier) Publish(ctx context.Context, ev notify.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	channel := n.prefix + "." + ev.Type
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}
