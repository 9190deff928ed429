package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	infraredis "github.com/tu-usuario/kardex-erp/internal/infrastructure/redis"
	"github.com/tu-usuario/kardex-erp/pkg/config"
	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

// Worker de notificaciones: se suscribe a los canales de eventos del kardex
// y hace el fan-out hacia los destinos (por ahora, el log estructurado; aquí
// se conectan correo, webhooks o mensajería interna).
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("addr", cfg.Redis.Addr).
		Msg("iniciando worker de notificaciones")

	client, err := infraredis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pattern := cfg.Redis.ChannelPrefix + ".*"
	sub := client.PSubscribe(ctx, pattern)
	defer sub.Close()
	log.Info().Str("pattern", pattern).Msg("suscrito a eventos")

	go func() {
		for msg := range sub.Channel() {
			var ev notify.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn().Err(err).Str("channel", msg.Channel).Msg("evento no parseable")
				continue
			}
			dispatch(log, ev)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("worker detenido")
}

// dispatch enruta cada evento a su destino.
func dispatch(log *logger.Logger, ev notify.Event) {
	entry := log.Info().Str("type", ev.Type).Time("occurred_at", ev.OccurredAt)
	for k, v := range ev.Payload {
		entry = entry.Interface(k, v)
	}
	switch ev.Type {
	case notify.EventLowStock:
		entry.Msg("alerta: stock bajo punto de reorden")
	case notify.EventOrderPendingApproval:
		entry.Msg("pedido en espera de aprobación")
	case notify.EventOrderRejected:
		entry.Msg("pedido rechazado")
	case notify.EventPurchaseRegistered:
		entry.Msg("compra registrada")
	case notify.EventSaleConfirmed:
		entry.Msg("venta confirmada")
	default:
		entry.Msg("evento desconocido")
	}
}
