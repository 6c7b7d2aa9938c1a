// Package sender собирает воркер отправки писем с билетами:
// потребителя очереди RabbitMQ поверх SMTP-транспорта.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/hharryy/eventsnap/internal/config"
	"github.com/hharryy/eventsnap/internal/lib/rabbitmq"
	"github.com/hharryy/eventsnap/internal/lib/smtp"
	sendersvc "github.com/hharryy/eventsnap/internal/services/sender"
)

// App воркер отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *sendersvc.Service
	logger        *slog.Logger
}

// New собирает воркер из конфигурации.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := sendersvc.New(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей очередей и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	for _, q := range rabbitmq.GetNotificationQueues() {
		if err := rabbitmq.ConsumerMessage(ctx, a.ch, q.QueueName, a.senderService.SendTicketEmail); err != nil {
			a.logger.Error("failed to start consumer",
				slog.String("queue", q.QueueName),
				slog.Any("err", err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
