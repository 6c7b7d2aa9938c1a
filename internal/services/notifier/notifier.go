// Package notifier публикует уведомления о выпущенных билетах в RabbitMQ.
//
// Отправка выполняется по принципу best-effort: сбой публикации логируется
// и никогда не откатывает уже зафиксированную регистрацию.
package notifier

import (
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/hharryy/eventsnap/internal/lib/rabbitmq"
	"github.com/hharryy/eventsnap/internal/models"
)

// Publisher публикация сообщения в обменник.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// AMQPPublisher адаптер канала RabbitMQ под интерфейс Publisher.
type AMQPPublisher struct {
	Ch *amqp.Channel
}

// Publish публикует сообщение через канал RabbitMQ.
func (p *AMQPPublisher) Publish(exchange, routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Ch, exchange, routingKey, message)
}

// Service сервис уведомлений о билетах.
type Service struct {
	publisher Publisher
	baseURL   string
	log       *slog.Logger
}

// New создает новый Service.
func New(publisher Publisher, baseURL string, log *slog.Logger) *Service {
	return &Service{publisher: publisher, baseURL: baseURL, log: log}
}

// TicketIssued публикует уведомление о выпущенном билете.
func (s *Service) TicketIssued(reg *models.Registration, event *models.Event) error {
	const op = "notifier.TicketIssued"

	msg := models.TicketMessage{
		RegistrationID: reg.ID,
		EventTitle:     event.Title,
		EventDate:      event.Date,
		EventLocation:  event.Location,
		AttendeeName:   reg.AttendeeName,
		AttendeeEmail:  reg.AttendeeEmail,
		AmountMinor:    reg.AmountPaidMinor,
		TransactionID:  reg.TransactionID,
		TicketURL:      s.baseURL + "/tickets/" + reg.ID,
	}

	if err := s.publisher.Publish(rabbitmq.NotificationExchange, "issued", msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
