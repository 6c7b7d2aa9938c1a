// Package registration реализует запись билетов и подписок после
// подтверждённого платежа, а также проход на событие по билету.
//
// Идемпотентность строится на уникальных ограничениях базы данных:
// нарушение уникальности при вставке трактуется как «уже существует»,
// и вызывающей стороне возвращается существующая запись, а не ошибка.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/storage"
)

// Срок действия купленной подписки.
const subscriptionPeriod = 30 * 24 * time.Hour

// Сигнальные ошибки сервиса.
var (
	// ErrNotPaid билет не оплачен, проход невозможен.
	ErrNotPaid = errors.New("registration is not paid")
	// ErrAlreadyCheckedIn билет уже использован для прохода.
	ErrAlreadyCheckedIn = errors.New("already checked in")
	// ErrForbidden билет относится к событию другого организатора.
	ErrForbidden = errors.New("forbidden")
)

// Repository доступ к билетам, подпискам и событиям в хранилище.
type Repository interface {
	CreateRegistration(ctx context.Context, r models.Registration) (string, error)
	ReadRegistration(ctx context.Context, id string) (*models.Registration, error)
	FindRegistrationByTransactionID(ctx context.Context, transactionID string) (*models.Registration, error)
	FindPaidRegistration(ctx context.Context, eventID, attendeeEmail string) (*models.Registration, error)
	MarkCheckedIn(ctx context.Context, id string) (int, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	FindSubscriptionByTransactionID(ctx context.Context, transactionID string) (*models.Subscription, error)
	ReadEvent(ctx context.Context, id string) (*models.Event, error)
}

// Notifier уведомления о выпущенных билетах (best-effort).
type Notifier interface {
	TicketIssued(reg *models.Registration, event *models.Event) error
}

// Result итог подтверждения платежа.
type Result struct {
	Kind           string `json:"kind"`
	RegistrationID string `json:"registration_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	AlreadyExisted bool   `json:"already_existed"`
}

// Service сервис записи билетов.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *slog.Logger
}

// New создает новый Service.
func New(repo Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, log: log}
}

// ConfirmPayment фиксирует бизнес-эффект подтверждённого платежа:
// билет для намерения event_ticket либо подписку для намерения subscription.
// Повторный вызов с тем же transaction id возвращает ту же запись.
func (s *Service) ConfirmPayment(ctx context.Context, intent models.PaymentIntent, attendee models.Attendee, amountMinor int64, transactionID string) (*Result, error) {
	const op = "registration.ConfirmPayment"

	if err := intent.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch intent.Kind {
	case models.IntentKindSubscription:
		return s.confirmSubscription(ctx, intent, attendee, transactionID)
	default:
		return s.confirmTicket(ctx, intent, attendee, amountMinor, transactionID)
	}
}

func (s *Service) confirmTicket(ctx context.Context, intent models.PaymentIntent, attendee models.Attendee, amountMinor int64, transactionID string) (*Result, error) {
	const op = "registration.confirmTicket"

	id, err := s.repo.CreateRegistration(ctx, models.Registration{
		EventID:         intent.EventID,
		AttendeeName:    attendee.Name,
		AttendeeEmail:   attendee.Email,
		Phone:           attendee.Phone,
		AmountPaidMinor: amountMinor,
		PaymentStatus:   models.PaymentStatusPaid,
		TransactionID:   transactionID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			existing, ferr := s.findExistingTicket(ctx, intent.EventID, attendee.Email, transactionID)
			if ferr != nil {
				return nil, fmt.Errorf("%s: %w", op, ferr)
			}
			return &Result{
				Kind:           models.IntentKindEventTicket,
				RegistrationID: existing.ID,
				AlreadyExisted: true,
			}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifyIssued(ctx, id)

	return &Result{
		Kind:           models.IntentKindEventTicket,
		RegistrationID: id,
	}, nil
}

// findExistingTicket разрешает конфликт вставки: сначала по transaction id
// (повтор вебхука), затем по оплаченной паре (событие, email).
func (s *Service) findExistingTicket(ctx context.Context, eventID, attendeeEmail, transactionID string) (*models.Registration, error) {
	existing, err := s.repo.FindRegistrationByTransactionID(ctx, transactionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return s.repo.FindPaidRegistration(ctx, eventID, attendeeEmail)
}

func (s *Service) confirmSubscription(ctx context.Context, intent models.PaymentIntent, attendee models.Attendee, transactionID string) (*Result, error) {
	const op = "registration.confirmSubscription"

	now := time.Now()
	id, err := s.repo.CreateSubscription(ctx, models.Subscription{
		OrganizerEmail: attendee.Email,
		PlanName:       intent.PlanName,
		StartDate:      now,
		EndDate:        now.Add(subscriptionPeriod),
		TransactionID:  transactionID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			existing, ferr := s.repo.FindSubscriptionByTransactionID(ctx, transactionID)
			if ferr != nil {
				return nil, fmt.Errorf("%s: %w", op, ferr)
			}
			return &Result{
				Kind:           models.IntentKindSubscription,
				SubscriptionID: existing.ID,
				AlreadyExisted: true,
			}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Result{
		Kind:           models.IntentKindSubscription,
		SubscriptionID: id,
	}, nil
}

// notifyIssued отправляет уведомление о новом билете.
// Сбой логируется и не влияет на результат платежа.
func (s *Service) notifyIssued(ctx context.Context, registrationID string) {
	reg, err := s.repo.ReadRegistration(ctx, registrationID)
	if err != nil {
		s.log.Error("failed to load registration for notification", sl.Err(err))
		return
	}
	event, err := s.repo.ReadEvent(ctx, reg.EventID)
	if err != nil {
		s.log.Error("failed to load event for notification", sl.Err(err))
		return
	}
	if err := s.notifier.TicketIssued(reg, event); err != nil {
		s.log.Error("failed to publish ticket notification", sl.Err(err))
	}
}

// Ticket возвращает билет и его событие для страницы с QR-кодом.
func (s *Service) Ticket(ctx context.Context, id string) (*models.Registration, *models.Event, error) {
	const op = "registration.Ticket"

	reg, err := s.repo.ReadRegistration(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	event, err := s.repo.ReadEvent(ctx, reg.EventID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return reg, event, nil
}

// CheckIn отмечает проход по билету. Переход одноразовый:
// повторное сканирование возвращает ErrAlreadyCheckedIn.
func (s *Service) CheckIn(ctx context.Context, organizerEmail, registrationID string) (*models.Registration, error) {
	const op = "registration.CheckIn"

	reg, err := s.repo.ReadRegistration(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	event, err := s.repo.ReadEvent(ctx, reg.EventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if event.OrganizerEmail != organizerEmail {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if reg.PaymentStatus != models.PaymentStatusPaid {
		return nil, fmt.Errorf("%s: %w", op, ErrNotPaid)
	}

	rows, err := s.repo.MarkCheckedIn(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyCheckedIn)
	}

	reg.CheckinStatus = models.CheckinStatusCheckedIn
	return reg, nil
}

// Resend повторно публикует уведомление по существующему билету.
func (s *Service) Resend(ctx context.Context, registrationID string) error {
	const op = "registration.Resend"

	reg, err := s.repo.ReadRegistration(ctx, registrationID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	event, err := s.repo.ReadEvent(ctx, reg.EventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.notifier.TicketIssued(reg, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
