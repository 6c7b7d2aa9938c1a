// Package checkout собирает платёжную сессию: определяет серверную цену
// по намерению платежа и передаёт её активному платёжному шлюзу.
//
// Бесплатные события (цена 0) минуют шлюз: регистрация фиксируется сразу
// с синтетическим transaction id.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hharryy/eventsnap/internal/gateway"
	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/services/registration"
)

// Сигнальные ошибки сервиса.
var (
	// ErrEventUnavailable событие не опубликовано или отменено.
	ErrEventUnavailable = errors.New("event is not available for registration")
)

// DummyCheckout тело запроса на создание платёжной сессии.
// Цена клиентом не передаётся и в любом случае игнорируется.
type DummyCheckout struct {
	Kind     string          `json:"kind" validate:"required,oneof=event_ticket subscription"`
	EventID  string          `json:"event_id,omitempty"`
	PlanName string          `json:"plan_name,omitempty"`
	Attendee models.Attendee `json:"attendee" validate:"required"`
}

// Intent преобразует тело запроса в типизированное намерение.
func (d DummyCheckout) Intent() models.PaymentIntent {
	return models.PaymentIntent{Kind: d.Kind, EventID: d.EventID, PlanName: d.PlanName}
}

// Result итог создания сессии: либо сессия шлюза, либо сразу выданный билет.
type Result struct {
	Session      *gateway.CheckoutSession `json:"session,omitempty"`
	Registration *registration.Result     `json:"registration,omitempty"`
}

// PriceOracle авторитетный источник цены события.
type PriceOracle interface {
	Resolve(ctx context.Context, eventID string) (*models.Event, error)
}

// PlanPricer серверный прайс тарифов.
type PlanPricer interface {
	PriceMinor(planName string) (int64, error)
}

// Registrar фиксация бесплатной регистрации без участия шлюза.
type Registrar interface {
	ConfirmPayment(ctx context.Context, intent models.PaymentIntent, attendee models.Attendee, amountMinor int64, transactionID string) (*registration.Result, error)
}

// Service сервис создания платёжных сессий.
type Service struct {
	oracle  PriceOracle
	plans   PlanPricer
	reg     Registrar
	adapter gateway.Adapter
	baseURL string
	log     *slog.Logger
}

// New создает новый Service.
func New(oracle PriceOracle, plans PlanPricer, reg Registrar, adapter gateway.Adapter, baseURL string, log *slog.Logger) *Service {
	return &Service{oracle: oracle, plans: plans, reg: reg, adapter: adapter, baseURL: baseURL, log: log}
}

// Create определяет серверную цену намерения и создаёт платёжную сессию
// в активном шлюзе. Для бесплатного события регистрация выдаётся сразу.
func (s *Service) Create(ctx context.Context, req DummyCheckout) (*Result, error) {
	const op = "checkout.Create"

	intent := req.Intent()
	if err := intent.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	title, amountMinor, err := s.resolvePrice(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if amountMinor == 0 {
		res, err := s.reg.ConfirmPayment(ctx, intent, req.Attendee, 0, "free_"+uuid.New().String())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &Result{Registration: res}, nil
	}

	session, err := s.adapter.CreateCheckout(ctx, gateway.CheckoutRequest{
		Intent:      intent,
		Title:       title,
		AmountMinor: amountMinor,
		Attendee:    req.Attendee,
		SuccessURL:  s.baseURL + "/payment/callback?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.cancelURL(intent),
		FailureURL:  s.baseURL + "/payment/failure",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Result{Session: session}, nil
}

// resolvePrice возвращает отображаемое название товара и цену в пайсах.
func (s *Service) resolvePrice(ctx context.Context, intent models.PaymentIntent) (string, int64, error) {
	if intent.Kind == models.IntentKindSubscription {
		price, err := s.plans.PriceMinor(intent.PlanName)
		if err != nil {
			return "", 0, err
		}
		return "Subscription: " + intent.PlanName, price, nil
	}

	event, err := s.oracle.Resolve(ctx, intent.EventID)
	if err != nil {
		return "", 0, err
	}
	if !event.IsPublished || event.Status != models.EventStatusActive {
		return "", 0, ErrEventUnavailable
	}
	return event.Title, event.PriceMinor, nil
}

func (s *Service) cancelURL(intent models.PaymentIntent) string {
	if intent.Kind == models.IntentKindSubscription {
		return s.baseURL + "/pricing"
	}
	return s.baseURL + "/register/" + intent.EventID
}
