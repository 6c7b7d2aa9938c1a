// Package gateway содержит адаптеры платёжных шлюзов: Stripe, Razorpay и PayU.
//
// В каждом развёртывании активен ровно один адаптер. Все адаптеры реализуют
// общий контракт CreateCheckout: по намерению платежа и данным посетителя
// построить сессию оплаты. Платёжное намерение передаётся через метаданные
// шлюза (Stripe metadata, Razorpay notes, PayU udf-поля), чтобы при
// подтверждении восстановить его без разбора отображаемых строк.
package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/hharryy/eventsnap/internal/models"
)

// Имена активных шлюзов в конфигурации.
const (
	NameStripe   = "stripe"
	NameRazorpay = "razorpay"
	NamePayU     = "payu"
)

// Ключи метаданных, переносящие намерение через шлюз.
const (
	MetaIntentKind    = "intent_kind"
	MetaIntentRef     = "intent_ref"
	MetaAttendeeName  = "attendee_name"
	MetaAttendeeEmail = "attendee_email"
	MetaAttendeePhone = "attendee_phone"
)

// CheckoutRequest параметры создания платёжной сессии.
// Сумма всегда в минимальных единицах валюты; клиентская цена не принимается.
type CheckoutRequest struct {
	Intent      models.PaymentIntent
	Title       string // Отображаемое название товара, только для витрины шлюза
	AmountMinor int64
	Attendee    models.Attendee
	SuccessURL  string
	CancelURL   string
	FailureURL  string
}

// CheckoutSession результат создания сессии. Заполненные поля зависят от шлюза:
// Stripe возвращает RedirectURL, Razorpay — OrderID и KeyID для виджета,
// PayU — FormAction и FormFields для POST-редиректа, отправляемого клиентом.
type CheckoutSession struct {
	Gateway     string            `json:"gateway"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	OrderID     string            `json:"order_id,omitempty"`
	KeyID       string            `json:"key_id,omitempty"`
	FormAction  string            `json:"form_action,omitempty"`
	FormFields  map[string]string `json:"form_fields,omitempty"`
}

// Adapter общий контракт платёжного шлюза.
type Adapter interface {
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// NewTxnID генерирует уникальный идентификатор попытки оплаты.
func NewTxnID() string {
	return "tx_" + uuid.New().String()
}
