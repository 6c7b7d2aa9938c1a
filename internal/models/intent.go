package models

import "fmt"

// Виды платёжного намерения. Намерение передаётся через метаданные шлюза
// (Stripe metadata, Razorpay notes, PayU udf-поля) и никогда не кодируется
// в отображаемой строке товара.
const (
	IntentKindEventTicket  = "event_ticket"
	IntentKindSubscription = "subscription"
)

// PaymentIntent явное типизированное намерение платежа.
// Для билета заполняется EventID, для подписки — PlanName.
type PaymentIntent struct {
	Kind     string `json:"kind"`
	EventID  string `json:"event_id,omitempty"`
	PlanName string `json:"plan_name,omitempty"`
}

// Reference возвращает ссылку намерения: идентификатор события или имя тарифа.
func (i PaymentIntent) Reference() string {
	if i.Kind == IntentKindSubscription {
		return i.PlanName
	}
	return i.EventID
}

// Validate проверяет согласованность намерения.
func (i PaymentIntent) Validate() error {
	switch i.Kind {
	case IntentKindEventTicket:
		if i.EventID == "" {
			return fmt.Errorf("intent: event_id is required for kind %q", i.Kind)
		}
	case IntentKindSubscription:
		if i.PlanName == "" {
			return fmt.Errorf("intent: plan_name is required for kind %q", i.Kind)
		}
	default:
		return fmt.Errorf("intent: unknown kind %q", i.Kind)
	}
	return nil
}

// IntentFromReference восстанавливает намерение из пары (kind, reference),
// полученной из метаданных шлюза.
func IntentFromReference(kind, reference string) (PaymentIntent, error) {
	intent := PaymentIntent{Kind: kind}
	switch kind {
	case IntentKindEventTicket:
		intent.EventID = reference
	case IntentKindSubscription:
		intent.PlanName = reference
	}
	if err := intent.Validate(); err != nil {
		return PaymentIntent{}, err
	}
	return intent, nil
}
