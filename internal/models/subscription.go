package models

import "time"

// Тарифы организаторов и статусы подписки.
const (
	PlanFree = "free"
	PlanPro  = "pro"

	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription представляет оплаченную подписку организатора на тариф.
// Подписка действует фиксированные 30 дней с момента оплаты.
type Subscription struct {
	ID             string    `json:"id"`
	OrganizerEmail string    `json:"organizer_email"`
	PlanName       string    `json:"plan_name"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status"`
	TransactionID  string    `json:"transaction_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// PlanStatus производное состояние тарифа организатора:
// комиссия площадки и квота на события зависят от наличия активной подписки.
type PlanStatus struct {
	PlanName       string  `json:"plan_name"`
	IsPro          bool    `json:"is_pro"`
	CommissionRate float64 `json:"commission_rate"`
	MaxEvents      int     `json:"max_events"`
}
