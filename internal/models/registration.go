package models

import "time"

// Статусы оплаты и прохода на событие.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"

	CheckinStatusPending   = "pending"
	CheckinStatusCheckedIn = "checked_in"
)

// Registration представляет билет: одну запись посетителя на событие.
// TransactionID — внешний идентификатор платежа (Stripe payment_intent,
// Razorpay order, PayU mihpayid); уникален на уровне базы данных.
type Registration struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	AttendeeName    string    `json:"attendee_name"`
	AttendeeEmail   string    `json:"attendee_email"`
	Phone           string    `json:"phone,omitempty"`
	AmountPaidMinor int64     `json:"amount_paid_minor"`
	PaymentStatus   string    `json:"payment_status"`
	CheckinStatus   string    `json:"checkin_status"`
	TransactionID   string    `json:"transaction_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Attendee данные посетителя, проходящие через весь платёжный конвейер.
type Attendee struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty"`
}
