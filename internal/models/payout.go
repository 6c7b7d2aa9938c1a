package models

import "time"

// Статусы заявки на выплату. Переход выполняет только администратор.
const (
	PayoutStatusPending  = "pending"
	PayoutStatusPaid     = "paid"
	PayoutStatusRejected = "rejected"
)

// PayoutRequest заявка организатора на вывод средств.
type PayoutRequest struct {
	ID             string     `json:"id"`
	OrganizerEmail string     `json:"organizer_email"`
	AmountMinor    int64      `json:"amount_minor"`
	Destination    string     `json:"destination"` // Например, UPI-идентификатор
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
}

// DummyPayoutRequest используется для приёма заявки на выплату из JSON-запроса.
type DummyPayoutRequest struct {
	AmountMinor int64  `json:"amount_minor" validate:"required,gt=0"`
	Destination string `json:"destination" validate:"required"`
}

// WalletSummary сводка кошелька организатора: валовая выручка,
// комиссия площадки, чистая выручка и уже выведенные средства.
type WalletSummary struct {
	GrossMinor     int64   `json:"gross_minor"`
	FeeMinor       int64   `json:"fee_minor"`
	NetMinor       int64   `json:"net_minor"`
	WithdrawnMinor int64   `json:"withdrawn_minor"`
	AvailableMinor int64   `json:"available_minor"`
	CommissionRate float64 `json:"commission_rate"`
}
