package models

import "time"

// TicketMessage сообщение очереди уведомлений о выпущенном билете.
// Публикуется после фиксации регистрации и потребляется воркером отправки почты.
type TicketMessage struct {
	RegistrationID string    `json:"registration_id"`
	EventTitle     string    `json:"event_title"`
	EventDate      time.Time `json:"event_date"`
	EventLocation  string    `json:"event_location"`
	AttendeeName   string    `json:"attendee_name"`
	AttendeeEmail  string    `json:"attendee_email"`
	AmountMinor    int64     `json:"amount_minor"`
	TransactionID  string    `json:"transaction_id"`
	TicketURL      string    `json:"ticket_url"`
}
