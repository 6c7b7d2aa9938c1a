// Package models содержит доменные структуры маркетплейса билетов,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Статусы жизненного цикла события.
const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
)

// Event представляет событие, созданное организатором.
// Цена хранится в минимальных единицах валюты (пайсах),
// чтобы исключить ошибки округления при расчётах.
type Event struct {
	ID             string    `json:"id"`
	OrganizerEmail string    `json:"organizer_email"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	PriceMinor     int64     `json:"price_minor"`
	Category       string    `json:"category"`
	IsPublished    bool      `json:"is_published"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// DummyEvent используется для приёма данных события из JSON-запроса,
// прежде чем конвертировать их в Event. Дата приходит строкой RFC3339.
type DummyEvent struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required"`          // RFC3339
	Location    string `json:"location" validate:"required"`
	PriceMinor  int64  `json:"price_minor" validate:"gte=0"`      // Цена в пайсах (0 — бесплатное событие)
	Category    string `json:"category"`
	IsPublished bool   `json:"is_published"`
}
