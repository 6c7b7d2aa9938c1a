// Package event реализует бизнес-логику событий организатора:
// создание с проверкой квоты тарифа, изменение с заморозкой цены,
// отмену и списки посетителей.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/storage"
)

// Сигнальные ошибки сервиса событий.
var (
	// ErrQuotaExceeded квота активных событий тарифа исчерпана.
	ErrQuotaExceeded = errors.New("event quota exceeded")
	// ErrForbidden событие принадлежит другому организатору.
	ErrForbidden = errors.New("forbidden")
	// ErrPriceLocked цена неизменяема: по событию уже есть оплаченные билеты.
	ErrPriceLocked = errors.New("price is locked")
)

// Repository доступ к событиям и билетам в хранилище.
type Repository interface {
	CreateEvent(ctx context.Context, e models.Event) (string, error)
	ReadEvent(ctx context.Context, id string) (*models.Event, error)
	ListPublishedEvents(ctx context.Context, limit, offset int) ([]*models.Event, error)
	ListEventsByOrganizer(ctx context.Context, organizerEmail string) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, e models.Event, id, organizerEmail string) (int, error)
	CancelEvent(ctx context.Context, id, organizerEmail string) (int, error)
	CountActiveEventsByOrganizer(ctx context.Context, organizerEmail string) (int, error)
	CountPaidRegistrations(ctx context.Context, eventID string) (int, error)
	ListRegistrationsByEvent(ctx context.Context, eventID string, limit, offset int) ([]*models.Registration, error)
}

// PlanService состояние тарифа организатора.
type PlanService interface {
	Status(ctx context.Context, organizerEmail string) (*models.PlanStatus, error)
}

// CacheInvalidator сбрасывает кэш события после мутаций.
type CacheInvalidator interface {
	InvalidateEvent(eventID string)
}

// Service сервис событий.
type Service struct {
	repo  Repository
	plans PlanService
	cache CacheInvalidator
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, plans PlanService, cache CacheInvalidator, log *slog.Logger) *Service {
	return &Service{repo: repo, plans: plans, cache: cache, log: log}
}

// Create создаёт событие организатора с проверкой квоты тарифа.
func (s *Service) Create(ctx context.Context, organizerEmail string, req models.DummyEvent) (string, error) {
	const op = "event.Create"

	status, err := s.plans.Status(ctx, organizerEmail)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	count, err := s.repo.CountActiveEventsByOrganizer(ctx, organizerEmail)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if count >= status.MaxEvents {
		return "", fmt.Errorf("%s: %w", op, ErrQuotaExceeded)
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return "", fmt.Errorf("%s: invalid date: %w", op, err)
	}

	id, err := s.repo.CreateEvent(ctx, models.Event{
		OrganizerEmail: organizerEmail,
		Title:          req.Title,
		Description:    req.Description,
		Date:           date,
		Location:       req.Location,
		PriceMinor:     req.PriceMinor,
		Category:       req.Category,
		IsPublished:    req.IsPublished,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Read возвращает событие по ID.
func (s *Service) Read(ctx context.Context, id string) (*models.Event, error) {
	return s.repo.ReadEvent(ctx, id)
}

// ListPublished возвращает опубликованные активные события.
func (s *Service) ListPublished(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	return s.repo.ListPublishedEvents(ctx, limit, offset)
}

// ListMine возвращает события организатора.
func (s *Service) ListMine(ctx context.Context, organizerEmail string) ([]*models.Event, error) {
	return s.repo.ListEventsByOrganizer(ctx, organizerEmail)
}

// Update изменяет событие владельца. Цена замораживается после первого
// оплаченного билета: попытка её изменить возвращает ErrPriceLocked.
func (s *Service) Update(ctx context.Context, organizerEmail, id string, req models.DummyEvent) error {
	const op = "event.Update"

	current, err := s.repo.ReadEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current.OrganizerEmail != organizerEmail {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if req.PriceMinor != current.PriceMinor {
		paid, err := s.repo.CountPaidRegistrations(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if paid > 0 {
			return fmt.Errorf("%s: %w", op, ErrPriceLocked)
		}
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return fmt.Errorf("%s: invalid date: %w", op, err)
	}

	rows, err := s.repo.UpdateEvent(ctx, models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		PriceMinor:  req.PriceMinor,
		Category:    req.Category,
		IsPublished: req.IsPublished,
	}, id, organizerEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	s.cache.InvalidateEvent(id)
	return nil
}

// Cancel переводит событие владельца в статус cancelled.
func (s *Service) Cancel(ctx context.Context, organizerEmail, id string) error {
	const op = "event.Cancel"

	current, err := s.repo.ReadEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current.OrganizerEmail != organizerEmail {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	rows, err := s.repo.CancelEvent(ctx, id, organizerEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	s.cache.InvalidateEvent(id)
	return nil
}

// Attendees возвращает список билетов события; доступен только владельцу.
func (s *Service) Attendees(ctx context.Context, organizerEmail, eventID string, limit, offset int) ([]*models.Registration, error) {
	const op = "event.Attendees"

	current, err := s.repo.ReadEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.OrganizerEmail != organizerEmail {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return s.repo.ListRegistrationsByEvent(ctx, eventID, limit, offset)
}
