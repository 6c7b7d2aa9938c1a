// Package pricing реализует прайс-оракул: авторитетный источник цены события.
//
// Цена для расчёта платежа всегда берётся из хранилища, цена из клиентского
// запроса не принимается ни в каком виде. Горячие события кэшируются в Redis.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
)

const cacheTTL = 5 * time.Minute

// EventRepository доступ к событиям в хранилище.
type EventRepository interface {
	ReadEvent(ctx context.Context, id string) (*models.Event, error)
}

// Cache кэш событий.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service прайс-оракул.
type Service struct {
	repo  EventRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(repo EventRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

func cacheKey(eventID string) string {
	return "event:" + eventID
}

// Resolve возвращает событие с авторитетной ценой и названием.
// Ошибки кэша не фатальны: оракул откатывается на хранилище.
func (s *Service) Resolve(ctx context.Context, eventID string) (*models.Event, error) {
	const op = "pricing.Resolve"

	var cached models.Event
	found, err := s.cache.Get(cacheKey(eventID), &cached)
	if err != nil {
		s.log.Warn("event cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	event, err := s.repo.ReadEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey(eventID), event, cacheTTL); err != nil {
		s.log.Warn("event cache write failed", sl.Err(err))
	}
	return event, nil
}

// InvalidateEvent сбрасывает кэш события после его изменения.
func (s *Service) InvalidateEvent(eventID string) {
	if err := s.cache.Invalidate(cacheKey(eventID)); err != nil {
		s.log.Warn("event cache invalidate failed", sl.Err(err))
	}
}
