// Package plan вычисляет производное состояние тарифа организатора.
//
// Бесплатный тариф: комиссия площадки 15%, не более одного активного события.
// Тариф pro (активная неистёкшая подписка): комиссия 0%, события без лимита.
package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/storage"
)

// Правила тарифов.
const (
	FreeCommissionRate = 0.15
	ProCommissionRate  = 0.0
	FreeMaxEvents      = 1
	ProMaxEvents       = 9999
)

// ErrUnknownPlan тариф с таким именем не продаётся.
var ErrUnknownPlan = errors.New("unknown plan")

// Серверный прайс тарифов в пайсах. Цена из клиентского запроса не принимается.
var planPrices = map[string]int64{
	models.PlanPro: 49900,
}

// SubscriptionRepository доступ к подпискам организаторов.
type SubscriptionRepository interface {
	FindActiveSubscription(ctx context.Context, organizerEmail string) (*models.Subscription, error)
}

// Service сервис тарифов.
type Service struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo SubscriptionRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Status возвращает текущее состояние тарифа организатора.
// Отсутствие активной подписки означает бесплатный тариф, а не ошибку.
func (s *Service) Status(ctx context.Context, organizerEmail string) (*models.PlanStatus, error) {
	const op = "plan.Status"

	sub, err := s.repo.FindActiveSubscription(ctx, organizerEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &models.PlanStatus{
				PlanName:       models.PlanFree,
				IsPro:          false,
				CommissionRate: FreeCommissionRate,
				MaxEvents:      FreeMaxEvents,
			}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.PlanStatus{
		PlanName:       sub.PlanName,
		IsPro:          true,
		CommissionRate: ProCommissionRate,
		MaxEvents:      ProMaxEvents,
	}, nil
}

// PriceMinor возвращает серверную цену тарифа в пайсах.
func (s *Service) PriceMinor(planName string) (int64, error) {
	price, ok := planPrices[planName]
	if !ok {
		return 0, fmt.Errorf("plan.PriceMinor: %w: %q", ErrUnknownPlan, planName)
	}
	return price, nil
}
