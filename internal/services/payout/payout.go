// Package payout реализует кошелёк организатора и заявки на выплату.
//
// Баланс всегда вычисляется из фактов: сумма оплаченных билетов минус
// комиссия площадки минус заведённые заявки. Отдельного поля баланса нет,
// поэтому рассинхронизация с платежами невозможна.
package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/hharryy/eventsnap/internal/models"
)

// Сигнальные ошибки сервиса.
var (
	// ErrInsufficientBalance запрошенная сумма превышает доступный остаток.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidDecision решение по заявке не из множества paid|rejected.
	ErrInvalidDecision = errors.New("invalid payout decision")
	// ErrAlreadyDecided заявка уже решена или не существует.
	ErrAlreadyDecided = errors.New("payout request is not pending")
)

// Repository доступ к заявкам и выручке в хранилище.
type Repository interface {
	SumPaidByOrganizer(ctx context.Context, organizerEmail string) (int64, error)
	SumWithdrawnByOrganizer(ctx context.Context, organizerEmail string) (int64, error)
	CreatePayoutRequest(ctx context.Context, p models.PayoutRequest) (string, error)
	ListPayoutsByOrganizer(ctx context.Context, organizerEmail string) ([]*models.PayoutRequest, error)
	ListAllPayouts(ctx context.Context) ([]*models.PayoutRequest, error)
	UpdatePayoutStatus(ctx context.Context, id, status string) (int, error)
}

// PlanService состояние тарифа организатора, определяет ставку комиссии.
type PlanService interface {
	Status(ctx context.Context, organizerEmail string) (*models.PlanStatus, error)
}

// Service сервис выплат.
type Service struct {
	repo  Repository
	plans PlanService
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, plans PlanService, log *slog.Logger) *Service {
	return &Service{repo: repo, plans: plans, log: log}
}

// Wallet возвращает сводку кошелька организатора.
// Комиссия округляется до целых пайсов в пользу площадки.
func (s *Service) Wallet(ctx context.Context, organizerEmail string) (*models.WalletSummary, error) {
	const op = "payout.Wallet"

	status, err := s.plans.Status(ctx, organizerEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	gross, err := s.repo.SumPaidByOrganizer(ctx, organizerEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	withdrawn, err := s.repo.SumWithdrawnByOrganizer(ctx, organizerEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fee := int64(math.Ceil(float64(gross) * status.CommissionRate))
	net := gross - fee

	return &models.WalletSummary{
		GrossMinor:     gross,
		FeeMinor:       fee,
		NetMinor:       net,
		WithdrawnMinor: withdrawn,
		AvailableMinor: net - withdrawn,
		CommissionRate: status.CommissionRate,
	}, nil
}

// Request создаёт заявку на выплату в пределах доступного остатка.
// Остаток резервируется сразу: pending-заявки учитываются как выведенные.
func (s *Service) Request(ctx context.Context, organizerEmail string, req models.DummyPayoutRequest) (string, error) {
	const op = "payout.Request"

	wallet, err := s.Wallet(ctx, organizerEmail)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if req.AmountMinor > wallet.AvailableMinor {
		return "", fmt.Errorf("%s: %w", op, ErrInsufficientBalance)
	}

	id, err := s.repo.CreatePayoutRequest(ctx, models.PayoutRequest{
		OrganizerEmail: organizerEmail,
		AmountMinor:    req.AmountMinor,
		Destination:    req.Destination,
		Status:         models.PayoutStatusPending,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListMine возвращает заявки организатора.
func (s *Service) ListMine(ctx context.Context, organizerEmail string) ([]*models.PayoutRequest, error) {
	return s.repo.ListPayoutsByOrganizer(ctx, organizerEmail)
}

// ListAll возвращает все заявки; доступно только администратору.
func (s *Service) ListAll(ctx context.Context) ([]*models.PayoutRequest, error) {
	return s.repo.ListAllPayouts(ctx)
}

// Decide переводит pending-заявку в paid или rejected.
// Повторное решение по той же заявке возвращает ErrAlreadyDecided.
func (s *Service) Decide(ctx context.Context, id, decision string) error {
	const op = "payout.Decide"

	if decision != models.PayoutStatusPaid && decision != models.PayoutStatusRejected {
		return fmt.Errorf("%s: %w: %q", op, ErrInvalidDecision, decision)
	}

	rows, err := s.repo.UpdatePayoutStatus(ctx, id, decision)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, ErrAlreadyDecided)
	}

	s.log.Info("payout request decided",
		slog.String("id", id),
		slog.String("decision", decision))
	return nil
}
