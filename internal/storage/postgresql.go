// Package storage реализует хранилище данных на основе PostgreSQL
// для маркетплейса билетов. Предоставляет методы работы с событиями,
// регистрациями (билетами), подписками организаторов и заявками на выплаты.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hharryy/eventsnap/internal/models"
)

// Сигнальные ошибки хранилища. ErrDuplicate возвращается при нарушении
// уникального ограничения: вызывающая сторона обязана трактовать его
// как идемпотентный «уже существует», а не как сбой.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// ===== EVENT METHODS =====

// CreateEvent вставляет новое событие и возвращает его ID.
func (s *Storage) CreateEvent(ctx context.Context, e models.Event) (string, error) {
	const op = "storage.CreateEvent"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO events (organizer_email, title, description, date, location,
			      price_minor, category, is_published, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		e.OrganizerEmail, e.Title, e.Description, e.Date, e.Location,
		e.PriceMinor, e.Category, e.IsPublished, models.EventStatusActive).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadEvent возвращает событие по его ID.
func (s *Storage) ReadEvent(ctx context.Context, id string) (*models.Event, error) {
	const op = "storage.ReadEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_email, title, description, date, location,
			      price_minor, category, is_published, status, created_at
			  FROM events WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var e models.Event
	if err := row.Scan(&e.ID, &e.OrganizerEmail, &e.Title, &e.Description, &e.Date,
		&e.Location, &e.PriceMinor, &e.Category, &e.IsPublished, &e.Status, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

// ListPublishedEvents возвращает опубликованные активные события с пагинацией.
func (s *Storage) ListPublishedEvents(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	const op = "storage.ListPublishedEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_email, title, description, date, location,
			      price_minor, category, is_published, status, created_at
			  FROM events
			  WHERE is_published = true AND status = 'active'
			  ORDER BY date
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.OrganizerEmail, &e.Title, &e.Description, &e.Date,
			&e.Location, &e.PriceMinor, &e.Category, &e.IsPublished, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListEventsByOrganizer возвращает все события организатора.
func (s *Storage) ListEventsByOrganizer(ctx context.Context, organizerEmail string) ([]*models.Event, error) {
	const op = "storage.ListEventsByOrganizer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_email, title, description, date, location,
			      price_minor, category, is_published, status, created_at
			  FROM events
			  WHERE organizer_email = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, organizerEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.OrganizerEmail, &e.Title, &e.Description, &e.Date,
			&e.Location, &e.PriceMinor, &e.Category, &e.IsPublished, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEvent обновляет событие владельца и возвращает количество изменённых строк.
func (s *Storage) UpdateEvent(ctx context.Context, e models.Event, id, organizerEmail string) (int, error) {
	const op = "storage.UpdateEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE events
			  SET title = $1, description = $2, date = $3, location = $4,
			      price_minor = $5, category = $6, is_published = $7
			  WHERE id = $8 AND organizer_email = $9`
	result, err := s.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.Date, e.Location,
		e.PriceMinor, e.Category, e.IsPublished, id, organizerEmail)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CancelEvent переводит событие владельца в статус cancelled.
func (s *Storage) CancelEvent(ctx context.Context, id, organizerEmail string) (int, error) {
	const op = "storage.CancelEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE events
			  SET status = 'cancelled'
			  WHERE id = $1 AND organizer_email = $2 AND status = 'active'`
	result, err := s.DB.ExecContext(ctx, query, id, organizerEmail)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountActiveEventsByOrganizer подсчитывает активные события организатора
// для проверки квоты тарифа.
func (s *Storage) CountActiveEventsByOrganizer(ctx context.Context, organizerEmail string) (int, error) {
	const op = "storage.CountActiveEventsByOrganizer"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM events
			  WHERE organizer_email = $1 AND status = 'active'`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, organizerEmail).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountPaidRegistrations подсчитывает оплаченные билеты события.
// Ненулевой результат замораживает цену события.
func (s *Storage) CountPaidRegistrations(ctx context.Context, eventID string) (int, error) {
	const op = "storage.CountPaidRegistrations"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM registrations
			  WHERE event_id = $1 AND payment_status = 'paid'`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ===== REGISTRATION METHODS =====

// CreateRegistration вставляет билет и возвращает его ID.
// Нарушение уникальности (transaction_id либо оплаченная пара event+email)
// возвращается как ErrDuplicate.
func (s *Storage) CreateRegistration(ctx context.Context, r models.Registration) (string, error) {
	const op = "storage.CreateRegistration"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO registrations (event_id, attendee_name, attendee_email, phone,
			      amount_paid_minor, payment_status, checkin_status, transaction_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		r.EventID, r.AttendeeName, r.AttendeeEmail, r.Phone,
		r.AmountPaidMinor, r.PaymentStatus, models.CheckinStatusPending, r.TransactionID).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadRegistration возвращает билет по его ID.
func (s *Storage) ReadRegistration(ctx context.Context, id string) (*models.Registration, error) {
	const op = "storage.ReadRegistration"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, event_id, attendee_name, attendee_email, phone, amount_paid_minor,
			      payment_status, checkin_status, transaction_id, created_at
			  FROM registrations WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var r models.Registration
	if err := row.Scan(&r.ID, &r.EventID, &r.AttendeeName, &r.AttendeeEmail, &r.Phone,
		&r.AmountPaidMinor, &r.PaymentStatus, &r.CheckinStatus, &r.TransactionID, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

// FindRegistrationByTransactionID ищет билет по внешнему идентификатору платежа.
func (s *Storage) FindRegistrationByTransactionID(ctx context.Context, transactionID string) (*models.Registration, error) {
	const op = "storage.FindRegistrationByTransactionID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, event_id, attendee_name, attendee_email, phone, amount_paid_minor,
			      payment_status, checkin_status, transaction_id, created_at
			  FROM registrations WHERE transaction_id = $1`
	row := s.DB.QueryRowContext(ctx, query, transactionID)

	var r models.Registration
	if err := row.Scan(&r.ID, &r.EventID, &r.AttendeeName, &r.AttendeeEmail, &r.Phone,
		&r.AmountPaidMinor, &r.PaymentStatus, &r.CheckinStatus, &r.TransactionID, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

// FindPaidRegistration ищет оплаченный билет по паре (событие, email посетителя).
func (s *Storage) FindPaidRegistration(ctx context.Context, eventID, attendeeEmail string) (*models.Registration, error) {
	const op = "storage.FindPaidRegistration"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, event_id, attendee_name, attendee_email, phone, amount_paid_minor,
			      payment_status, checkin_status, transaction_id, created_at
			  FROM registrations
			  WHERE event_id = $1 AND attendee_email = $2 AND payment_status = 'paid'`
	row := s.DB.QueryRowContext(ctx, query, eventID, attendeeEmail)

	var r models.Registration
	if err := row.Scan(&r.ID, &r.EventID, &r.AttendeeName, &r.AttendeeEmail, &r.Phone,
		&r.AmountPaidMinor, &r.PaymentStatus, &r.CheckinStatus, &r.TransactionID, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

// ListRegistrationsByEvent возвращает список билетов события с пагинацией.
func (s *Storage) ListRegistrationsByEvent(ctx context.Context, eventID string, limit, offset int) ([]*models.Registration, error) {
	const op = "storage.ListRegistrationsByEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, event_id, attendee_name, attendee_email, phone, amount_paid_minor,
			      payment_status, checkin_status, transaction_id, created_at
			  FROM registrations
			  WHERE event_id = $1
			  ORDER BY created_at
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, eventID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Registration
	for rows.Next() {
		var r models.Registration
		if err := rows.Scan(&r.ID, &r.EventID, &r.AttendeeName, &r.AttendeeEmail, &r.Phone,
			&r.AmountPaidMinor, &r.PaymentStatus, &r.CheckinStatus, &r.TransactionID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkCheckedIn переводит билет в checked_in. Переход одноразовый:
// повторный вызов вернёт 0 изменённых строк.
func (s *Storage) MarkCheckedIn(ctx context.Context, id string) (int, error) {
	const op = "storage.MarkCheckedIn"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE registrations
			  SET checkin_status = 'checked_in'
			  WHERE id = $1 AND payment_status = 'paid' AND checkin_status = 'pending'`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SumPaidByOrganizer возвращает валовую выручку организатора
// по оплаченным билетам всех его событий.
func (s *Storage) SumPaidByOrganizer(ctx context.Context, organizerEmail string) (int64, error) {
	const op = "storage.SumPaidByOrganizer"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(r.amount_paid_minor), 0)
			  FROM registrations r
			  JOIN events e ON r.event_id = e.id
			  WHERE e.organizer_email = $1 AND r.payment_status = 'paid'`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, organizerEmail).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// ===== SUBSCRIPTION METHODS =====

// CreateSubscription вставляет оплаченную подписку организатора.
// Повтор по transaction_id возвращает ErrDuplicate.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (organizer_email, plan_name, start_date, end_date,
			      status, transaction_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.OrganizerEmail, sub.PlanName, sub.StartDate, sub.EndDate,
		models.SubscriptionStatusActive, sub.TransactionID).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindActiveSubscription возвращает действующую подписку организатора, если она есть.
func (s *Storage) FindActiveSubscription(ctx context.Context, organizerEmail string) (*models.Subscription, error) {
	const op = "storage.FindActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_email, plan_name, start_date, end_date, status,
			      transaction_id, created_at
			  FROM subscriptions
			  WHERE organizer_email = $1 AND status = 'active' AND end_date > NOW()
			  ORDER BY created_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, organizerEmail)

	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.OrganizerEmail, &sub.PlanName, &sub.StartDate,
		&sub.EndDate, &sub.Status, &sub.TransactionID, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// FindSubscriptionByTransactionID ищет подписку по внешнему идентификатору платежа.
func (s *Storage) FindSubscriptionByTransactionID(ctx context.Context, transactionID string) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByTransactionID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_email, plan_name, start_date, end_date, status,
			      transaction_id, created_at
			  FROM subscriptions
			  WHERE transaction_id = $1`
	row := s.DB.QueryRowContext(ctx, query, transactionID)

	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.OrganizerEmail, &sub.PlanName, &sub.StartDate,
		&sub.EndDate, &sub.Status, &sub.TransactionID, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ===== PAYOUT METHODS =====

// CreatePayoutRequest вставляет заявку организатора на выплату.
func (s *Storage) CreatePayoutRequest(ctx context.Context, p models.PayoutRequest) (string, error) {
	const op = "storage.CreatePayoutRequest"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payout_requests (organizer_email, amount_minor, destination, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		p.OrganizerEmail, p.AmountMinor, p.Destination, models.PayoutStatusPending).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPayoutsByOrganizer возвращает заявки организатора на выплаты.
func (s *Storage) ListPayoutsByOrganizer(ctx context.Context, organizerEmail string) ([]*models.PayoutRequest, error) {
	const op = "storage.ListPayoutsByOrganizer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_email, amount_minor, destination, status, created_at, decided_at
			  FROM payout_requests
			  WHERE organizer_email = $1
			  ORDER BY created_at DESC`
	return s.scanPayouts(ctx, query, organizerEmail)
}

// ListAllPayouts возвращает все заявки на выплаты (для администратора).
func (s *Storage) ListAllPayouts(ctx context.Context) ([]*models.PayoutRequest, error) {
	const op = "storage.ListAllPayouts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_email, amount_minor, destination, status, created_at, decided_at
			  FROM payout_requests
			  ORDER BY created_at DESC`
	return s.scanPayouts(ctx, query)
}

func (s *Storage) scanPayouts(ctx context.Context, query string, args ...any) ([]*models.PayoutRequest, error) {
	const op = "storage.scanPayouts"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PayoutRequest
	for rows.Next() {
		var p models.PayoutRequest
		var decidedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.OrganizerEmail, &p.AmountMinor, &p.Destination,
			&p.Status, &p.CreatedAt, &decidedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if decidedAt.Valid {
			p.DecidedAt = &decidedAt.Time
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePayoutStatus переводит заявку из pending в paid либо rejected.
func (s *Storage) UpdatePayoutStatus(ctx context.Context, id, status string) (int, error) {
	const op = "storage.UpdatePayoutStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payout_requests
			  SET status = $1, decided_at = NOW()
			  WHERE id = $2 AND status = 'pending'`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SumWithdrawnByOrganizer суммирует уже выведенные и ожидающие выплаты организатора.
// Отклонённые заявки в сумму не входят.
func (s *Storage) SumWithdrawnByOrganizer(ctx context.Context, organizerEmail string) (int64, error) {
	const op = "storage.SumWithdrawnByOrganizer"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount_minor), 0)
			  FROM payout_requests
			  WHERE organizer_email = $1 AND status IN ('pending', 'paid')`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, organizerEmail).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
