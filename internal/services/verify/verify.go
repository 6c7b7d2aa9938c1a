// Package verify подтверждает платежи тремя путями, по одному на шлюз:
// pull-перечитывание сессии Stripe, вебхук Razorpay с HMAC-подписью
// и обратный POST PayU с контрольным хэшем.
//
// Любая проверка подписи или хэша выполняется до разбора полезной нагрузки.
// Ответ клиенту при расхождении подписи одинаков и не раскрывает причину.
package verify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hharryy/eventsnap/internal/gateway"
	"github.com/hharryy/eventsnap/internal/lib/payu"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/services/registration"
)

// Сигнальные ошибки сервиса.
var (
	// ErrSignatureMismatch подпись или контрольный хэш не сошлись.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrPaymentNotCompleted платёж не завершён на стороне шлюза.
	ErrPaymentNotCompleted = errors.New("payment is not completed")
	// ErrGatewayFailure ошибка обращения к API шлюза, можно повторить.
	ErrGatewayFailure = errors.New("payment failed at gateway")
	// ErrPaymentFailed шлюз сообщил о неуспехе платежа. Восстановимый исход:
	// клиент возвращается на страницу неудачи и может оплатить заново.
	ErrPaymentFailed = errors.New("payment was declined")
)

// StripeSessionReader перечитывает checkout-сессию у Stripe.
type StripeSessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*gateway.StripeSession, error)
}

// PayUVerifier проверяет обратный хэш PayU.
type PayUVerifier interface {
	VerifyReturn(f payu.ReturnFields, gotHash string) bool
}

// Registrar фиксация бизнес-эффекта подтверждённого платежа.
type Registrar interface {
	ConfirmPayment(ctx context.Context, intent models.PaymentIntent, attendee models.Attendee, amountMinor int64, transactionID string) (*registration.Result, error)
}

// Service сервис подтверждения платежей.
type Service struct {
	stripe        StripeSessionReader
	payu          PayUVerifier
	webhookSecret string
	reg           Registrar
	log           *slog.Logger
}

// New создает новый Service. Поля шлюзов, не активных в данном
// развёртывании, допускают nil: соответствующие маршруты не регистрируются.
func New(stripe StripeSessionReader, payuVerifier PayUVerifier, webhookSecret string, reg Registrar, log *slog.Logger) *Service {
	return &Service{
		stripe:        stripe,
		payu:          payuVerifier,
		webhookSecret: webhookSecret,
		reg:           reg,
		log:           log,
	}
}

// VerifyStripeSession подтверждает платёж Stripe: сессия перечитывается
// у шлюза по идентификатору, поля из клиентского редиректа не используются.
// Идемпотентность обеспечивается ключом payment_intent.
func (s *Service) VerifyStripeSession(ctx context.Context, sessionID string) (*registration.Result, error) {
	const op = "verify.VerifyStripeSession"

	if s.stripe == nil {
		return nil, fmt.Errorf("%s: stripe gateway is not active", op)
	}

	session, err := s.stripe.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrGatewayFailure)
	}
	if session.PaymentStatus != "paid" {
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotCompleted)
	}

	intent, err := models.IntentFromReference(
		session.Metadata[gateway.MetaIntentKind],
		session.Metadata[gateway.MetaIntentRef],
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	attendee := models.Attendee{
		Name:  session.Metadata[gateway.MetaAttendeeName],
		Email: session.Metadata[gateway.MetaAttendeeEmail],
		Phone: session.Metadata[gateway.MetaAttendeePhone],
	}

	res, err := s.reg.ConfirmPayment(ctx, intent, attendee, session.AmountTotal, session.PaymentIntent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// razorpayEvent полезная нагрузка вебхука Razorpay.
type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID     string            `json:"id"`
				Amount int64             `json:"amount"`
				Email  string            `json:"email"`
				Notes  map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleRazorpayWebhook проверяет HMAC-подпись сырого тела вебхука
// и фиксирует платёж по событию payment.captured. Остальные события
// подтверждаются без побочных эффектов.
func (s *Service) HandleRazorpayWebhook(ctx context.Context, body []byte, signature string) (*registration.Result, error) {
	const op = "verify.HandleRazorpayWebhook"

	if !s.validRazorpaySignature(body, signature) {
		return nil, fmt.Errorf("%s: %w", op, ErrSignatureMismatch)
	}

	var event razorpayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if event.Event != "payment.captured" {
		s.log.Info("razorpay webhook ignored", slog.String("event", event.Event))
		return nil, nil
	}

	entity := event.Payload.Payment.Entity
	intent, err := models.IntentFromReference(
		entity.Notes[gateway.MetaIntentKind],
		entity.Notes[gateway.MetaIntentRef],
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	attendee := models.Attendee{
		Name:  entity.Notes[gateway.MetaAttendeeName],
		Email: entity.Notes[gateway.MetaAttendeeEmail],
		Phone: entity.Notes[gateway.MetaAttendeePhone],
	}
	if attendee.Email == "" {
		attendee.Email = entity.Email
	}

	res, err := s.reg.ConfirmPayment(ctx, intent, attendee, entity.Amount, entity.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Подпись Razorpay: HMAC-SHA256 от сырого тела, секрет вебхука, hex-кодировка.
func (s *Service) validRazorpaySignature(body []byte, signature string) bool {
	if s.webhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(signature))
}

// PayUReturn поля обратного POST от PayU.
type PayUReturn struct {
	Status      string
	TxnID       string
	Amount      string
	ProductInfo string
	Firstname   string
	Email       string
	Phone       string
	MihpayID    string
	UDF1        string
	UDF2        string
	UDF3        string
	UDF4        string
	UDF5        string
	Key         string
	Hash        string
}

// HandlePayUReturn проверяет обратный хэш PayU и фиксирует платёж.
// Идемпотентность обеспечивается ключом mihpayid.
func (s *Service) HandlePayUReturn(ctx context.Context, ret PayUReturn) (*registration.Result, error) {
	const op = "verify.HandlePayUReturn"

	if s.payu == nil {
		return nil, fmt.Errorf("%s: payu gateway is not active", op)
	}

	fields := payu.ReturnFields{
		Status:      ret.Status,
		TxnID:       ret.TxnID,
		Amount:      ret.Amount,
		ProductInfo: ret.ProductInfo,
		Firstname:   ret.Firstname,
		Email:       ret.Email,
		UDF1:        ret.UDF1,
		UDF2:        ret.UDF2,
		UDF3:        ret.UDF3,
		UDF4:        ret.UDF4,
		UDF5:        ret.UDF5,
		Key:         ret.Key,
	}
	if !s.payu.VerifyReturn(fields, ret.Hash) {
		return nil, fmt.Errorf("%s: %w", op, ErrSignatureMismatch)
	}

	if ret.Status != "success" {
		s.log.Info("payu payment not successful",
			slog.String("txnid", ret.TxnID),
			slog.String("status", ret.Status))
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentFailed)
	}

	amountMinor, err := ParseRupees(ret.Amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	intent, err := models.IntentFromReference(ret.UDF1, ret.UDF2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	attendee := models.Attendee{
		Name:  ret.Firstname,
		Email: ret.Email,
		Phone: ret.Phone,
	}

	res, err := s.reg.ConfirmPayment(ctx, intent, attendee, amountMinor, ret.MihpayID)
	if err != nil {
		s.log.Error("payu payment confirmation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ParseRupees переводит строку рупий формата шлюза ("499.00") в пайсы.
func ParseRupees(amount string) (int64, error) {
	whole, frac, _ := strings.Cut(amount, ".")
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	var paise int64
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		paise, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
	}
	return rupees*100 + paise, nil
}
