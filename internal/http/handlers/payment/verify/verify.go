// Package verify реализует HTTP-обработчик подтверждения платежа Stripe.
//
// Клиент после редиректа передаёт только session_id; состояние платежа
// перечитывается у шлюза, клиентским полям сервер не доверяет.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/services/registration"
	verifysvc "github.com/hharryy/eventsnap/internal/services/verify"
)

// Handler управляет HTTP-запросами подтверждения платежа Stripe.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис подтверждения платежей
}

// Service описывает интерфейс подтверждения платежа Stripe.
type Service interface {
	VerifyStripeSession(ctx context.Context, sessionID string) (*registration.Result, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить платёж Stripe
// @Description Перечитывает checkout-сессию у Stripe и фиксирует билет или подписку. Повторный вызов идемпотентен.
// @Tags Payments
// @Produce  json
// @Param session_id query string true "ID checkout-сессии Stripe"
// @Success 200 {object} map[string]any "Результат подтверждения"
// @Failure 400 {object} response.ErrorResponse "Платёж не завершён или сессия некорректна"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/verify [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		log.Error("missing session_id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing session_id"))
		return
	}

	res, err := h.service.VerifyStripeSession(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, verifysvc.ErrPaymentNotCompleted),
			errors.Is(err, verifysvc.ErrGatewayFailure):
			log.Error("payment verification failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
		default:
			log.Error("failed to verify payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify payment"))
		}
		return
	}

	log.Info("payment verified",
		slog.String("kind", res.Kind),
		slog.Bool("already_existed", res.AlreadyExisted))
	render.JSON(w, r, response.StatusOKWithData(res))
}
