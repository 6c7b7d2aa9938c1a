// Package webhook реализует HTTP-обработчик вебхука Razorpay.
//
// Подпись X-Razorpay-Signature проверяется по сырому телу запроса
// до любого разбора полезной нагрузки. Ответ на неверную подпись
// одинаков и не раскрывает причину отказа.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/services/registration"
	verifysvc "github.com/hharryy/eventsnap/internal/services/verify"
)

// Handler управляет HTTP-запросами вебхука Razorpay.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис подтверждения платежей
}

// Service описывает интерфейс обработки вебхука Razorpay.
type Service interface {
	HandleRazorpayWebhook(ctx context.Context, body []byte, signature string) (*registration.Result, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает вебхук Razorpay.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Razorpay-Signature")

	res, err := h.service.HandleRazorpayWebhook(r.Context(), body, signature)
	if err != nil {
		if errors.Is(err, verifysvc.ErrSignatureMismatch) {
			log.Error("invalid webhook signature")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
			return
		}
		log.Error("failed to process webhook", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process webhook"))
		return
	}

	if res == nil {
		log.Info("webhook event ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Info("webhook processed",
		slog.String("kind", res.Kind),
		slog.Bool("already_existed", res.AlreadyExisted))
	render.JSON(w, r, response.StatusOKWithData(res))
}
