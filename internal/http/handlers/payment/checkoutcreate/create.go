// Package checkoutcreate реализует HTTP-обработчик создания платёжной сессии.
//
// Обработчик публичный: посетитель регистрируется на событие без аккаунта.
// Цена определяется на сервере; для бесплатного события билет выдаётся сразу.
package checkoutcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/services/checkout"
	"github.com/hharryy/eventsnap/internal/services/plan"
	"github.com/hharryy/eventsnap/internal/storage"
)

// Handler управляет HTTP-запросами на создание платёжных сессий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики создания сессии
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания платёжной сессии.
type Service interface {
	Create(ctx context.Context, req checkout.DummyCheckout) (*checkout.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платёжную сессию
// @Description Создает сессию оплаты билета или подписки в активном шлюзе. Для бесплатного события сразу возвращает билет.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body checkout.DummyCheckout true "Намерение платежа и данные посетителя"
// @Success 200 {object} map[string]any "Сессия шлюза либо выданный билет"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или намерение"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера или шлюза"
// @Router /payments/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkoutcreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req checkout.DummyCheckout
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded",
		slog.String("kind", req.Kind),
		slog.String("event_id", req.EventID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("event not found", slog.String("event_id", req.EventID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		case errors.Is(err, checkout.ErrEventUnavailable):
			log.Error("event unavailable", slog.String("event_id", req.EventID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("event is not available for registration"))
		case errors.Is(err, plan.ErrUnknownPlan):
			log.Error("unknown plan", slog.String("plan", req.PlanName))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown plan"))
		default:
			log.Error("failed to create checkout", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create checkout"))
		}
		return
	}

	log.Info("success to create checkout")
	render.JSON(w, r, response.StatusOKWithData(res))
}
