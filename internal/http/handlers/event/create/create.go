// Package create реализует HTTP-обработчик для создания новых событий организатора.
//
// Handler принимает JSON-запрос с данными события, валидирует их, извлекает email
// организатора из контекста, вызывает бизнес-логику создания события и возвращает
// ID созданной записи в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hharryy/eventsnap/internal/http/middlewarectx"
	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
	eventsvc "github.com/hharryy/eventsnap/internal/services/event"
)

// Handler управляет HTTP-запросами на создание новых событий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания событий
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания события.
type Service interface {
	Create(ctx context.Context, organizerEmail string, req models.DummyEvent) (string, error)
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
// @Summary Создать новое событие
// @Description Создает событие текущего организатора с учётом квоты тарифа. Возвращает ID созданной записи.
// @Tags Events
// @Accept  json
// @Produce  json
// @Param request body models.DummyEvent true "Данные нового события"
// @Success 200 {object} map[string]any "Успешное создание события"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Квота активных событий исчерпана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании события"
// @Router /events [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	email, ok := middlewarectx.EmailFromContext(r.Context())
	if !ok {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), email, req)
	if err != nil {
		if errors.Is(err, eventsvc.ErrQuotaExceeded) {
			log.Error("event quota exceeded", slog.String("organizer", email))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("active event limit reached, upgrade your plan"))
			return
		}
		log.Error("failed to create event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create event"))
		return
	}

	log.Info("success to create event", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
