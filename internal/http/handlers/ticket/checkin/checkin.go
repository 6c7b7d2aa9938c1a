// Package checkin реализует HTTP-обработчик прохода по билету.
//
// Проход одноразовый: повторное сканирование того же билета возвращает
// HTTP 409 Conflict. Отметить проход может только организатор события.
package checkin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hharryy/eventsnap/internal/http/middlewarectx"
	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
	regsvc "github.com/hharryy/eventsnap/internal/services/registration"
	"github.com/hharryy/eventsnap/internal/storage"
)

// Handler управляет HTTP-запросами прохода по билету.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики билетов
}

// Service описывает интерфейс бизнес-логики прохода.
type Service interface {
	CheckIn(ctx context.Context, organizerEmail, registrationID string) (*models.Registration, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отметить проход по билету
// @Description Переводит билет в статус checked_in. Повторное сканирование возвращает 409.
// @Tags Tickets
// @Produce  json
// @Param id path string true "ID билета"
// @Success 200 {object} map[string]any "Проход отмечен"
// @Failure 400 {object} response.ErrorResponse "Билет не оплачен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Билет на событие другого организатора"
// @Failure 404 {object} response.ErrorResponse "Билет не найден"
// @Failure 409 {object} response.ErrorResponse "Билет уже использован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tickets/{id}/checkin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ticket.checkin"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	email, ok := middlewarectx.EmailFromContext(r.Context())
	if !ok {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	reg, err := h.service.CheckIn(r.Context(), email, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("ticket not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("ticket not found"))
		case errors.Is(err, regsvc.ErrForbidden):
			log.Error("ticket belongs to another organizer", slog.String("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, regsvc.ErrNotPaid):
			log.Error("ticket is not paid", slog.String("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("ticket is not paid"))
		case errors.Is(err, regsvc.ErrAlreadyCheckedIn):
			log.Error("ticket already checked in", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("ticket already checked in"))
		default:
			log.Error("failed to check in", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not check in"))
		}
		return
	}

	log.Info("success to check in", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"registration": reg,
	}))
}
