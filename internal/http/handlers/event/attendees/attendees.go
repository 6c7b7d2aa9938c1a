// Package attendees реализует HTTP-обработчик списка билетов события.
// Список доступен только организатору события.
package attendees

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hharryy/eventsnap/internal/http/middlewarectx"
	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
	eventsvc "github.com/hharryy/eventsnap/internal/services/event"
	"github.com/hharryy/eventsnap/internal/storage"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler обрабатывает запросы списка посетителей события.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики списка посетителей
}

// Service описывает интерфейс бизнес-логики списка посетителей.
type Service interface {
	Attendees(ctx context.Context, organizerEmail, eventID string, limit, offset int) ([]*models.Registration, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос списка билетов события.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.attendees"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	eventID := chi.URLParam(r, "id")

	email, ok := middlewarectx.EmailFromContext(r.Context())
	if !ok {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	limit := defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	res, err := h.service.Attendees(r.Context(), email, eventID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("event not found", slog.String("id", eventID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		case errors.Is(err, eventsvc.ErrForbidden):
			log.Error("event belongs to another organizer", slog.String("id", eventID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to list attendees", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list attendees"))
		}
		return
	}

	log.Info("success to list attendees", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"registrations": res,
	}))
}
