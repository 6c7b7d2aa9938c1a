// Package cancel реализует HTTP-обработчик отмены события организатора.
package cancel

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
	eventsvc "github.com/hharryy/eventsnap/internal/services/event"
	"github.com/hharryy/eventsnap/internal/storage"
)

// Handler управляет HTTP-запросами на отмену событий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики отмены события
}

// Service описывает интерфейс бизнес-логики отмены события.
type Service interface {
	Cancel(ctx context.Context, organizerEmail, id string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на отмену события.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.cancel"
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

	err := h.service.Cancel(r.Context(), email, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("event not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		case errors.Is(err, eventsvc.ErrForbidden):
			log.Error("event belongs to another organizer", slog.String("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to cancel event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not cancel event"))
		}
		return
	}

	log.Info("success to cancel event", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
