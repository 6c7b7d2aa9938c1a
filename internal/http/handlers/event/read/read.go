// Package read реализует HTTP-обработчик для получения события по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/storage"
)

// Handler обрабатывает запросы на получение события по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения события по ID
}

// Service описывает интерфейс бизнес-логики чтения события.
type Service interface {
	Read(ctx context.Context, id string) (*models.Event, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение события по ID.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing id in url"))
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("event not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}
		log.Error("failed to read event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read event"))
		return
	}

	log.Info("success to read event", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"event": res,
	}))
}
