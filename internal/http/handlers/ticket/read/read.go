// Package read реализует HTTP-обработчик страницы билета.
// По ID билета возвращаются данные регистрации и события для отрисовки QR-кода.
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

// Handler обрабатывает запросы на получение билета по идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики билетов
}

// Service описывает интерфейс бизнес-логики чтения билета.
type Service interface {
	Ticket(ctx context.Context, id string) (*models.Registration, *models.Event, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение билета по ID.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ticket.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	reg, event, err := h.service.Ticket(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("ticket not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("ticket not found"))
			return
		}
		log.Error("failed to read ticket", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read ticket"))
		return
	}

	log.Info("success to read ticket", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"registration": reg,
		"event":        event,
	}))
}
