// Package list реализует HTTP-обработчики списков событий:
// публичную витрину и список событий текущего организатора.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hharryy/eventsnap/internal/http/middlewarectx"
	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler обрабатывает запросы списков событий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики списков событий
}

// Service описывает интерфейс бизнес-логики списков событий.
type Service interface {
	ListPublished(ctx context.Context, limit, offset int) ([]*models.Event, error)
	ListMine(ctx context.Context, organizerEmail string) ([]*models.Event, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список опубликованных событий
// @Description Возвращает опубликованные активные события с пагинацией.
// @Tags Events
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список событий"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := pagination(r)

	res, err := h.service.ListPublished(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list events"))
		return
	}

	log.Info("success to list events", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"events": res,
	}))
}

// Mine обрабатывает запрос списка событий текущего организатора.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.list.mine"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := middlewarectx.EmailFromContext(r.Context())
	if !ok {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.ListMine(r.Context(), email)
	if err != nil {
		log.Error("failed to list organizer events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list events"))
		return
	}

	log.Info("success to list organizer events", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"events": res,
	}))
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
