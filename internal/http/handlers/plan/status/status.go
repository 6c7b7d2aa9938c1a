// Package status реализует HTTP-обработчик состояния тарифа организатора.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hharryy/eventsnap/internal/http/middlewarectx"
	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
)

// Handler обрабатывает запросы состояния тарифа.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики тарифов
}

// Service описывает интерфейс бизнес-логики тарифов.
type Service interface {
	Status(ctx context.Context, organizerEmail string) (*models.PlanStatus, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние тарифа организатора
// @Description Возвращает имя тарифа, ставку комиссии и квоту на активные события.
// @Tags Plans
// @Produce  json
// @Success 200 {object} map[string]any "Состояние тарифа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.status"
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

	res, err := h.service.Status(r.Context(), email)
	if err != nil {
		log.Error("failed to get plan status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get plan status"))
		return
	}

	log.Info("success to get plan status", slog.String("plan", res.PlanName))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plan": res,
	}))
}
