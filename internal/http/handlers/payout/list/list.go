// Package list реализует HTTP-обработчики кошелька и списков заявок на выплату:
// сводку кошелька и заявки организатора, а также полный список для администратора.
package list

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

// Handler обрабатывает запросы кошелька и списков заявок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики выплат
}

// Service описывает интерфейс бизнес-логики кошелька и списков заявок.
type Service interface {
	Wallet(ctx context.Context, organizerEmail string) (*models.WalletSummary, error)
	ListMine(ctx context.Context, organizerEmail string) ([]*models.PayoutRequest, error)
	ListAll(ctx context.Context) ([]*models.PayoutRequest, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// Wallet обрабатывает запрос сводки кошелька организатора.
func (h *Handler) Wallet(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payout.wallet"
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

	res, err := h.service.Wallet(r.Context(), email)
	if err != nil {
		log.Error("failed to build wallet summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build wallet summary"))
		return
	}

	log.Info("success to build wallet summary", slog.String("organizer", email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"wallet": res,
	}))
}

// ServeHTTP обрабатывает запрос списка заявок организатора.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payout.list"
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
		log.Error("failed to list payout requests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payout requests"))
		return
	}

	log.Info("success to list payout requests", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payouts": res,
	}))
}

// All обрабатывает запрос полного списка заявок; маршрут защищён ролью admin.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payout.list.all"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list all payout requests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payout requests"))
		return
	}

	log.Info("success to list all payout requests", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payouts": res,
	}))
}
