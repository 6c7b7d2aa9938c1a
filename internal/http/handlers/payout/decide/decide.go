// Package decide реализует HTTP-обработчик решения по заявке на выплату.
// Маршрут защищён ролью admin; допустимые решения: paid и rejected.
package decide

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	payoutsvc "github.com/hharryy/eventsnap/internal/services/payout"
)

// Handler управляет HTTP-запросами решения по заявкам на выплату.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики выплат
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс решения по заявке.
type Service interface {
	Decide(ctx context.Context, id, decision string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type decideRequest struct {
	Decision string `json:"decision" validate:"required,oneof=paid rejected"`
}

// ServeHTTP обрабатывает HTTP-запрос решения по заявке.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payout.decide"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err := h.service.Decide(r.Context(), id, req.Decision)
	if err != nil {
		switch {
		case errors.Is(err, payoutsvc.ErrInvalidDecision):
			log.Error("invalid decision", slog.String("decision", req.Decision))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("decision must be paid or rejected"))
		case errors.Is(err, payoutsvc.ErrAlreadyDecided):
			log.Error("payout request is not pending", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payout request not found or already decided"))
		default:
			log.Error("failed to decide payout request", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not decide payout request"))
		}
		return
	}

	log.Info("success to decide payout request",
		slog.String("id", id),
		slog.String("decision", req.Decision))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":       id,
		"decision": req.Decision,
	}))
}
