// Package payucallback реализует HTTP-обработчик обратного POST от PayU.
//
// PayU возвращает клиента на surl/furl POST-формой, то есть в этот обработчик
// приходит браузер покупателя. Обратный хэш проверяется до разбора полей;
// неуспешный статус платежа не является ошибкой сервера: клиент перенаправляется
// на страницу неудачи, а успешный платёж завершается редиректом на билет.
package payucallback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/hharryy/eventsnap/internal/http/response"
	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/services/registration"
	verifysvc "github.com/hharryy/eventsnap/internal/services/verify"
)

// Handler управляет обратными POST-запросами PayU.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис подтверждения платежей
	baseURL string       // Публичный базовый URL для редиректов браузера
}

// Service описывает интерфейс обработки обратного POST PayU.
type Service interface {
	HandlePayUReturn(ctx context.Context, ret verifysvc.PayUReturn) (*registration.Result, error)
}

// New создает новый Handler с переданным логгером, сервисом и базовым URL.
func New(log *slog.Logger, service Service, baseURL string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ServeHTTP обрабатывает обратный POST PayU.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.payucallback"
	log := h.log.With(slog.String("op", op))

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid form body"))
		return
	}

	ret := verifysvc.PayUReturn{
		Status:      r.PostFormValue("status"),
		TxnID:       r.PostFormValue("txnid"),
		Amount:      r.PostFormValue("amount"),
		ProductInfo: r.PostFormValue("productinfo"),
		Firstname:   r.PostFormValue("firstname"),
		Email:       r.PostFormValue("email"),
		Phone:       r.PostFormValue("phone"),
		MihpayID:    r.PostFormValue("mihpayid"),
		UDF1:        r.PostFormValue("udf1"),
		UDF2:        r.PostFormValue("udf2"),
		UDF3:        r.PostFormValue("udf3"),
		UDF4:        r.PostFormValue("udf4"),
		UDF5:        r.PostFormValue("udf5"),
		Key:         r.PostFormValue("key"),
		Hash:        r.PostFormValue("hash"),
	}

	res, err := h.service.HandlePayUReturn(r.Context(), ret)
	if err != nil {
		switch {
		case errors.Is(err, verifysvc.ErrSignatureMismatch):
			log.Error("invalid payu hash", slog.String("txnid", ret.TxnID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
		case errors.Is(err, verifysvc.ErrPaymentFailed):
			log.Info("payu payment declined, redirecting to failure page",
				slog.String("txnid", ret.TxnID),
				slog.String("status", ret.Status))
			http.Redirect(w, r, h.baseURL+"/payment/failure", http.StatusSeeOther)
		default:
			log.Error("failed to process payu callback", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process payment"))
		}
		return
	}

	log.Info("payu payment processed",
		slog.String("kind", res.Kind),
		slog.Bool("already_existed", res.AlreadyExisted))
	http.Redirect(w, r, h.successURL(res), http.StatusSeeOther)
}

// successURL страница, на которую уводится браузер после успешной оплаты:
// для билета это его страница с QR-кодом, для подписки общая страница успеха.
func (h *Handler) successURL(res *registration.Result) string {
	if res.Kind == models.IntentKindEventTicket && res.RegistrationID != "" {
		return h.baseURL + "/tickets/" + res.RegistrationID
	}
	return h.baseURL + "/payment/success"
}
