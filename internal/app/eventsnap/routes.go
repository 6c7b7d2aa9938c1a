// Package eventsnap предоставляет маршруты основного приложения.
package eventsnap

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	eventattendees "github.com/hharryy/eventsnap/internal/http/handlers/event/attendees"
	eventcancel "github.com/hharryy/eventsnap/internal/http/handlers/event/cancel"
	eventcreate "github.com/hharryy/eventsnap/internal/http/handlers/event/create"
	eventlist "github.com/hharryy/eventsnap/internal/http/handlers/event/list"
	eventread "github.com/hharryy/eventsnap/internal/http/handlers/event/read"
	eventupdate "github.com/hharryy/eventsnap/internal/http/handlers/event/update"
	"github.com/hharryy/eventsnap/internal/http/handlers/health"
	"github.com/hharryy/eventsnap/internal/http/handlers/payment/checkoutcreate"
	"github.com/hharryy/eventsnap/internal/http/handlers/payment/payucallback"
	paymentverify "github.com/hharryy/eventsnap/internal/http/handlers/payment/verify"
	"github.com/hharryy/eventsnap/internal/http/handlers/payment/webhook"
	payoutcreate "github.com/hharryy/eventsnap/internal/http/handlers/payout/create"
	payoutdecide "github.com/hharryy/eventsnap/internal/http/handlers/payout/decide"
	payoutlist "github.com/hharryy/eventsnap/internal/http/handlers/payout/list"
	planstatus "github.com/hharryy/eventsnap/internal/http/handlers/plan/status"
	ticketcheckin "github.com/hharryy/eventsnap/internal/http/handlers/ticket/checkin"
	ticketread "github.com/hharryy/eventsnap/internal/http/handlers/ticket/read"
	ticketsend "github.com/hharryy/eventsnap/internal/http/handlers/ticket/send"
	"github.com/hharryy/eventsnap/internal/http/middlewarectx"
	jwtlib "github.com/hharryy/eventsnap/internal/lib/jwt"
	"github.com/hharryy/eventsnap/internal/services/checkout"
	eventsvc "github.com/hharryy/eventsnap/internal/services/event"
	"github.com/hharryy/eventsnap/internal/services/payout"
	"github.com/hharryy/eventsnap/internal/services/plan"
	"github.com/hharryy/eventsnap/internal/services/registration"
	"github.com/hharryy/eventsnap/internal/services/verify"
)

// Services сервисы, необходимые HTTP-слою.
type Services struct {
	Event        *eventsvc.Service
	Plan         *plan.Service
	Checkout     *checkout.Service
	Verify       *verify.Service
	Registration *registration.Service
	Payout       *payout.Service

	// PublicBaseURL база для браузерных редиректов шлюзовых обработчиков.
	PublicBaseURL string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwtlib.Maker, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки: витрина, покупка билета, страница билета
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Get("/events", eventlist.New(logger, s.Event).ServeHTTP)
		r.Get("/events/{id}", eventread.New(logger, s.Event).ServeHTTP)
		r.Post("/payments/checkout", checkoutcreate.New(logger, s.Checkout).ServeHTTP)
		r.Get("/payments/verify", paymentverify.New(logger, s.Verify).ServeHTTP)
		r.Get("/tickets/{id}", ticketread.New(logger, s.Registration).ServeHTTP)
		r.Post("/tickets/{id}/send", ticketsend.New(logger, s.Registration).ServeHTTP)

		// Конечные точки шлюзов (аутентификация подписью или хэшем)
		r.Post("/payments/webhook", webhook.New(logger, s.Verify).ServeHTTP)
		r.Post("/payments/payu/callback", payucallback.New(logger, s.Verify, s.PublicBaseURL).ServeHTTP)

		// Группа организатора с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/events", eventcreate.New(logger, s.Event).ServeHTTP)
			r.Get("/events/mine", eventlist.New(logger, s.Event).Mine)
			r.Put("/events/{id}", eventupdate.New(logger, s.Event).ServeHTTP)
			r.Delete("/events/{id}", eventcancel.New(logger, s.Event).ServeHTTP)
			r.Get("/events/{id}/attendees", eventattendees.New(logger, s.Event).ServeHTTP)
			r.Post("/tickets/{id}/checkin", ticketcheckin.New(logger, s.Registration).ServeHTTP)
			r.Get("/plans/status", planstatus.New(logger, s.Plan).ServeHTTP)
			r.Get("/payouts/wallet", payoutlist.New(logger, s.Payout).Wallet)
			r.Get("/payouts", payoutlist.New(logger, s.Payout).ServeHTTP)
			r.Post("/payouts", payoutcreate.New(logger, s.Payout).ServeHTTP)

			// Группа администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/admin/payouts", payoutlist.New(logger, s.Payout).All)
				r.Post("/admin/payouts/{id}/decide", payoutdecide.New(logger, s.Payout).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
