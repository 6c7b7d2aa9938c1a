// Package eventsnap собирает основное приложение: хранилище, кэш, очередь
// уведомлений, активный платёжный шлюз и HTTP-сервер с маршрутами.
package eventsnap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/hharryy/eventsnap/internal/cache"
	"github.com/hharryy/eventsnap/internal/config"
	"github.com/hharryy/eventsnap/internal/gateway"
	jwtlib "github.com/hharryy/eventsnap/internal/lib/jwt"
	"github.com/hharryy/eventsnap/internal/lib/rabbitmq"
	"github.com/hharryy/eventsnap/internal/migrations"
	"github.com/hharryy/eventsnap/internal/services/checkout"
	eventsvc "github.com/hharryy/eventsnap/internal/services/event"
	"github.com/hharryy/eventsnap/internal/services/notifier"
	"github.com/hharryy/eventsnap/internal/services/payout"
	"github.com/hharryy/eventsnap/internal/services/plan"
	"github.com/hharryy/eventsnap/internal/services/pricing"
	"github.com/hharryy/eventsnap/internal/services/registration"
	"github.com/hharryy/eventsnap/internal/services/verify"
	"github.com/hharryy/eventsnap/internal/storage"
)

// App основное приложение маркетплейса билетов.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение из конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	adapter, stripeClient, payuBuilder, err := buildGateway(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("payment gateway configured", slog.String("gateway", adapter.Name()))

	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	pricingService := pricing.New(db, cacheRedis, logger)
	planService := plan.New(db, logger)
	eventService := eventsvc.New(db, planService, pricingService, logger)
	notifierService := notifier.New(&notifier.AMQPPublisher{Ch: ch}, cfg.PublicBaseURL, logger)
	registrationService := registration.New(db, notifierService, logger)
	checkoutService := checkout.New(pricingService, planService, registrationService, adapter, cfg.PublicBaseURL, logger)
	verifyService := verify.New(stripeClient, payuBuilder, cfg.RazorpayWebhookSecret, registrationService, logger)
	payoutService := payout.New(db, planService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, &Services{
		Event:        eventService,
		Plan:         planService,
		Checkout:     checkoutService,
		Verify:       verifyService,
		Registration: registrationService,
		Payout:       payoutService,

		PublicBaseURL: cfg.PublicBaseURL,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// buildGateway выбирает активный адаптер по конфигурации. Клиент Stripe
// и билдер PayU возвращаются отдельно: сервис подтверждения использует их
// напрямую, но только когда соответствующий шлюз активен.
func buildGateway(cfg *config.Config) (gateway.Adapter, *gateway.StripeClient, *gateway.PayUBuilder, error) {
	switch cfg.Gateway {
	case gateway.NameStripe:
		client, err := gateway.NewStripeClient(cfg.StripeSecretKey)
		if err != nil {
			return nil, nil, nil, err
		}
		return client, client, nil, nil
	case gateway.NameRazorpay:
		client, err := gateway.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
		if err != nil {
			return nil, nil, nil, err
		}
		return client, nil, nil, nil
	case gateway.NamePayU:
		builder, err := gateway.NewPayUBuilder(cfg.PayUKey, cfg.PayUSalt, cfg.PayUBaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return builder, nil, builder, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown payment gateway: %q", cfg.Gateway)
	}
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
