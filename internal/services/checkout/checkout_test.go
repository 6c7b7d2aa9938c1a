package checkout

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hharryy/eventsnap/internal/gateway"
	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/services/registration"
)

type OracleMock struct{ mock.Mock }

func (m *OracleMock) Resolve(ctx context.Context, eventID string) (*models.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

type PlanPricerMock struct{ mock.Mock }

func (m *PlanPricerMock) PriceMinor(planName string) (int64, error) {
	args := m.Called(planName)
	return args.Get(0).(int64), args.Error(1)
}

type RegistrarMock struct{ mock.Mock }

func (m *RegistrarMock) ConfirmPayment(ctx context.Context, intent models.PaymentIntent, attendee models.Attendee, amountMinor int64, transactionID string) (*registration.Result, error) {
	args := m.Called(ctx, intent, attendee, amountMinor, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.Result), args.Error(1)
}

type AdapterMock struct{ mock.Mock }

func (m *AdapterMock) Name() string { return "mock" }

func (m *AdapterMock) CreateCheckout(ctx context.Context, req gateway.CheckoutRequest) (*gateway.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.CheckoutSession), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const baseURL = "https://eventsnap.example.com"

var asha = models.Attendee{Name: "Asha", Email: "asha@example.com"}

func TestCreate_PaidEventUsesServerPrice(t *testing.T) {
	oracle := new(OracleMock)
	adapter := new(AdapterMock)

	oracle.On("Resolve", mock.Anything, "evt-1").Return(&models.Event{
		ID: "evt-1", Title: "Go Conference", PriceMinor: 25000,
		IsPublished: true, Status: models.EventStatusActive,
	}, nil)
	adapter.On("CreateCheckout", mock.Anything, mock.MatchedBy(func(req gateway.CheckoutRequest) bool {
		return req.AmountMinor == int64(25000) &&
			req.Title == "Go Conference" &&
			req.Intent.EventID == "evt-1" &&
			strings.HasPrefix(req.SuccessURL, baseURL+"/payment/callback") &&
			req.CancelURL == baseURL+"/register/evt-1"
	})).Return(&gateway.CheckoutSession{Gateway: "mock", RedirectURL: "https://pay.example.com/s1"}, nil)

	svc := New(oracle, new(PlanPricerMock), new(RegistrarMock), adapter, baseURL, newNoopLogger())
	res, err := svc.Create(context.Background(), DummyCheckout{
		Kind:     models.IntentKindEventTicket,
		EventID:  "evt-1",
		Attendee: asha,
	})

	assert.NoError(t, err)
	assert.NotNil(t, res.Session)
	assert.Nil(t, res.Registration)
	oracle.AssertExpectations(t)
	adapter.AssertExpectations(t)
}

func TestCreate_FreeEventSkipsGateway(t *testing.T) {
	oracle := new(OracleMock)
	adapter := new(AdapterMock)
	reg := new(RegistrarMock)

	oracle.On("Resolve", mock.Anything, "evt-free").Return(&models.Event{
		ID: "evt-free", Title: "Meetup", PriceMinor: 0,
		IsPublished: true, Status: models.EventStatusActive,
	}, nil)
	reg.On("ConfirmPayment", mock.Anything,
		models.PaymentIntent{Kind: models.IntentKindEventTicket, EventID: "evt-free"},
		asha, int64(0),
		mock.MatchedBy(func(txn string) bool { return strings.HasPrefix(txn, "free_") })).
		Return(&registration.Result{Kind: models.IntentKindEventTicket, RegistrationID: "reg-1"}, nil)

	svc := New(oracle, new(PlanPricerMock), reg, adapter, baseURL, newNoopLogger())
	res, err := svc.Create(context.Background(), DummyCheckout{
		Kind:     models.IntentKindEventTicket,
		EventID:  "evt-free",
		Attendee: asha,
	})

	assert.NoError(t, err)
	assert.Nil(t, res.Session)
	assert.Equal(t, "reg-1", res.Registration.RegistrationID)
	adapter.AssertNotCalled(t, "CreateCheckout")
}

func TestCreate_UnpublishedEventRejected(t *testing.T) {
	oracle := new(OracleMock)
	oracle.On("Resolve", mock.Anything, "evt-1").Return(&models.Event{
		ID: "evt-1", PriceMinor: 25000,
		IsPublished: false, Status: models.EventStatusActive,
	}, nil)

	svc := New(oracle, new(PlanPricerMock), new(RegistrarMock), new(AdapterMock), baseURL, newNoopLogger())
	_, err := svc.Create(context.Background(), DummyCheckout{
		Kind:     models.IntentKindEventTicket,
		EventID:  "evt-1",
		Attendee: asha,
	})

	assert.ErrorIs(t, err, ErrEventUnavailable)
}

func TestCreate_CancelledEventRejected(t *testing.T) {
	oracle := new(OracleMock)
	oracle.On("Resolve", mock.Anything, "evt-1").Return(&models.Event{
		ID: "evt-1", PriceMinor: 25000,
		IsPublished: true, Status: models.EventStatusCancelled,
	}, nil)

	svc := New(oracle, new(PlanPricerMock), new(RegistrarMock), new(AdapterMock), baseURL, newNoopLogger())
	_, err := svc.Create(context.Background(), DummyCheckout{
		Kind:     models.IntentKindEventTicket,
		EventID:  "evt-1",
		Attendee: asha,
	})

	assert.ErrorIs(t, err, ErrEventUnavailable)
}

func TestCreate_SubscriptionUsesPlanPrice(t *testing.T) {
	plans := new(PlanPricerMock)
	adapter := new(AdapterMock)

	plans.On("PriceMinor", models.PlanPro).Return(int64(49900), nil)
	adapter.On("CreateCheckout", mock.Anything, mock.MatchedBy(func(req gateway.CheckoutRequest) bool {
		return req.AmountMinor == int64(49900) &&
			req.Intent.Kind == models.IntentKindSubscription &&
			req.CancelURL == baseURL+"/pricing"
	})).Return(&gateway.CheckoutSession{Gateway: "mock"}, nil)

	svc := New(new(OracleMock), plans, new(RegistrarMock), adapter, baseURL, newNoopLogger())
	res, err := svc.Create(context.Background(), DummyCheckout{
		Kind:     models.IntentKindSubscription,
		PlanName: models.PlanPro,
		Attendee: asha,
	})

	assert.NoError(t, err)
	assert.NotNil(t, res.Session)
	plans.AssertExpectations(t)
}

func TestCreate_InvalidIntent(t *testing.T) {
	svc := New(new(OracleMock), new(PlanPricerMock), new(RegistrarMock), new(AdapterMock), baseURL, newNoopLogger())
	_, err := svc.Create(context.Background(), DummyCheckout{
		Kind:     models.IntentKindEventTicket,
		Attendee: asha,
	})
	assert.Error(t, err)
}
