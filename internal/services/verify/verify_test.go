package verify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hharryy/eventsnap/internal/gateway"
	"github.com/hharryy/eventsnap/internal/lib/payu"
	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/services/registration"
)

type StripeMock struct{ mock.Mock }

func (m *StripeMock) GetSession(ctx context.Context, sessionID string) (*gateway.StripeSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.StripeSession), args.Error(1)
}

type RegistrarMock struct{ mock.Mock }

func (m *RegistrarMock) ConfirmPayment(ctx context.Context, intent models.PaymentIntent, attendee models.Attendee, amountMinor int64, transactionID string) (*registration.Result, error) {
	args := m.Called(ctx, intent, attendee, amountMinor, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.Result), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func razorpaySign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyStripeSession(t *testing.T) {
	paidSession := &gateway.StripeSession{
		ID:            "cs_test_1",
		PaymentStatus: "paid",
		PaymentIntent: "pi_1",
		AmountTotal:   49900,
		Metadata: map[string]string{
			gateway.MetaIntentKind:    models.IntentKindEventTicket,
			gateway.MetaIntentRef:     "evt-1",
			gateway.MetaAttendeeName:  "Asha",
			gateway.MetaAttendeeEmail: "asha@example.com",
		},
	}

	tests := []struct {
		name       string
		setupMocks func(s *StripeMock, r *RegistrarMock)
		wantErr    error
	}{
		{
			name: "paid session confirms with payment intent key",
			setupMocks: func(s *StripeMock, r *RegistrarMock) {
				s.On("GetSession", mock.Anything, "cs_test_1").Return(paidSession, nil)
				r.On("ConfirmPayment", mock.Anything,
					models.PaymentIntent{Kind: models.IntentKindEventTicket, EventID: "evt-1"},
					models.Attendee{Name: "Asha", Email: "asha@example.com"},
					int64(49900), "pi_1").
					Return(&registration.Result{Kind: models.IntentKindEventTicket, RegistrationID: "reg-1"}, nil)
			},
		},
		{
			name: "unpaid session rejected",
			setupMocks: func(s *StripeMock, r *RegistrarMock) {
				s.On("GetSession", mock.Anything, "cs_test_1").
					Return(&gateway.StripeSession{ID: "cs_test_1", PaymentStatus: "unpaid"}, nil)
			},
			wantErr: ErrPaymentNotCompleted,
		},
		{
			name: "gateway error surfaces as gateway failure",
			setupMocks: func(s *StripeMock, r *RegistrarMock) {
				s.On("GetSession", mock.Anything, "cs_test_1").
					Return(nil, errors.New("boom"))
			},
			wantErr: ErrGatewayFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stripeMock := new(StripeMock)
			regMock := new(RegistrarMock)
			tt.setupMocks(stripeMock, regMock)

			svc := New(stripeMock, nil, "", regMock, newNoopLogger())
			res, err := svc.VerifyStripeSession(context.Background(), "cs_test_1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "reg-1", res.RegistrationID)
			}
			stripeMock.AssertExpectations(t)
			regMock.AssertExpectations(t)
		})
	}
}

func TestHandleRazorpayWebhook(t *testing.T) {
	const secret = "whsec"
	body := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_1",
			"amount": 25000,
			"email": "asha@example.com",
			"notes": {
				"intent_kind": "event_ticket",
				"intent_ref": "evt-1",
				"attendee_name": "Asha",
				"attendee_email": "asha@example.com"
			}
		}}}
	}`)

	t.Run("captured payment confirms registration", func(t *testing.T) {
		regMock := new(RegistrarMock)
		regMock.On("ConfirmPayment", mock.Anything,
			models.PaymentIntent{Kind: models.IntentKindEventTicket, EventID: "evt-1"},
			models.Attendee{Name: "Asha", Email: "asha@example.com"},
			int64(25000), "pay_1").
			Return(&registration.Result{Kind: models.IntentKindEventTicket, RegistrationID: "reg-1"}, nil)

		svc := New(nil, nil, secret, regMock, newNoopLogger())
		res, err := svc.HandleRazorpayWebhook(context.Background(), body, razorpaySign(secret, body))

		assert.NoError(t, err)
		assert.Equal(t, "reg-1", res.RegistrationID)
		regMock.AssertExpectations(t)
	})

	t.Run("altered body rejected", func(t *testing.T) {
		regMock := new(RegistrarMock)
		svc := New(nil, nil, secret, regMock, newNoopLogger())

		signature := razorpaySign(secret, body)
		altered := append([]byte{}, body...)
		altered[20]++

		_, err := svc.HandleRazorpayWebhook(context.Background(), altered, signature)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
		regMock.AssertNotCalled(t, "ConfirmPayment")
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		svc := New(nil, nil, secret, new(RegistrarMock), newNoopLogger())
		_, err := svc.HandleRazorpayWebhook(context.Background(), body, "")
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("other events acknowledged without effect", func(t *testing.T) {
		regMock := new(RegistrarMock)
		svc := New(nil, nil, secret, regMock, newNoopLogger())

		other := []byte(`{"event": "payment.authorized"}`)
		res, err := svc.HandleRazorpayWebhook(context.Background(), other, razorpaySign(secret, other))

		assert.NoError(t, err)
		assert.Nil(t, res)
		regMock.AssertNotCalled(t, "ConfirmPayment")
	})
}

type payuVerifierStub struct{ salt string }

func (s payuVerifierStub) VerifyReturn(f payu.ReturnFields, gotHash string) bool {
	return payu.VerifyReturn(f, s.salt, gotHash)
}

func signedPayUReturn(salt string) PayUReturn {
	fields := payu.ReturnFields{
		Status:      "success",
		TxnID:       "tx_1",
		Amount:      "250.00",
		ProductInfo: "Go Conference",
		Firstname:   "Asha",
		Email:       "asha@example.com",
		UDF1:        models.IntentKindEventTicket,
		UDF2:        "evt-1",
		Key:         "merchantkey",
	}
	return PayUReturn{
		Status:      fields.Status,
		TxnID:       fields.TxnID,
		Amount:      fields.Amount,
		ProductInfo: fields.ProductInfo,
		Firstname:   fields.Firstname,
		Email:       fields.Email,
		MihpayID:    "mih_1",
		UDF1:        fields.UDF1,
		UDF2:        fields.UDF2,
		Key:         fields.Key,
		Hash:        payu.ReturnHash(fields, salt),
	}
}

func TestHandlePayUReturn(t *testing.T) {
	const salt = "salt"

	t.Run("valid return confirms with mihpayid key", func(t *testing.T) {
		regMock := new(RegistrarMock)
		regMock.On("ConfirmPayment", mock.Anything,
			models.PaymentIntent{Kind: models.IntentKindEventTicket, EventID: "evt-1"},
			models.Attendee{Name: "Asha", Email: "asha@example.com"},
			int64(25000), "mih_1").
			Return(&registration.Result{Kind: models.IntentKindEventTicket, RegistrationID: "reg-1"}, nil)

		svc := New(nil, payuVerifierStub{salt: salt}, "", regMock, newNoopLogger())
		res, err := svc.HandlePayUReturn(context.Background(), signedPayUReturn(salt))

		assert.NoError(t, err)
		assert.Equal(t, "reg-1", res.RegistrationID)
		regMock.AssertExpectations(t)
	})

	t.Run("tampered amount rejected", func(t *testing.T) {
		regMock := new(RegistrarMock)
		svc := New(nil, payuVerifierStub{salt: salt}, "", regMock, newNoopLogger())

		ret := signedPayUReturn(salt)
		ret.Amount = "1.00"

		_, err := svc.HandlePayUReturn(context.Background(), ret)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
		regMock.AssertNotCalled(t, "ConfirmPayment")
	})

	t.Run("failure status is not a server error", func(t *testing.T) {
		regMock := new(RegistrarMock)
		svc := New(nil, payuVerifierStub{salt: salt}, "", regMock, newNoopLogger())

		fields := payu.ReturnFields{
			Status: "failure", TxnID: "tx_1", Amount: "250.00",
			ProductInfo: "Go Conference", Firstname: "Asha",
			Email: "asha@example.com", UDF1: models.IntentKindEventTicket,
			UDF2: "evt-1", Key: "merchantkey",
		}
		ret := signedPayUReturn(salt)
		ret.Status = "failure"
		ret.Hash = payu.ReturnHash(fields, salt)

		_, err := svc.HandlePayUReturn(context.Background(), ret)
		assert.ErrorIs(t, err, ErrPaymentFailed)
		regMock.AssertNotCalled(t, "ConfirmPayment")
	})
}

func TestParseRupees(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "499.00", want: 49900},
		{in: "250.5", want: 25050},
		{in: "0.99", want: 99},
		{in: "100", want: 10000},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRupees(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
