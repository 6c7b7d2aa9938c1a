package registration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hharryy/eventsnap/internal/models"
	"github.com/hharryy/eventsnap/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateRegistration(ctx context.Context, r models.Registration) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) ReadRegistration(ctx context.Context, id string) (*models.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}
func (m *RepoMock) FindRegistrationByTransactionID(ctx context.Context, transactionID string) (*models.Registration, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}
func (m *RepoMock) FindPaidRegistration(ctx context.Context, eventID, attendeeEmail string) (*models.Registration, error) {
	args := m.Called(ctx, eventID, attendeeEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}
func (m *RepoMock) MarkCheckedIn(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) FindSubscriptionByTransactionID(ctx context.Context, transactionID string) (*models.Subscription, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) ReadEvent(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) TicketIssued(reg *models.Registration, event *models.Event) error {
	return m.Called(reg, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var (
	ticketIntent = models.PaymentIntent{Kind: models.IntentKindEventTicket, EventID: "evt-1"}
	asha         = models.Attendee{Name: "Asha", Email: "asha@example.com"}
)

func TestConfirmPayment_NewTicket(t *testing.T) {
	repo := new(RepoMock)
	notif := new(NotifierMock)

	reg := &models.Registration{ID: "reg-1", EventID: "evt-1", AttendeeEmail: asha.Email}
	event := &models.Event{ID: "evt-1", Title: "Go Conference"}

	repo.On("CreateRegistration", mock.Anything, mock.MatchedBy(func(r models.Registration) bool {
		return r.EventID == "evt-1" &&
			r.PaymentStatus == models.PaymentStatusPaid &&
			r.TransactionID == "pi_1" &&
			r.AmountPaidMinor == int64(49900)
	})).Return("reg-1", nil)
	repo.On("ReadRegistration", mock.Anything, "reg-1").Return(reg, nil)
	repo.On("ReadEvent", mock.Anything, "evt-1").Return(event, nil)
	notif.On("TicketIssued", reg, event).Return(nil)

	svc := New(repo, notif, newNoopLogger())
	res, err := svc.ConfirmPayment(context.Background(), ticketIntent, asha, 49900, "pi_1")

	assert.NoError(t, err)
	assert.Equal(t, "reg-1", res.RegistrationID)
	assert.False(t, res.AlreadyExisted)
	repo.AssertExpectations(t)
	notif.AssertExpectations(t)
}

func TestConfirmPayment_DuplicateTransactionReturnsExisting(t *testing.T) {
	repo := new(RepoMock)
	notif := new(NotifierMock)

	repo.On("CreateRegistration", mock.Anything, mock.Anything).
		Return("", storage.ErrDuplicate)
	repo.On("FindRegistrationByTransactionID", mock.Anything, "pi_1").
		Return(&models.Registration{ID: "reg-1"}, nil)

	svc := New(repo, notif, newNoopLogger())
	res, err := svc.ConfirmPayment(context.Background(), ticketIntent, asha, 49900, "pi_1")

	assert.NoError(t, err)
	assert.Equal(t, "reg-1", res.RegistrationID)
	assert.True(t, res.AlreadyExisted)
	notif.AssertNotCalled(t, "TicketIssued")
}

func TestConfirmPayment_DuplicateAttendeeReturnsExisting(t *testing.T) {
	repo := new(RepoMock)
	notif := new(NotifierMock)

	// Другой transaction id, но пара (событие, email) уже оплачена.
	repo.On("CreateRegistration", mock.Anything, mock.Anything).
		Return("", storage.ErrDuplicate)
	repo.On("FindRegistrationByTransactionID", mock.Anything, "pi_2").
		Return(nil, storage.ErrNotFound)
	repo.On("FindPaidRegistration", mock.Anything, "evt-1", asha.Email).
		Return(&models.Registration{ID: "reg-1"}, nil)

	svc := New(repo, notif, newNoopLogger())
	res, err := svc.ConfirmPayment(context.Background(), ticketIntent, asha, 49900, "pi_2")

	assert.NoError(t, err)
	assert.Equal(t, "reg-1", res.RegistrationID)
	assert.True(t, res.AlreadyExisted)
	notif.AssertNotCalled(t, "TicketIssued")
}

func TestConfirmPayment_NotifierFailureDoesNotFailPayment(t *testing.T) {
	repo := new(RepoMock)
	notif := new(NotifierMock)

	reg := &models.Registration{ID: "reg-1", EventID: "evt-1"}
	event := &models.Event{ID: "evt-1"}

	repo.On("CreateRegistration", mock.Anything, mock.Anything).Return("reg-1", nil)
	repo.On("ReadRegistration", mock.Anything, "reg-1").Return(reg, nil)
	repo.On("ReadEvent", mock.Anything, "evt-1").Return(event, nil)
	notif.On("TicketIssued", reg, event).Return(errors.New("broker down"))

	svc := New(repo, notif, newNoopLogger())
	res, err := svc.ConfirmPayment(context.Background(), ticketIntent, asha, 49900, "pi_1")

	assert.NoError(t, err)
	assert.Equal(t, "reg-1", res.RegistrationID)
}

func TestConfirmPayment_Subscription(t *testing.T) {
	repo := new(RepoMock)
	intent := models.PaymentIntent{Kind: models.IntentKindSubscription, PlanName: models.PlanPro}

	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
		return s.OrganizerEmail == asha.Email &&
			s.PlanName == models.PlanPro &&
			s.TransactionID == "pay_1" &&
			s.EndDate.Sub(s.StartDate) == 30*24*time.Hour
	})).Return("sub-1", nil)

	svc := New(repo, new(NotifierMock), newNoopLogger())
	res, err := svc.ConfirmPayment(context.Background(), intent, asha, 49900, "pay_1")

	assert.NoError(t, err)
	assert.Equal(t, models.IntentKindSubscription, res.Kind)
	assert.Equal(t, "sub-1", res.SubscriptionID)
	repo.AssertExpectations(t)
}

func TestConfirmPayment_SubscriptionDuplicate(t *testing.T) {
	repo := new(RepoMock)
	intent := models.PaymentIntent{Kind: models.IntentKindSubscription, PlanName: models.PlanPro}

	repo.On("CreateSubscription", mock.Anything, mock.Anything).
		Return("", storage.ErrDuplicate)
	repo.On("FindSubscriptionByTransactionID", mock.Anything, "pay_1").
		Return(&models.Subscription{ID: "sub-1"}, nil)

	svc := New(repo, new(NotifierMock), newNoopLogger())
	res, err := svc.ConfirmPayment(context.Background(), intent, asha, 49900, "pay_1")

	assert.NoError(t, err)
	assert.Equal(t, "sub-1", res.SubscriptionID)
	assert.True(t, res.AlreadyExisted)
}

func TestConfirmPayment_InvalidIntent(t *testing.T) {
	svc := New(new(RepoMock), new(NotifierMock), newNoopLogger())
	_, err := svc.ConfirmPayment(context.Background(),
		models.PaymentIntent{Kind: "unknown"}, asha, 100, "tx")
	assert.Error(t, err)
}

func TestCheckIn(t *testing.T) {
	paid := &models.Registration{
		ID: "reg-1", EventID: "evt-1",
		PaymentStatus: models.PaymentStatusPaid,
		CheckinStatus: models.CheckinStatusPending,
	}
	event := &models.Event{ID: "evt-1", OrganizerEmail: "org@example.com"}

	tests := []struct {
		name       string
		organizer  string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:      "first scan checks in",
			organizer: "org@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRegistration", mock.Anything, "reg-1").Return(paid, nil)
				r.On("ReadEvent", mock.Anything, "evt-1").Return(event, nil)
				r.On("MarkCheckedIn", mock.Anything, "reg-1").Return(1, nil)
			},
		},
		{
			name:      "second scan rejected",
			organizer: "org@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRegistration", mock.Anything, "reg-1").Return(paid, nil)
				r.On("ReadEvent", mock.Anything, "evt-1").Return(event, nil)
				r.On("MarkCheckedIn", mock.Anything, "reg-1").Return(0, nil)
			},
			wantErr: ErrAlreadyCheckedIn,
		},
		{
			name:      "foreign organizer rejected",
			organizer: "other@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRegistration", mock.Anything, "reg-1").Return(paid, nil)
				r.On("ReadEvent", mock.Anything, "evt-1").Return(event, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:      "unpaid ticket rejected",
			organizer: "org@example.com",
			setupMocks: func(r *RepoMock) {
				pending := &models.Registration{
					ID: "reg-1", EventID: "evt-1",
					PaymentStatus: models.PaymentStatusPending,
				}
				r.On("ReadRegistration", mock.Anything, "reg-1").Return(pending, nil)
				r.On("ReadEvent", mock.Anything, "evt-1").Return(event, nil)
			},
			wantErr: ErrNotPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			svc := New(repo, new(NotifierMock), newNoopLogger())
			res, err := svc.CheckIn(context.Background(), tt.organizer, "reg-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, models.CheckinStatusCheckedIn, res.CheckinStatus)
			}
		})
	}
}
