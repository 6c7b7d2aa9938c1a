package checkin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hharryy/eventsnap/internal/http/middlewarectx"
	"github.com/hharryy/eventsnap/internal/models"
	regsvc "github.com/hharryy/eventsnap/internal/services/registration"
	"github.com/hharryy/eventsnap/internal/storage"
)

// MockService реализует интерфейс checkin.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CheckIn(ctx context.Context, organizerEmail, registrationID string) (*models.Registration, error) {
	args := m.Called(ctx, organizerEmail, registrationID)
	if res := args.Get(0); res != nil {
		return res.(*models.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCheckinHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		withEmail      bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешный проход по билету",
			withEmail: true,
			setupMock: func(m *MockService) {
				m.On("CheckIn", mock.Anything, "org@example.com", "reg-1").
					Return(&models.Registration{
						ID:            "reg-1",
						CheckinStatus: models.CheckinStatusCheckedIn,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"checkin_status":"checked_in"`,
		},
		{
			name:           "нет email в контексте",
			withEmail:      false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:      "билет не найден",
			withEmail: true,
			setupMock: func(m *MockService) {
				m.On("CheckIn", mock.Anything, "org@example.com", "reg-1").
					Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"ticket not found"`,
		},
		{
			name:      "билет другого организатора",
			withEmail: true,
			setupMock: func(m *MockService) {
				m.On("CheckIn", mock.Anything, "org@example.com", "reg-1").
					Return(nil, regsvc.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"forbidden"`,
		},
		{
			name:      "билет не оплачен",
			withEmail: true,
			setupMock: func(m *MockService) {
				m.On("CheckIn", mock.Anything, "org@example.com", "reg-1").
					Return(nil, regsvc.ErrNotPaid)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"ticket is not paid"`,
		},
		{
			name:      "повторное сканирование",
			withEmail: true,
			setupMock: func(m *MockService) {
				m.On("CheckIn", mock.Anything, "org@example.com", "reg-1").
					Return(nil, regsvc.ErrAlreadyCheckedIn)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"ticket already checked in"`,
		},
		{
			name:      "ошибка сервиса",
			withEmail: true,
			setupMock: func(m *MockService) {
				m.On("CheckIn", mock.Anything, "org@example.com", "reg-1").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not check in"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/tickets/reg-1/checkin", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "reg-1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.withEmail {
				ctx = context.WithValue(ctx, middlewarectx.UserEmail, "org@example.com")
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
