package pricing

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
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ReadEvent(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		*(result.(*models.Event)) = models.Event{ID: "evt-1", Title: "Cached", PriceMinor: 11100}
	}
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestResolve_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	cacheMock.On("Get", "event:evt-1", mock.Anything).Return(true, nil)

	svc := New(repo, cacheMock, newNoopLogger())
	event, err := svc.Resolve(context.Background(), "evt-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(11100), event.PriceMinor)
	repo.AssertNotCalled(t, "ReadEvent")
}

func TestResolve_CacheMissReadsStorage(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	stored := &models.Event{ID: "evt-1", Title: "Go Conference", PriceMinor: 25000}

	cacheMock.On("Get", "event:evt-1", mock.Anything).Return(false, nil)
	repo.On("ReadEvent", mock.Anything, "evt-1").Return(stored, nil)
	cacheMock.On("Set", "event:evt-1", stored, cacheTTL).Return(nil)

	svc := New(repo, cacheMock, newNoopLogger())
	event, err := svc.Resolve(context.Background(), "evt-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(25000), event.PriceMinor)
	cacheMock.AssertExpectations(t)
}

func TestResolve_CacheFailureIsNotFatal(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	stored := &models.Event{ID: "evt-1", PriceMinor: 25000}

	cacheMock.On("Get", "event:evt-1", mock.Anything).Return(false, errors.New("redis down"))
	repo.On("ReadEvent", mock.Anything, "evt-1").Return(stored, nil)
	cacheMock.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := New(repo, cacheMock, newNoopLogger())
	event, err := svc.Resolve(context.Background(), "evt-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(25000), event.PriceMinor)
}

func TestInvalidateEvent(t *testing.T) {
	cacheMock := new(CacheMock)
	cacheMock.On("Invalidate", "event:evt-1").Return(nil)

	svc := New(new(RepoMock), cacheMock, newNoopLogger())
	svc.InvalidateEvent("evt-1")

	cacheMock.AssertExpectations(t)
}
