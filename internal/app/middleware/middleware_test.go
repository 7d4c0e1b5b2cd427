package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/middleware"
	"vacationrental/internal/app/uow"
	uowmocks "vacationrental/internal/app/uow/mocks"
	"vacationrental/internal/domain/shared/errs"
)

type result struct {
	ID int `json:"id"`
}

type createThing struct {
	Name    string
	IdemKey string
}

func (c createThing) Key() string            { return "things.create" }
func (c createThing) IdempotencyKey() string { return c.IdemKey }
func (c createThing) ResultPrototype() any   { return &result{} }

type otherThing struct{ IdemKey string }

func (c otherThing) Key() string            { return "things.other" }
func (c otherThing) IdempotencyKey() string { return c.IdemKey }
func (c otherThing) ResultPrototype() any   { return &result{} }

type busFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f busFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) { return f(ctx, cmd) }

type mapStore struct {
	mu         sync.Mutex
	records    map[string]middleware.IdempotencyRecord
	saveErr    error
	releaseErr error
}

func newMapStore() *mapStore {
	return &mapStore{records: map[string]middleware.IdempotencyRecord{}}
}

func (s *mapStore) Reserve(_ context.Context, rec middleware.IdempotencyRecord) (middleware.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[rec.Key]; ok {
		return existing, true, nil
	}
	s.records[rec.Key] = rec
	return rec, false, nil
}

func (s *mapStore) Save(_ context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[rec.Key] = rec
	return nil
}

func (s *mapStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.releaseErr != nil {
		return s.releaseErr
	}
	if rec, ok := s.records[key]; ok && rec.Pending {
		delete(s.records, key)
	}
	return nil
}

func TestIdempotencyReplaysResult(t *testing.T) {
	calls := 0
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		return &result{ID: calls}, nil
	})
	store := newMapStore()
	bus := middleware.ChainCommands(next, middleware.Idempotency(store, nil))

	first, err := bus.Dispatch(context.Background(), createThing{IdemKey: "abc"})
	require.NoError(t, err)
	second, err := bus.Dispatch(context.Background(), createThing{IdemKey: "abc"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, &result{ID: 1}, first)
	assert.Equal(t, &result{ID: 1}, second)
	assert.Contains(t, store.records, "things.create:abc")
}

func TestIdempotencyScopesKeysByCommand(t *testing.T) {
	calls := 0
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		return &result{ID: calls}, nil
	})
	bus := middleware.ChainCommands(next, middleware.Idempotency(newMapStore(), nil))

	_, err := bus.Dispatch(context.Background(), createThing{IdemKey: "same"})
	require.NoError(t, err)
	res, err := bus.Dispatch(context.Background(), otherThing{IdemKey: "same"})
	require.NoError(t, err)
	assert.Equal(t, &result{ID: 2}, res)
}

func TestIdempotencyWithoutKeyAlwaysRuns(t *testing.T) {
	calls := 0
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		return &result{ID: calls}, nil
	})
	store := newMapStore()
	bus := middleware.ChainCommands(next, middleware.Idempotency(store, nil))

	for i := 0; i < 2; i++ {
		_, err := bus.Dispatch(context.Background(), createThing{})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.records)
}

func TestIdempotencyReplaysKindedErrors(t *testing.T) {
	calls := 0
	rejection := fmt.Errorf("%w: booking: not available", errs.ErrConflict)
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		return nil, rejection
	})
	bus := middleware.ChainCommands(next, middleware.Idempotency(newMapStore(), nil))

	_, err := bus.Dispatch(context.Background(), createThing{IdemKey: "k"})
	require.ErrorIs(t, err, errs.ErrConflict)
	_, err = bus.Dispatch(context.Background(), createThing{IdemKey: "k"})
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, rejection.Error(), err.Error())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyDoesNotRecordInfrastructureErrors(t *testing.T) {
	calls := 0
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return &result{ID: 7}, nil
	})
	bus := middleware.ChainCommands(next, middleware.Idempotency(newMapStore(), nil))

	_, err := bus.Dispatch(context.Background(), createThing{IdemKey: "k"})
	require.Error(t, err)
	res, err := bus.Dispatch(context.Background(), createThing{IdemKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, &result{ID: 7}, res)
}

func TestIdempotencyJoinsSaveFailure(t *testing.T) {
	saveErr := errors.New("store down")
	store := newMapStore()
	store.saveErr = saveErr
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		return nil, errs.ErrNotFound
	})
	bus := middleware.ChainCommands(next, middleware.Idempotency(store, nil))

	_, err := bus.Dispatch(context.Background(), createThing{IdemKey: "k"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, err, saveErr)
}

func TestIdempotencyRefusesKeyInProgress(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		close(entered)
		<-release
		return &result{ID: 1}, nil
	})
	bus := middleware.ChainCommands(next, middleware.Idempotency(newMapStore(), nil))

	firstDone := make(chan error, 1)
	go func() {
		_, err := bus.Dispatch(context.Background(), createThing{Name: "a", IdemKey: "k"})
		firstDone <- err
	}()
	<-entered

	_, err := bus.Dispatch(context.Background(), createThing{Name: "a", IdemKey: "k"})
	require.ErrorIs(t, err, middleware.ErrIdempotencyInProgress)
	assert.ErrorIs(t, err, errs.ErrConflict)

	close(release)
	require.NoError(t, <-firstDone)

	res, err := bus.Dispatch(context.Background(), createThing{Name: "a", IdemKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, &result{ID: 1}, res)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyConcurrentDuplicatesRunOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return &result{ID: calls}, nil
	})
	bus := middleware.ChainCommands(next, middleware.Idempotency(newMapStore(), nil))

	const callers = 8
	var wg sync.WaitGroup
	outcomes := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, outcomes[i] = bus.Dispatch(context.Background(), createThing{Name: "a", IdemKey: "k"})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	for _, err := range outcomes {
		if err != nil {
			assert.ErrorIs(t, err, middleware.ErrIdempotencyInProgress)
		}
	}
}

func TestIdempotencyRejectsKeyReuse(t *testing.T) {
	tests := []struct {
		name    string
		first   createThing
		second  createThing
		wantErr error
	}{
		{
			name:   "same command replays",
			first:  createThing{Name: "a", IdemKey: "k"},
			second: createThing{Name: "a", IdemKey: "k"},
		},
		{
			name:    "different command is refused",
			first:   createThing{Name: "a", IdemKey: "k"},
			second:  createThing{Name: "b", IdemKey: "k"},
			wantErr: middleware.ErrIdempotencyKeyReused,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
				calls++
				return &result{ID: calls}, nil
			})
			bus := middleware.ChainCommands(next, middleware.Idempotency(newMapStore(), nil))

			_, err := bus.Dispatch(context.Background(), tt.first)
			require.NoError(t, err)
			res, err := bus.Dispatch(context.Background(), tt.second)
			assert.Equal(t, 1, calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, errs.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &result{ID: 1}, res)
		})
	}
}

func TestIdempotencyJoinsReleaseFailure(t *testing.T) {
	store := newMapStore()
	store.releaseErr = errors.New("store down")
	cause := errors.New("connection reset")
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		return nil, cause
	})
	bus := middleware.ChainCommands(next, middleware.Idempotency(store, nil))

	_, err := bus.Dispatch(context.Background(), createThing{IdemKey: "k"})
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, store.releaseErr)
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := uowmocks.NewMockUoWFactory(ctrl)
	unit := uowmocks.NewMockUnitOfWork(ctrl)
	factory.EXPECT().Begin(gomock.Any(), uow.TxOptions{}).Return(unit, nil)
	unit.EXPECT().Commit(gomock.Any()).Return(nil)

	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		bound, ok := uow.FromContext(ctx)
		require.True(t, ok)
		assert.Same(t, unit, bound)
		return "ok", nil
	})
	bus := middleware.ChainCommands(next, middleware.Transaction(factory, nil))

	res, err := bus.Dispatch(context.Background(), createThing{})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := uowmocks.NewMockUoWFactory(ctrl)
	unit := uowmocks.NewMockUnitOfWork(ctrl)
	factory.EXPECT().Begin(gomock.Any(), uow.TxOptions{ReadOnly: true}).Return(unit, nil)
	unit.EXPECT().Rollback(gomock.Any()).Return(nil)

	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		return nil, errs.ErrConflict
	})
	readOnly := func(commands.Command) uow.TxOptions { return uow.TxOptions{ReadOnly: true} }
	bus := middleware.ChainCommands(next, middleware.Transaction(factory, readOnly))

	_, err := bus.Dispatch(context.Background(), createThing{})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

type countingFlusher struct {
	calls int
	err   error
}

func (f *countingFlusher) Flush(context.Context) error {
	f.calls++
	return f.err
}

func TestOutboxFlushOnlyAfterSuccess(t *testing.T) {
	flusher := &countingFlusher{err: errors.New("busy")}
	fail := false
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		if fail {
			return nil, errs.ErrInvalidInput
		}
		return "ok", nil
	})
	bus := middleware.ChainCommands(next, middleware.OutboxFlush(flusher, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	res, err := bus.Dispatch(context.Background(), createThing{})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)

	fail = true
	_, err = bus.Dispatch(context.Background(), createThing{})
	require.Error(t, err)
	assert.Equal(t, 1, flusher.calls)
}

type validatorFunc func(ctx context.Context, message any) error

func (f validatorFunc) Validate(ctx context.Context, message any) error { return f(ctx, message) }

func TestValidationStopsInvalidCommands(t *testing.T) {
	called := false
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		called = true
		return nil, nil
	})
	v := validatorFunc(func(_ context.Context, message any) error {
		if message.(createThing).Name == "" {
			return errs.ErrInvalidInput
		}
		return nil
	})
	bus := middleware.ChainCommands(next, middleware.Validation(v))

	_, err := bus.Dispatch(context.Background(), createThing{})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	assert.False(t, called)

	_, err = bus.Dispatch(context.Background(), createThing{Name: "x"})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestLoggingLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var outcome error
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) { return nil, outcome })
	bus := middleware.ChainCommands(next, middleware.Logging(logger))

	outcome = errs.ErrNotFound
	_, _ = bus.Dispatch(context.Background(), createThing{})
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "command rejected")

	buf.Reset()
	outcome = errors.New("boom")
	_, _ = bus.Dispatch(context.Background(), createThing{})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "command failed")
}

func TestChainOrder(t *testing.T) {
	var trail []string
	mark := func(name string) middleware.CommandMiddleware {
		return func(next commands.Bus) commands.Bus {
			return busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
				trail = append(trail, name)
				return next.Dispatch(ctx, cmd)
			})
		}
	}
	next := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		trail = append(trail, "handler")
		return nil, nil
	})
	_, err := middleware.ChainCommands(next, mark("outer"), mark("inner")).Dispatch(context.Background(), createThing{})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, trail)
}
