package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type snapshotKey struct{}

func TestWithUnitOfWork(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, snapshotKey{}, "snapshot")
	loadErr := errors.New("load failed")

	tests := []struct {
		name      string
		setup     func(uow *mockUnitOfWork)
		fnErr     error
		wantErr   error
		wantCalls bool
	}{
		{
			name: "commits after a successful load",
			setup: func(uow *mockUnitOfWork) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				uow.On("Commit", txCtx).Return(nil)
			},
			wantCalls: true,
		},
		{
			name: "rolls back and keeps the load error",
			setup: func(uow *mockUnitOfWork) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				uow.On("Rollback", txCtx).Return(errors.New("rollback failed"))
			},
			fnErr:     loadErr,
			wantErr:   loadErr,
			wantCalls: true,
		},
		{
			name: "begin failure skips the load",
			setup: func(uow *mockUnitOfWork) {
				uow.On("Begin", ctx).Return(nil, loadErr)
			},
			wantErr: loadErr,
		},
		{
			name: "commit failure is returned",
			setup: func(uow *mockUnitOfWork) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				uow.On("Commit", txCtx).Return(loadErr)
			},
			wantErr:   loadErr,
			wantCalls: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := new(mockUnitOfWork)
			tt.setup(uow)

			called := false
			err := WithUnitOfWork(ctx, uow, func(got context.Context) error {
				called = true
				assert.Equal(t, "snapshot", got.Value(snapshotKey{}))
				return tt.fnErr
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, called)
			uow.AssertExpectations(t)
		})
	}
}

func TestWithUnitOfWork_NilUnitRunsDirectly(t *testing.T) {
	called := false
	err := WithUnitOfWork(context.Background(), nil, func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestWithUnitOfWork_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, snapshotKey{}, "snapshot")

	uow := new(mockUnitOfWork)
	uow.On("Begin", ctx).Return(txCtx, nil)
	uow.On("Rollback", txCtx).Return(nil)

	assert.PanicsWithValue(t, "scan failed", func() {
		_ = WithUnitOfWork(ctx, uow, func(context.Context) error {
			panic("scan failed")
		})
	})
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
