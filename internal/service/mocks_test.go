package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"party_quiz/internal/repository/models"
)

// --- Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// --- RoomStateRepository ---

type MockRoomStateRepository struct {
	mock.Mock
}

func (m *MockRoomStateRepository) Create(ctx context.Context, code string, state []byte) (*models.RoomState, error) {
	args := m.Called(ctx, code, state)
	row, _ := args.Get(0).(*models.RoomState)
	return row, args.Error(1)
}

func (m *MockRoomStateRepository) Fetch(ctx context.Context, code string) (*models.RoomState, error) {
	args := m.Called(ctx, code)
	row, _ := args.Get(0).(*models.RoomState)
	return row, args.Error(1)
}

func (m *MockRoomStateRepository) CompareAndSwap(ctx context.Context, code string, version int64, state []byte) (int64, error) {
	args := m.Called(ctx, code, version, state)
	return args.Get(0).(int64), args.Error(1)
}
