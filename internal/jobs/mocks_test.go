package jobs

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"rental-backoffice/internal/domain"
)

type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalListItem, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RentalListItem), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.RentalListItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalListItem), args.Error(1)
}
func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	return m.Called(ctx, rental).Error(0)
}
func (m *MockRentalRepo) Close(ctx context.Context, id int32, closure domain.RentalClosure) error {
	return m.Called(ctx, id, closure).Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockRentalRepo) ListClosedSince(ctx context.Context, since time.Time) ([]int32, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockRentalRepo) MarkPendingReturns(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) GenerateContract(ctx context.Context, rentalID int32) (string, error) {
	args := m.Called(ctx, rentalID)
	return args.String(0), args.Error(1)
}
func (m *MockContractService) OpenContract(ctx context.Context, rentalID int32) (io.ReadCloser, string, int64, error) {
	args := m.Called(ctx, rentalID)
	return nil, args.String(1), 0, args.Error(3)
}
func (m *MockContractService) SendContract(ctx context.Context, rentalID int32) (string, error) {
	args := m.Called(ctx, rentalID)
	return args.String(0), args.Error(1)
}
