package http

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"rental-backoffice/internal/domain"
)

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) ListRentals(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalListItem, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RentalListItem), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalService) GetRental(ctx context.Context, id int32) (*domain.RentalListItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalListItem), args.Error(1)
}
func (m *MockRentalService) CreateRental(ctx context.Context, user *domain.User, in domain.NewRental) (*domain.Rental, error) {
	args := m.Called(ctx, user, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) CloseRental(ctx context.Context, user *domain.User, id int32, in domain.CloseRental) (*domain.RentalClosure, error) {
	args := m.Called(ctx, user, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalClosure), args.Error(1)
}
func (m *MockRentalService) DeleteRental(ctx context.Context, user *domain.User, id int32) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
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
	if args.Get(0) == nil {
		return nil, "", 0, args.Error(3)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Get(2).(int64), args.Error(3)
}
func (m *MockContractService) SendContract(ctx context.Context, rentalID int32) (string, error) {
	args := m.Called(ctx, rentalID)
	return args.String(0), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.CustomerRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockCustomerService) GetCustomer(ctx context.Context, id int32) (*domain.CustomerRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerRecord), args.Error(1)
}
func (m *MockCustomerService) CreateCustomer(ctx context.Context, user *domain.User, c domain.CustomerRecord) (*domain.CustomerRecord, error) {
	args := m.Called(ctx, user, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerRecord), args.Error(1)
}
func (m *MockCustomerService) UpdateCustomer(ctx context.Context, user *domain.User, id int32, c domain.CustomerRecord) (*domain.CustomerRecord, error) {
	args := m.Called(ctx, user, id, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerRecord), args.Error(1)
}
func (m *MockCustomerService) DeleteCustomer(ctx context.Context, user *domain.User, id int32) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) ListVehicles(ctx context.Context, filter domain.VehicleFilter) ([]domain.VehicleRecord, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.VehicleRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockVehicleService) GetVehicle(ctx context.Context, id int32) (*domain.VehicleDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleDetail), args.Error(1)
}
func (m *MockVehicleService) CreateVehicle(ctx context.Context, user *domain.User, v domain.VehicleRecord) (*domain.VehicleRecord, error) {
	args := m.Called(ctx, user, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleRecord), args.Error(1)
}
func (m *MockVehicleService) UpdateVehicle(ctx context.Context, user *domain.User, id int32, v domain.VehicleRecord) (*domain.VehicleRecord, error) {
	args := m.Called(ctx, user, id, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleRecord), args.Error(1)
}
func (m *MockVehicleService) ListCategories(ctx context.Context) ([]domain.VehicleCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.VehicleCategory), args.Error(1)
}

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) ListPhotos(ctx context.Context, rentalID int32, photoType domain.PhotoType) ([]domain.RentalPhoto, error) {
	args := m.Called(ctx, rentalID, photoType)
	return args.Get(0).([]domain.RentalPhoto), args.Error(1)
}
func (m *MockPhotoService) DeletePhoto(ctx context.Context, user *domain.User, id int32) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}
