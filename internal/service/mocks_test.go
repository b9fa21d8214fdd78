package service

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/notify"
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
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) Close(ctx context.Context, id int32, closure domain.RentalClosure) error {
	args := m.Called(ctx, id, closure)
	return args.Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) ListClosedSince(ctx context.Context, since time.Time) ([]int32, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]int32), args.Error(1)
}

func (m *MockRentalRepo) MarkPendingReturns(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) GetContractInput(ctx context.Context, rentalID int32) (*domain.ContractInput, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContractInput), args.Error(1)
}

type MockPhotoRepo struct {
	mock.Mock
}

func (m *MockPhotoRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.RentalPhoto, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.RentalPhoto), args.Error(1)
}
func (m *MockPhotoRepo) ListForRental(ctx context.Context, rentalID int32, photoType domain.PhotoType) ([]domain.RentalPhoto, error) {
	args := m.Called(ctx, rentalID, photoType)
	return args.Get(0).([]domain.RentalPhoto), args.Error(1)
}
func (m *MockPhotoRepo) GetByID(ctx context.Context, id int32) (*domain.RentalPhoto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalPhoto), args.Error(1)
}
func (m *MockPhotoRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) PhotoPath(relative string) string {
	return "/uploads/" + relative
}
func (m *MockPhotoStore) RemovePhoto(relative string) error {
	args := m.Called(relative)
	return args.Error(0)
}

type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.CustomerRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.CustomerRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerRecord), args.Error(1)
}
func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.CustomerRecord) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) Update(ctx context.Context, c *domain.CustomerRecord) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) List(ctx context.Context, filter domain.VehicleFilter) ([]domain.VehicleRecord, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.VehicleRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.VehicleDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleDetail), args.Error(1)
}
func (m *MockVehicleRepo) Create(ctx context.Context, v *domain.VehicleRecord) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) Update(ctx context.Context, v *domain.VehicleRecord) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) ListCategories(ctx context.Context) ([]domain.VehicleCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.VehicleCategory), args.Error(1)
}

// MockGenerator writes a stub PDF so the store sees a real file
type MockGenerator struct {
	mock.Mock
	fs afero.Fs
}

func (m *MockGenerator) Generate(ctx context.Context, in *domain.ContractInput, outputPath string) (string, error) {
	args := m.Called(ctx, in, outputPath)
	if err := args.Error(0); err != nil {
		_ = afero.WriteFile(m.fs, outputPath, []byte("%PDF-partial"), 0o644)
		return "", err
	}
	return outputPath, afero.WriteFile(m.fs, outputPath, []byte("%PDF-1.3 "+in.RentalNumber), 0o644)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendContract(ctx context.Context, mail notify.ContractMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}
