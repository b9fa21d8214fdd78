package service

import (
	"context"
	"errors"
	"io"

	"rental-backoffice/internal/domain"
)

var (
	ErrRentalNotFound  = errors.New("rental not found")
	ErrRentalClosed    = errors.New("rental already closed")
	ErrInvalidDates    = errors.New("expected return must be after pickup")
	ErrInvalidInput    = errors.New("invalid input")
	ErrContractMissing = errors.New("contract not generated yet")
	ErrForbidden       = errors.New("operation not allowed for this user")

	ErrCustomerNotFound  = errors.New("customer not found")
	ErrCustomerExists    = errors.New("customer with this fiscal code or email already exists")
	ErrCustomerHasRental = errors.New("customer has rentals")
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrVehicleExists     = errors.New("vehicle with this license plate already exists")
	ErrPhotoNotFound     = errors.New("photo not found")
)

type RentalService interface {
	ListRentals(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalListItem, int32, error)
	GetRental(ctx context.Context, id int32) (*domain.RentalListItem, error)
	CreateRental(ctx context.Context, user *domain.User, in domain.NewRental) (*domain.Rental, error)
	CloseRental(ctx context.Context, user *domain.User, id int32, in domain.CloseRental) (*domain.RentalClosure, error)
	DeleteRental(ctx context.Context, user *domain.User, id int32) error
}

type CustomerService interface {
	ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, int32, error)
	GetCustomer(ctx context.Context, id int32) (*domain.CustomerRecord, error)
	CreateCustomer(ctx context.Context, user *domain.User, c domain.CustomerRecord) (*domain.CustomerRecord, error)
	UpdateCustomer(ctx context.Context, user *domain.User, id int32, c domain.CustomerRecord) (*domain.CustomerRecord, error)
	// DeleteCustomer is reserved to admins and refused while rentals reference the customer.
	DeleteCustomer(ctx context.Context, user *domain.User, id int32) error
}

type VehicleService interface {
	ListVehicles(ctx context.Context, filter domain.VehicleFilter) ([]domain.VehicleRecord, int32, error)
	GetVehicle(ctx context.Context, id int32) (*domain.VehicleDetail, error)
	CreateVehicle(ctx context.Context, user *domain.User, v domain.VehicleRecord) (*domain.VehicleRecord, error)
	UpdateVehicle(ctx context.Context, user *domain.User, id int32, v domain.VehicleRecord) (*domain.VehicleRecord, error)
	ListCategories(ctx context.Context) ([]domain.VehicleCategory, error)
}

type PhotoService interface {
	ListPhotos(ctx context.Context, rentalID int32, photoType domain.PhotoType) ([]domain.RentalPhoto, error)
	// DeletePhoto removes the uploaded file and its row. A file already gone is not an error.
	DeletePhoto(ctx context.Context, user *domain.User, id int32) error
}

type ContractService interface {
	// GenerateContract renders the contract of a rental into the contracts store and
	// returns its file name.
	GenerateContract(ctx context.Context, rentalID int32) (string, error)
	// OpenContract returns the last generated contract of a rental with its file name and size.
	OpenContract(ctx context.Context, rentalID int32) (io.ReadCloser, string, int64, error)
	// SendContract regenerates the contract and mails it to the customer.
	SendContract(ctx context.Context, rentalID int32) (string, error)
}
