package repository

import (
	"context"
	"errors"
	"time"

	"rental-backoffice/internal/domain"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyClosed = errors.New("rental not found or already closed")
	ErrDuplicate     = errors.New("duplicate key")
	ErrInUse         = errors.New("record is referenced by rentals")
)

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type RentalRepository interface {
	// List returns one page of rentals matching filter and the total match count.
	List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalListItem, int32, error)
	GetByID(ctx context.Context, id int32) (*domain.RentalListItem, error)
	// Create inserts the rental and marks its vehicle as rented in one transaction.
	Create(ctx context.Context, rental *domain.Rental) error
	// Close records the return and frees the vehicle in one transaction.
	Close(ctx context.Context, id int32, closure domain.RentalClosure) error
	Delete(ctx context.Context, id int32) error
	ListClosedSince(ctx context.Context, since time.Time) ([]int32, error)
	// MarkPendingReturns flags active rentals whose expected return is before now.
	MarkPendingReturns(ctx context.Context, now time.Time) (int64, error)
}

type ContractRepository interface {
	// GetContractInput loads the rental joined with customer, vehicle, category and
	// operator. Photos are not included.
	GetContractInput(ctx context.Context, rentalID int32) (*domain.ContractInput, error)
}

type CustomerRepository interface {
	// List returns one page of customers ordered by name and the total match count.
	List(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, int32, error)
	GetByID(ctx context.Context, id int32) (*domain.CustomerRecord, error)
	// Create and Update fail with ErrDuplicate when another customer has the same
	// fiscal code or email.
	Create(ctx context.Context, c *domain.CustomerRecord) error
	Update(ctx context.Context, c *domain.CustomerRecord) error
	// Delete fails with ErrInUse while any rental references the customer.
	Delete(ctx context.Context, id int32) error
}

type VehicleRepository interface {
	List(ctx context.Context, filter domain.VehicleFilter) ([]domain.VehicleRecord, int32, error)
	// GetByID includes the category defaults and the ten most recent rentals.
	GetByID(ctx context.Context, id int32) (*domain.VehicleDetail, error)
	// Create and Update fail with ErrDuplicate on a license plate already in use.
	Create(ctx context.Context, v *domain.VehicleRecord) error
	Update(ctx context.Context, v *domain.VehicleRecord) error
	ListCategories(ctx context.Context) ([]domain.VehicleCategory, error)
}

type PhotoRepository interface {
	// ListByRental returns the photos of a rental oldest first, the order contracts print them.
	ListByRental(ctx context.Context, rentalID int32) ([]domain.RentalPhoto, error)
	// ListForRental returns the photos of a rental newest first, optionally of one type.
	ListForRental(ctx context.Context, rentalID int32, photoType domain.PhotoType) ([]domain.RentalPhoto, error)
	GetByID(ctx context.Context, id int32) (*domain.RentalPhoto, error)
	Delete(ctx context.Context, id int32) error
}
