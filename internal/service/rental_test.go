package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/repository"
)

var (
	operator = &domain.User{ID: 3, Username: "luca", Role: domain.UserRoleOperator, IsActive: true}
	admin    = &domain.User{ID: 1, Username: "giulia", Role: domain.UserRoleAdmin, IsActive: true}
)

func newRentalInput() domain.NewRental {
	pickup := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return domain.NewRental{
		CustomerID:         10,
		VehicleID:          20,
		PickupDate:         pickup,
		ExpectedReturnDate: pickup.Add(72 * time.Hour),
		PickupLocation:     "Siracusa",
		Financials: domain.Financials{
			DailyRate:    decimal.NewFromInt(50),
			DeliveryCost: decimal.NewFromInt(20),
			AmountPaid:   decimal.NewFromInt(100),
		},
	}
}

func TestRentalService_CreateRental(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRentalRepo)
		svc := NewRentalService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Rental).ID = 9 }).
			Return(nil).Once()

		rental, err := svc.CreateRental(ctx, operator, newRentalInput())
		require.NoError(t, err)
		assert.Equal(t, int32(9), rental.ID)
		assert.Equal(t, int32(3), rental.Financials.TotalDays)
		assert.True(t, decimal.NewFromInt(150).Equal(rental.Financials.Subtotal))
		assert.True(t, decimal.NewFromInt(170).Equal(rental.Financials.TotalAmount))
		assert.True(t, decimal.NewFromInt(70).Equal(rental.Financials.AmountDue))
		assert.Equal(t, domain.RentalStatusActive, rental.Status)
		assert.Equal(t, int32(3), rental.CreatedBy)
		assert.Equal(t, "Contanti", rental.Financials.PaymentMethod)
		assert.Equal(t, "Illimitati", rental.KmIncluded)
		assert.Regexp(t, `^\d{4}-\d{4}$`, rental.RentalNumber)
		assert.Regexp(t, `^[A-Z0-9]{5}-[A-Z0-9]{5}$`, rental.BookingCode)
		repo.AssertExpectations(t)
	})

	t.Run("Retries on duplicate number", func(t *testing.T) {
		repo := new(MockRentalRepo)
		svc := NewRentalService(repo)

		repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate).Twice()
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.CreateRental(ctx, operator, newRentalInput())
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("Gives up after three collisions", func(t *testing.T) {
		repo := new(MockRentalRepo)
		svc := NewRentalService(repo)

		repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

		_, err := svc.CreateRental(ctx, operator, newRentalInput())
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		repo.AssertNumberOfCalls(t, "Create", maxCodeAttempts)
	})

	t.Run("Return before pickup", func(t *testing.T) {
		repo := new(MockRentalRepo)
		in := newRentalInput()
		in.ExpectedReturnDate = in.PickupDate.Add(-time.Hour)

		_, err := NewRentalService(repo).CreateRental(ctx, operator, in)
		assert.ErrorIs(t, err, ErrInvalidDates)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Missing vehicle", func(t *testing.T) {
		in := newRentalInput()
		in.VehicleID = 0
		_, err := NewRentalService(new(MockRentalRepo)).CreateRental(ctx, operator, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Unknown vehicle", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("Create", ctx, mock.Anything).Return(repository.ErrNotFound)

		_, err := NewRentalService(repo).CreateRental(ctx, operator, newRentalInput())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func openRental() *domain.RentalListItem {
	pickup := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return &domain.RentalListItem{Rental: domain.Rental{
		ID:                 5,
		PickupDate:         pickup,
		ExpectedReturnDate: pickup.Add(72 * time.Hour),
		PickupLocation:     "Siracusa",
		PickupKm:           12000,
		Status:             domain.RentalStatusActive,
		Financials: domain.Financials{
			DailyRate:    decimal.NewFromInt(50),
			TotalDays:    3,
			FuelCharge:   decimal.NewFromInt(30),
			Discount:     decimal.NewFromInt(10),
			AmountPaid:   decimal.NewFromInt(100),
			DeliveryCost: decimal.Zero,
		},
	}}
}

func TestRentalService_CloseRental(t *testing.T) {
	ctx := context.Background()
	returnAt := time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("GetByID", ctx, int32(5)).Return(openRental(), nil)
		repo.On("Close", ctx, int32(5), mock.MatchedBy(func(c domain.RentalClosure) bool {
			return c.ClosedBy == 3 && c.Return.Location == "Siracusa" &&
				c.TotalAmount.Equal(decimal.NewFromInt(170)) &&
				c.AmountDue.Equal(decimal.NewFromInt(-30))
		})).Return(nil)

		closure, err := NewRentalService(repo).CloseRental(ctx, operator, 5, domain.CloseRental{
			Return:     domain.ReturnState{Date: returnAt, Km: 12400},
			AmountPaid: decimal.NewFromInt(200),
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(-30).Equal(closure.AmountDue))
		repo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("GetByID", ctx, int32(6)).Return(nil, repository.ErrNotFound)

		_, err := NewRentalService(repo).CloseRental(ctx, operator, 6, domain.CloseRental{})
		assert.ErrorIs(t, err, ErrRentalNotFound)
	})

	t.Run("Already closed", func(t *testing.T) {
		closed := openRental()
		closed.Status = domain.RentalStatusClosed
		repo := new(MockRentalRepo)
		repo.On("GetByID", ctx, int32(5)).Return(closed, nil)

		_, err := NewRentalService(repo).CloseRental(ctx, operator, 5, domain.CloseRental{
			Return: domain.ReturnState{Date: returnAt, Km: 12400},
		})
		assert.ErrorIs(t, err, ErrRentalClosed)
	})

	t.Run("Closed concurrently", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("GetByID", ctx, int32(5)).Return(openRental(), nil)
		repo.On("Close", ctx, int32(5), mock.Anything).Return(repository.ErrAlreadyClosed)

		_, err := NewRentalService(repo).CloseRental(ctx, operator, 5, domain.CloseRental{
			Return: domain.ReturnState{Date: returnAt, Km: 12400},
		})
		assert.ErrorIs(t, err, ErrRentalClosed)
	})

	t.Run("Return before pickup", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("GetByID", ctx, int32(5)).Return(openRental(), nil)

		_, err := NewRentalService(repo).CloseRental(ctx, operator, 5, domain.CloseRental{
			Return: domain.ReturnState{Date: returnAt.AddDate(0, 0, -10), Km: 12400},
		})
		assert.ErrorIs(t, err, ErrInvalidDates)
	})

	t.Run("Km going backwards", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("GetByID", ctx, int32(5)).Return(openRental(), nil)

		_, err := NewRentalService(repo).CloseRental(ctx, operator, 5, domain.CloseRental{
			Return: domain.ReturnState{Date: returnAt, Km: 100},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRentalService_DeleteRental(t *testing.T) {
	ctx := context.Background()

	t.Run("Operator is forbidden", func(t *testing.T) {
		repo := new(MockRentalRepo)
		err := NewRentalService(repo).DeleteRental(ctx, operator, 5)
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Admin", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("Delete", ctx, int32(5)).Return(nil)
		assert.NoError(t, NewRentalService(repo).DeleteRental(ctx, admin, 5))
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("Delete", ctx, int32(7)).Return(repository.ErrNotFound)
		assert.ErrorIs(t, NewRentalService(repo).DeleteRental(ctx, admin, 7), ErrRentalNotFound)
	})
}
