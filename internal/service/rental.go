package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
	"rental-backoffice/internal/utils"
)

const maxCodeAttempts = 3

type rentalService struct {
	rentalRepo repository.RentalRepository
	now        func() time.Time
}

func NewRentalService(rentalRepo repository.RentalRepository) RentalService {
	return &rentalService{
		rentalRepo: rentalRepo,
		now:        time.Now,
	}
}

func (s *rentalService) ListRentals(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalListItem, int32, error) {
	return s.rentalRepo.List(ctx, filter)
}

func (s *rentalService) GetRental(ctx context.Context, id int32) (*domain.RentalListItem, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRentalNotFound
	}
	return rental, err
}

func (s *rentalService) CreateRental(ctx context.Context, user *domain.User, in domain.NewRental) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.CreateRental", "userID", user.ID, "customerID", in.CustomerID, "vehicleID", in.VehicleID)

	if in.CustomerID <= 0 || in.VehicleID <= 0 {
		return nil, fmt.Errorf("%w: customer and vehicle are required", ErrInvalidInput)
	}
	if in.PickupDate.IsZero() || in.ExpectedReturnDate.IsZero() {
		return nil, ErrInvalidDates
	}
	days, err := utils.RentalDays(in.PickupDate, in.ExpectedReturnDate)
	if err != nil {
		return nil, ErrInvalidDates
	}

	financials := in.Financials
	financials.TotalDays = days
	financials = utils.ApplyTotals(financials)
	if financials.PaymentMethod == "" {
		financials.PaymentMethod = domain.DefaultPaymentMethod
	}
	if financials.DepositMethod == "" {
		financials.DepositMethod = domain.DefaultPaymentMethod
	}
	if in.KmIncluded == "" {
		in.KmIncluded = domain.DefaultKmIncluded
	}

	rental := &domain.Rental{
		CustomerID:         in.CustomerID,
		VehicleID:          in.VehicleID,
		CreatedBy:          user.ID,
		PickupDate:         in.PickupDate,
		ExpectedReturnDate: in.ExpectedReturnDate,
		PickupLocation:     in.PickupLocation,
		PickupFuelLevel:    in.PickupFuelLevel,
		PickupKm:           in.PickupKm,
		PickupDamages:      in.PickupDamages,
		PickupNotes:        in.PickupNotes,
		KmIncluded:         in.KmIncluded,
		Financials:         financials,
		Franchise:          in.Franchise,
		Status:             domain.RentalStatusActive,
	}

	// Rental numbers are random; retry on collision
	for attempt := 1; ; attempt++ {
		rental.RentalNumber = utils.RentalNumber(s.now())
		rental.BookingCode = utils.BookingCode()

		err = s.rentalRepo.Create(ctx, rental)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt == maxCodeAttempts {
			if errors.Is(err, repository.ErrNotFound) {
				err = fmt.Errorf("%w: vehicle %d does not exist", ErrInvalidInput, in.VehicleID)
			}
			logger.ExitMethodWithError("rentalService.CreateRental", err, "attempt", attempt)
			return nil, err
		}
		logger.Warn("Rental number collision, retrying", "rentalNumber", rental.RentalNumber, "attempt", attempt)
	}

	logger.Info("Rental created", "rentalID", rental.ID, "rentalNumber", rental.RentalNumber, "userID", user.ID)
	logger.ExitMethod("rentalService.CreateRental", "rentalID", rental.ID)
	return rental, nil
}

func (s *rentalService) CloseRental(ctx context.Context, user *domain.User, id int32, in domain.CloseRental) (*domain.RentalClosure, error) {
	logger.EnterMethod("rentalService.CloseRental", "userID", user.ID, "rentalID", id)

	current, err := s.GetRental(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.RentalStatusClosed {
		return nil, ErrRentalClosed
	}
	if in.Return.Date.IsZero() || in.Return.Date.Before(current.PickupDate) {
		return nil, fmt.Errorf("%w: return date precedes pickup", ErrInvalidDates)
	}
	if in.Return.Km < current.PickupKm {
		return nil, fmt.Errorf("%w: return km lower than pickup km", ErrInvalidInput)
	}
	if in.Return.Location == "" {
		in.Return.Location = current.PickupLocation
	}

	financials := current.Financials
	financials.AmountPaid = in.AmountPaid
	totals := utils.ComputeTotals(financials)

	closure := domain.RentalClosure{
		Return:      in.Return,
		TotalAmount: totals.TotalAmount,
		AmountPaid:  in.AmountPaid,
		AmountDue:   totals.AmountDue,
		ClosedBy:    user.ID,
	}

	if err := s.rentalRepo.Close(ctx, id, closure); err != nil {
		if errors.Is(err, repository.ErrAlreadyClosed) {
			err = ErrRentalClosed
		}
		logger.ExitMethodWithError("rentalService.CloseRental", err, "rentalID", id)
		return nil, err
	}

	logger.Info("Rental closed", "rentalID", id, "amountDue", closure.AmountDue.StringFixed(2), "userID", user.ID)
	logger.ExitMethod("rentalService.CloseRental", "rentalID", id)
	return &closure, nil
}

func (s *rentalService) DeleteRental(ctx context.Context, user *domain.User, id int32) error {
	if !user.IsAdmin() {
		return ErrForbidden
	}
	err := s.rentalRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRentalNotFound
	}
	if err != nil {
		return err
	}
	logger.Info("Rental deleted", "rentalID", id, "userID", user.ID)
	return nil
}
