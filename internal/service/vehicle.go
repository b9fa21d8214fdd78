package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo}
}

func (s *vehicleService) ListVehicles(ctx context.Context, filter domain.VehicleFilter) ([]domain.VehicleRecord, int32, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown vehicle status %q", ErrInvalidInput, filter.Status)
	}
	vehicles, total, err := s.vehicleRepo.List(ctx, filter)
	if vehicles == nil && err == nil {
		vehicles = []domain.VehicleRecord{}
	}
	return vehicles, total, err
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.VehicleDetail, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrVehicleNotFound
	}
	return v, err
}

func (s *vehicleService) ListCategories(ctx context.Context) ([]domain.VehicleCategory, error) {
	categories, err := s.vehicleRepo.ListCategories(ctx)
	if categories == nil && err == nil {
		categories = []domain.VehicleCategory{}
	}
	return categories, err
}

func normalizeVehicle(v *domain.VehicleRecord) error {
	v.LicensePlate = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(v.LicensePlate), " ", ""))
	v.Brand = strings.TrimSpace(v.Brand)
	v.Model = strings.TrimSpace(v.Model)

	if v.LicensePlate == "" || v.Brand == "" || v.Model == "" {
		return fmt.Errorf("%w: license plate, brand and model are required", ErrInvalidInput)
	}
	if v.Status != "" && !v.Status.Valid() {
		return fmt.Errorf("%w: unknown vehicle status %q", ErrInvalidInput, v.Status)
	}
	if v.CurrentKm < 0 || v.Seats < 0 || v.Year < 0 {
		return fmt.Errorf("%w: negative km, seats or year", ErrInvalidInput)
	}
	if v.CategoryID != nil && *v.CategoryID <= 0 {
		v.CategoryID = nil
	}
	return nil
}

func (s *vehicleService) CreateVehicle(ctx context.Context, user *domain.User, v domain.VehicleRecord) (*domain.VehicleRecord, error) {
	logger.EnterMethod("vehicleService.CreateVehicle", "userID", user.ID)

	v.ID = 0
	if err := normalizeVehicle(&v); err != nil {
		logger.ExitMethodWithError("vehicleService.CreateVehicle", err)
		return nil, err
	}
	if err := s.vehicleRepo.Create(ctx, &v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = ErrVehicleExists
		}
		logger.ExitMethodWithError("vehicleService.CreateVehicle", err, "licensePlate", v.LicensePlate)
		return nil, err
	}

	logger.Info("Vehicle created", "vehicleID", v.ID, "licensePlate", v.LicensePlate, "userID", user.ID)
	logger.ExitMethod("vehicleService.CreateVehicle", "vehicleID", v.ID)
	return &v, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, user *domain.User, id int32, v domain.VehicleRecord) (*domain.VehicleRecord, error) {
	logger.EnterMethod("vehicleService.UpdateVehicle", "userID", user.ID, "vehicleID", id)

	v.ID = id
	if err := normalizeVehicle(&v); err != nil {
		logger.ExitMethodWithError("vehicleService.UpdateVehicle", err, "vehicleID", id)
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, &v); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			err = ErrVehicleNotFound
		case errors.Is(err, repository.ErrDuplicate):
			err = ErrVehicleExists
		}
		logger.ExitMethodWithError("vehicleService.UpdateVehicle", err, "vehicleID", id)
		return nil, err
	}

	logger.ExitMethod("vehicleService.UpdateVehicle", "vehicleID", id)
	detail, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &detail.VehicleRecord, nil
}
