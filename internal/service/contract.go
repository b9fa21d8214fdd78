package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/notify"
	"rental-backoffice/internal/repository"
	"rental-backoffice/internal/storage"
)

// ContractGenerator renders a contract to outputPath
type ContractGenerator interface {
	Generate(ctx context.Context, in *domain.ContractInput, outputPath string) (string, error)
}

// ContractFileName is the stored name of a rental's contract
func ContractFileName(rentalNumber string) string {
	return "CONTRATTO-" + rentalNumber + ".pdf"
}

type contractService struct {
	contractRepo repository.ContractRepository
	photoRepo    repository.PhotoRepository
	rentalRepo   repository.RentalRepository
	generator    ContractGenerator
	store        storage.ContractStore
	photos       storage.PhotoResolver
	mailer       notify.ContractMailer
}

func NewContractService(
	contractRepo repository.ContractRepository,
	photoRepo repository.PhotoRepository,
	rentalRepo repository.RentalRepository,
	generator ContractGenerator,
	store storage.ContractStore,
	photos storage.PhotoResolver,
	mailer notify.ContractMailer,
) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		photoRepo:    photoRepo,
		rentalRepo:   rentalRepo,
		generator:    generator,
		store:        store,
		photos:       photos,
		mailer:       mailer,
	}
}

func (s *contractService) GenerateContract(ctx context.Context, rentalID int32) (string, error) {
	_, name, err := s.generate(ctx, rentalID)
	return name, err
}

func (s *contractService) generate(ctx context.Context, rentalID int32) (*domain.ContractInput, string, error) {
	logger.EnterMethod("contractService.generate", "rentalID", rentalID)

	in, err := s.contractRepo.GetContractInput(ctx, rentalID)
	if errors.Is(err, repository.ErrNotFound) {
		err = ErrRentalNotFound
	}
	if err != nil {
		logger.ExitMethodWithError("contractService.generate", err, "rentalID", rentalID)
		return nil, "", err
	}

	photos, err := s.photoRepo.ListByRental(ctx, rentalID)
	if err != nil {
		err = fmt.Errorf("failed to list photos: %w", err)
		logger.ExitMethodWithError("contractService.generate", err, "rentalID", rentalID)
		return nil, "", err
	}
	for _, p := range photos {
		uploaded := p.UploadDate
		photo := domain.Photo{Path: s.photos.PhotoPath(p.FilePath), CapturedAt: &uploaded}
		switch p.PhotoType {
		case domain.PhotoTypePickup:
			in.PickupPhotos = append(in.PickupPhotos, photo)
		case domain.PhotoTypeReturn:
			in.ReturnPhotos = append(in.ReturnPhotos, photo)
		}
	}

	if err := s.store.EnsureDir(); err != nil {
		logger.ExitMethodWithError("contractService.generate", err, "rentalID", rentalID)
		return nil, "", err
	}

	name := ContractFileName(in.RentalNumber)
	tmp := s.store.TempPath()
	if _, err := s.generator.Generate(ctx, in, tmp); err != nil {
		s.store.Discard(tmp)
		logger.ExitMethodWithError("contractService.generate", err, "rentalID", rentalID)
		return nil, "", err
	}
	if err := s.store.Commit(tmp, name); err != nil {
		s.store.Discard(tmp)
		logger.ExitMethodWithError("contractService.generate", err, "rentalID", rentalID)
		return nil, "", err
	}

	logger.Info("Contract generated", "rentalID", rentalID, "file", name,
		"pickupPhotos", len(in.PickupPhotos), "returnPhotos", len(in.ReturnPhotos))
	logger.ExitMethod("contractService.generate", "rentalID", rentalID)
	return in, name, nil
}

func (s *contractService) OpenContract(ctx context.Context, rentalID int32) (io.ReadCloser, string, int64, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", 0, ErrRentalNotFound
	}
	if err != nil {
		return nil, "", 0, err
	}

	name := ContractFileName(rental.RentalNumber)
	exists, size, err := s.store.Exists(name)
	if err != nil {
		return nil, "", 0, err
	}
	if !exists {
		return nil, "", 0, ErrContractMissing
	}

	rc, err := s.store.Open(name)
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, "", 0, ErrContractMissing
	}
	if err != nil {
		return nil, "", 0, err
	}
	return rc, name, size, nil
}

func (s *contractService) SendContract(ctx context.Context, rentalID int32) (string, error) {
	logger.EnterMethod("contractService.SendContract", "rentalID", rentalID)

	in, name, err := s.generate(ctx, rentalID)
	if err != nil {
		return "", err
	}

	rc, err := s.store.Open(name)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	pdf, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read contract: %w", err)
	}

	err = s.mailer.SendContract(ctx, notify.ContractMail{
		To:           in.Customer.Email,
		ToName:       in.Customer.FullName,
		RentalNumber: in.RentalNumber,
		FileName:     name,
		PDF:          pdf,
	})
	if err != nil {
		logger.ExitMethodWithError("contractService.SendContract", err, "rentalID", rentalID)
		return "", err
	}

	logger.Info("Contract sent", "rentalID", rentalID, "file", name)
	logger.ExitMethod("contractService.SendContract", "rentalID", rentalID)
	return name, nil
}
