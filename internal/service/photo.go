package service

import (
	"context"
	"errors"
	"fmt"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
	"rental-backoffice/internal/storage"
)

type photoService struct {
	photoRepo repository.PhotoRepository
	files     storage.PhotoStore
}

func NewPhotoService(photoRepo repository.PhotoRepository, files storage.PhotoStore) PhotoService {
	return &photoService{photoRepo: photoRepo, files: files}
}

func (s *photoService) ListPhotos(ctx context.Context, rentalID int32, photoType domain.PhotoType) ([]domain.RentalPhoto, error) {
	switch photoType {
	case "", domain.PhotoTypePickup, domain.PhotoTypeReturn:
	default:
		return nil, fmt.Errorf("%w: unknown photo type %q", ErrInvalidInput, photoType)
	}
	return s.photoRepo.ListForRental(ctx, rentalID, photoType)
}

func (s *photoService) DeletePhoto(ctx context.Context, user *domain.User, id int32) error {
	logger.EnterMethod("photoService.DeletePhoto", "userID", user.ID, "photoID", id)

	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrPhotoNotFound
		}
		logger.ExitMethodWithError("photoService.DeletePhoto", err, "photoID", id)
		return err
	}

	if err := s.files.RemovePhoto(photo.FilePath); err != nil {
		if !errors.Is(err, storage.ErrFileNotFound) {
			logger.ExitMethodWithError("photoService.DeletePhoto", err, "photoID", id)
			return err
		}
		logger.Warn("Photo file already missing", "photoID", id, "path", photo.FilePath)
	}

	if err := s.photoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrPhotoNotFound
		}
		logger.ExitMethodWithError("photoService.DeletePhoto", err, "photoID", id)
		return err
	}

	logger.Info("Photo deleted", "photoID", id, "rentalID", photo.RentalID, "userID", user.ID)
	logger.ExitMethod("photoService.DeletePhoto", "photoID", id)
	return nil
}
