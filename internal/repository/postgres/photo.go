package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
)

const photoColumns = `id, rental_id, photo_type, file_path, COALESCE(file_name, ''), upload_date`

type photoRepository struct {
	db *sql.DB
}

func NewPhotoRepository(db *sql.DB) repository.PhotoRepository {
	return &photoRepository{db: db}
}

func scanPhoto(row scanner) (*domain.RentalPhoto, error) {
	var p domain.RentalPhoto
	if err := row.Scan(&p.ID, &p.RentalID, &p.PhotoType, &p.FilePath, &p.FileName, &p.UploadDate); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *photoRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.RentalPhoto, error) {
	logger.DatabaseCall(op, query, "args", args)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult(op, 0, err)
		return nil, err
	}
	defer rows.Close()

	photos := []domain.RentalPhoto{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.DatabaseResult(op, int64(len(photos)), nil)
	return photos, nil
}

// ListByRental returns the photos of a rental oldest first.
func (r *photoRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.RentalPhoto, error) {
	return r.query(ctx, "rental_photos.list",
		"SELECT "+photoColumns+" FROM rental_photos WHERE rental_id = $1 ORDER BY upload_date ASC, id ASC",
		rentalID)
}

func (r *photoRepository) ListForRental(ctx context.Context, rentalID int32, photoType domain.PhotoType) ([]domain.RentalPhoto, error) {
	if photoType == "" {
		return r.query(ctx, "rental_photos.list_recent",
			"SELECT "+photoColumns+" FROM rental_photos WHERE rental_id = $1 ORDER BY upload_date DESC, id DESC",
			rentalID)
	}
	return r.query(ctx, "rental_photos.list_recent",
		"SELECT "+photoColumns+" FROM rental_photos WHERE rental_id = $1 AND photo_type = $2 ORDER BY upload_date DESC, id DESC",
		rentalID, photoType)
}

func (r *photoRepository) GetByID(ctx context.Context, id int32) (*domain.RentalPhoto, error) {
	p, err := scanPhoto(r.db.QueryRowContext(ctx, "SELECT "+photoColumns+" FROM rental_photos WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return p, err
}

func (r *photoRepository) Delete(ctx context.Context, id int32) error {
	query := "DELETE FROM rental_photos WHERE id = $1"
	logger.DatabaseCall("rental_photos.delete", query, "photoID", id)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.DatabaseResult("rental_photos.delete", 0, err)
		return err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("rental_photos.delete", n, err)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
