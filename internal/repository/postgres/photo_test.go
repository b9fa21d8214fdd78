package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/repository"
)

var photoColumnNames = []string{"id", "rental_id", "photo_type", "file_path", "file_name", "upload_date"}

func TestPhotoRepository_ListForRental(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoRepository(db)
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("All types newest first", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rental_photos WHERE rental_id = \$1 ORDER BY upload_date DESC`).
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(photoColumnNames).
				AddRow(2, 1, "return", "rentals/1/b.jpg", "b.jpg", at.Add(time.Hour)).
				AddRow(1, 1, "pickup", "rentals/1/a.jpg", "a.jpg", at))

		photos, err := repo.ListForRental(ctx, 1, "")
		require.NoError(t, err)
		require.Len(t, photos, 2)
		assert.Equal(t, int32(2), photos[0].ID)
	})

	t.Run("Filtered by type", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rental_photos WHERE rental_id = \$1 AND photo_type = \$2 ORDER BY upload_date DESC`).
			WithArgs(int32(1), domain.PhotoTypePickup).
			WillReturnRows(sqlmock.NewRows(photoColumnNames))

		photos, err := repo.ListForRental(ctx, 1, domain.PhotoTypePickup)
		require.NoError(t, err)
		assert.NotNil(t, photos)
		assert.Empty(t, photos)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepository_GetByIDAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoRepository(db)
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rental_photos WHERE id = \$1`).
			WithArgs(int32(4)).
			WillReturnRows(sqlmock.NewRows(photoColumnNames).
				AddRow(4, 1, "pickup", "rentals/1/a.jpg", "a.jpg", time.Now()))

		p, err := repo.GetByID(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "rentals/1/a.jpg", p.FilePath)
	})

	t.Run("Get unknown photo", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rental_photos WHERE id = \$1`).
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows(photoColumnNames))

		_, err := repo.GetByID(ctx, 5)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM rental_photos WHERE id = \$1`).
			WithArgs(int32(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 4))
	})

	t.Run("Delete unknown photo", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM rental_photos WHERE id = \$1`).
			WithArgs(int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 5), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
