package postgres

import (
	"database/sql"

	"rental-backoffice/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.RentalRepository
	repository.ContractRepository
	repository.PhotoRepository
	repository.CustomerRepository
	repository.VehicleRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		UserRepository:     NewUserRepository(db),
		RentalRepository:   NewRentalRepository(db),
		ContractRepository: NewContractRepository(db),
		PhotoRepository:    NewPhotoRepository(db),
		CustomerRepository: NewCustomerRepository(db),
		VehicleRepository:  NewVehicleRepository(db),
	}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}
