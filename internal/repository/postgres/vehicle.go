package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
)

const vehicleHistoryLimit = 10

const vehicleColumns = `v.id, v.category_id, v.license_plate, v.brand, v.model,
	COALESCE(v.year, 0), COALESCE(v.color, ''), COALESCE(v.fuel_type, ''),
	COALESCE(v.transmission, ''), COALESCE(v.seats, 0), COALESCE(vc.name, ''),
	COALESCE(v.current_km, 0), v.status, COALESCE(v.notes, ''), vc.daily_rate,
	v.created_at, v.updated_at`

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func scanVehicle(row scanner, extra ...any) (*domain.VehicleRecord, error) {
	var (
		v          domain.VehicleRecord
		categoryID sql.NullInt32
		dailyRate  decimal.NullDecimal
	)
	dest := []any{
		&v.ID, &categoryID, &v.LicensePlate, &v.Brand, &v.Model,
		&v.Year, &v.Color, &v.FuelType,
		&v.Transmission, &v.Seats, &v.CategoryName,
		&v.CurrentKm, &v.Status, &v.Notes, &dailyRate,
		&v.CreatedAt, &v.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		v.CategoryID = &categoryID.Int32
	}
	v.DailyRate = orZero(dailyRate)
	return &v, nil
}

func (r *vehicleRepository) List(ctx context.Context, filter domain.VehicleFilter) ([]domain.VehicleRecord, int32, error) {
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	where := " WHERE 1=1"
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.AvailableOnly {
		add(" AND v.status = $%d", domain.VehicleStatusAvailable)
	} else if filter.Status != "" {
		add(" AND v.status = $%d", filter.Status)
	}
	if filter.CategoryID > 0 {
		add(" AND v.category_id = $%d", filter.CategoryID)
	}

	from := " FROM vehicles v LEFT JOIN vehicle_categories vc ON v.category_id = vc.id"

	var count int32
	countSQL := "SELECT COUNT(*)" + from + where
	logger.DatabaseCall("vehicles.count", countSQL)
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		logger.DatabaseResult("vehicles.count", 0, err)
		return nil, 0, err
	}

	query := "SELECT " + vehicleColumns + from + where +
		fmt.Sprintf(" ORDER BY v.brand, v.model LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("vehicles.list", 0, err)
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []domain.VehicleRecord
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	logger.DatabaseResult("vehicles.list", int64(len(vehicles)), nil)
	return vehicles, count, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.VehicleDetail, error) {
	var deposit, theft, damage, rca decimal.NullDecimal
	query := "SELECT " + vehicleColumns + `, vc.deposit_amount, vc.franchise_theft, vc.franchise_damage, vc.franchise_rca
		FROM vehicles v LEFT JOIN vehicle_categories vc ON v.category_id = vc.id
		WHERE v.id = $1`

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id), &deposit, &theft, &damage, &rca)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	detail := &domain.VehicleDetail{
		VehicleRecord:   *v,
		DepositAmount:   orZero(deposit),
		FranchiseTheft:  orZero(theft),
		FranchiseDamage: orZero(damage),
		FranchiseRCA:    orZero(rca),
		RentalHistory:   []domain.VehicleRentalEntry{},
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.rental_number, r.pickup_date, r.return_date, COALESCE(r.pickup_km, 0),
		       r.return_km, r.status, COALESCE(c.full_name, '')
		FROM rentals r
		LEFT JOIN customers c ON r.customer_id = c.id
		WHERE r.vehicle_id = $1
		ORDER BY r.pickup_date DESC
		LIMIT $2`, id, vehicleHistoryLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e        domain.VehicleRentalEntry
			returned sql.NullTime
			km       sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.RentalNumber, &e.PickupDate, &returned, &e.PickupKm, &km, &e.Status, &e.CustomerName); err != nil {
			return nil, err
		}
		e.ReturnDate = nullTime(returned)
		if km.Valid {
			e.ReturnKm = &km.Int64
		}
		detail.RentalHistory = append(detail.RentalHistory, e)
	}
	return detail, rows.Err()
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.VehicleRecord) error {
	logger.EnterMethod("vehicleRepository.Create", "licensePlate", v.LicensePlate)

	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	now := time.Now()
	query := `INSERT INTO vehicles (
		license_plate, category_id, brand, model, year, color,
		fuel_type, transmission, seats, current_km, notes, status, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
	RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		v.LicensePlate, v.CategoryID, v.Brand, v.Model, v.Year, nullString(v.Color),
		nullString(v.FuelType), nullString(v.Transmission), v.Seats, v.CurrentKm, nullString(v.Notes), v.Status, now,
	).Scan(&v.ID)
	if err != nil {
		err = duplicateErr(err)
		logger.ExitMethodWithError("vehicleRepository.Create", err, "licensePlate", v.LicensePlate)
		return err
	}

	v.CreatedAt, v.UpdatedAt = now, now
	logger.ExitMethod("vehicleRepository.Create", "vehicleID", v.ID)
	return nil
}

// Update rewrites the editable columns. An empty status keeps the current one, so
// edits from the vehicle form never free a rented vehicle by accident.
func (r *vehicleRepository) Update(ctx context.Context, v *domain.VehicleRecord) error {
	now := time.Now()
	query := `UPDATE vehicles SET
		license_plate = $1, category_id = $2, brand = $3, model = $4, year = $5, color = $6,
		fuel_type = $7, transmission = $8, seats = $9, current_km = $10, notes = $11,
		status = COALESCE(NULLIF($12, ''), status), updated_at = $13
	WHERE id = $14`

	logger.DatabaseCall("vehicles.update", query, "vehicleID", v.ID)
	res, err := r.db.ExecContext(ctx, query,
		v.LicensePlate, v.CategoryID, v.Brand, v.Model, v.Year, nullString(v.Color),
		nullString(v.FuelType), nullString(v.Transmission), v.Seats, v.CurrentKm, nullString(v.Notes),
		string(v.Status), now, v.ID,
	)
	if err != nil {
		err = duplicateErr(err)
		logger.DatabaseResult("vehicles.update", 0, err)
		return err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("vehicles.update", n, err)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	v.UpdatedAt = now
	return nil
}

func (r *vehicleRepository) ListCategories(ctx context.Context) ([]domain.VehicleCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), daily_rate, deposit_amount,
		       franchise_theft, franchise_damage, franchise_rca
		FROM vehicle_categories ORDER BY daily_rate ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.VehicleCategory
	for rows.Next() {
		var (
			c                                 domain.VehicleCategory
			rate, deposit, theft, damage, rca decimal.NullDecimal
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &rate, &deposit, &theft, &damage, &rca); err != nil {
			return nil, err
		}
		c.DailyRate, c.DepositAmount = orZero(rate), orZero(deposit)
		c.FranchiseTheft, c.FranchiseDamage, c.FranchiseRCA = orZero(theft), orZero(damage), orZero(rca)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
