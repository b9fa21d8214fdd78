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

const defaultPageSize = 50

const rentalColumns = `r.id, r.rental_number, r.booking_code, r.customer_id, r.vehicle_id, r.created_by,
	r.rental_date, r.pickup_date, r.expected_return_date,
	COALESCE(r.pickup_location, ''), COALESCE(r.pickup_fuel_level, 0), COALESCE(r.pickup_km, 0),
	COALESCE(r.pickup_damages, ''), COALESCE(r.pickup_notes, ''), COALESCE(r.km_included, ''),
	r.daily_rate, COALESCE(r.total_days, 0), r.subtotal, r.total_amount,
	r.delivery_cost, r.fuel_charge, r.after_hours_charge, r.extras_charge, r.extra_km_charge,
	r.franchise_charge, r.discount, r.amount_paid, r.amount_due,
	COALESCE(r.payment_method, ''), r.deposit_amount, COALESCE(r.deposit_method, ''),
	r.franchise_theft, r.franchise_damage, r.franchise_rca,
	r.status, r.return_date, COALESCE(r.return_location, r.pickup_location, ''),
	r.return_fuel_level, r.return_km, COALESCE(r.return_damages, ''), r.closed_by, r.updated_at,
	COALESCE(c.full_name, ''), COALESCE(c.phone, ''),
	COALESCE(v.license_plate, ''), COALESCE(v.brand, ''), COALESCE(v.model, ''), COALESCE(vc.name, '')`

const rentalJoins = `FROM rentals r
	LEFT JOIN customers c ON r.customer_id = c.id
	LEFT JOIN vehicles v ON r.vehicle_id = v.id
	LEFT JOIN vehicle_categories vc ON v.category_id = vc.id`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func scanRental(row scanner) (*domain.RentalListItem, error) {
	var (
		it             domain.RentalListItem
		r              = &it.Rental
		f              = &r.Financials
		m              [16]decimal.NullDecimal
		returnDate     sql.NullTime
		returnLocation string
		returnFuel     sql.NullFloat64
		returnKm       sql.NullInt64
		returnDamages  string
		closedBy       sql.NullInt32
	)

	err := row.Scan(
		&r.ID, &r.RentalNumber, &r.BookingCode, &r.CustomerID, &r.VehicleID, &r.CreatedBy,
		&r.RentalDate, &r.PickupDate, &r.ExpectedReturnDate,
		&r.PickupLocation, &r.PickupFuelLevel, &r.PickupKm,
		&r.PickupDamages, &r.PickupNotes, &r.KmIncluded,
		&m[0], &f.TotalDays, &m[1], &m[2],
		&m[3], &m[4], &m[5], &m[6], &m[7],
		&m[8], &m[9], &m[10], &m[11],
		&f.PaymentMethod, &m[12], &f.DepositMethod,
		&m[13], &m[14], &m[15],
		&r.Status, &returnDate, &returnLocation,
		&returnFuel, &returnKm, &returnDamages, &closedBy, &r.UpdatedAt,
		&it.CustomerName, &it.CustomerPhone,
		&it.LicensePlate, &it.Brand, &it.Model, &it.CategoryName,
	)
	if err != nil {
		return nil, err
	}

	f.DailyRate = orZero(m[0])
	f.Subtotal = orZero(m[1])
	f.TotalAmount = orZero(m[2])
	f.DeliveryCost = orZero(m[3])
	f.FuelCharge = orZero(m[4])
	f.AfterHoursCharge = orZero(m[5])
	f.ExtrasCharge = orZero(m[6])
	f.ExtraKmCharge = orZero(m[7])
	f.FranchiseCharge = orZero(m[8])
	f.Discount = orZero(m[9])
	f.AmountPaid = orZero(m[10])
	f.AmountDue = orZero(m[11])
	f.DepositAmount = orZero(m[12])
	r.Franchise = domain.Franchise{
		TheftFire: orZero(m[13]),
		Damage:    orZero(m[14]),
		RCA:       orZero(m[15]),
	}

	if returnDate.Valid {
		r.Return = &domain.ReturnState{
			Location:  returnLocation,
			Date:      returnDate.Time,
			FuelLevel: returnFuel.Float64,
			Km:        returnKm.Int64,
			Damages:   returnDamages,
		}
	}
	if closedBy.Valid {
		id := closedBy.Int32
		r.ClosedBy = &id
	}
	return &it, nil
}

func (r *rentalRepository) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalListItem, int32, error) {
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
	if filter.Status != "" {
		add(" AND r.status = $%d", filter.Status)
	}
	if filter.CustomerName != "" {
		add(" AND c.full_name ILIKE $%d", "%"+filter.CustomerName+"%")
	}
	if filter.LicensePlate != "" {
		add(" AND v.license_plate ILIKE $%d", "%"+filter.LicensePlate+"%")
	}
	if filter.DateFrom != nil {
		add(" AND r.pickup_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add(" AND r.expected_return_date <= $%d", *filter.DateTo)
	}

	var count int32
	countSQL := "SELECT COUNT(r.id) " + rentalJoins + where
	logger.DatabaseCall("rentals.count", countSQL)
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		logger.DatabaseResult("rentals.count", 0, err)
		return nil, 0, err
	}

	query := "SELECT " + rentalColumns + " " + rentalJoins + where +
		fmt.Sprintf(" ORDER BY r.pickup_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("rentals.list", 0, err)
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.RentalListItem
	for rows.Next() {
		it, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	logger.DatabaseResult("rentals.list", int64(len(rentals)), nil)
	return rentals, count, nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.RentalListItem, error) {
	query := "SELECT " + rentalColumns + " " + rentalJoins + " WHERE r.id = $1"
	it, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	logger.EnterMethod("rentalRepository.Create", "rentalNumber", rt.RentalNumber, "vehicleID", rt.VehicleID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	f, fr := rt.Financials, rt.Franchise
	query := `INSERT INTO rentals (
		rental_number, booking_code, customer_id, vehicle_id, created_by,
		rental_date, pickup_date, expected_return_date, pickup_location,
		pickup_fuel_level, pickup_km, pickup_damages, pickup_notes,
		daily_rate, deposit_amount, total_days, subtotal, total_amount,
		delivery_cost, fuel_charge, after_hours_charge, extras_charge,
		extra_km_charge, franchise_charge, discount, amount_paid, amount_due,
		payment_method, deposit_method, km_included,
		franchise_theft, franchise_damage, franchise_rca, status, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35
	) RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		rt.RentalNumber, rt.BookingCode, rt.CustomerID, rt.VehicleID, rt.CreatedBy,
		now, rt.PickupDate, rt.ExpectedReturnDate, rt.PickupLocation,
		rt.PickupFuelLevel, rt.PickupKm, rt.PickupDamages, rt.PickupNotes,
		f.DailyRate, f.DepositAmount, f.TotalDays, f.Subtotal, f.TotalAmount,
		f.DeliveryCost, f.FuelCharge, f.AfterHoursCharge, f.ExtrasCharge,
		f.ExtraKmCharge, f.FranchiseCharge, f.Discount, f.AmountPaid, f.AmountDue,
		f.PaymentMethod, f.DepositMethod, rt.KmIncluded,
		fr.TheftFire, fr.Damage, fr.RCA, rt.Status, now,
	).Scan(&rt.ID)
	if err != nil {
		return duplicateErr(err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE vehicles SET status = 'rented', updated_at = $1 WHERE id = $2`, now, rt.VehicleID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("vehicle %d: %w", rt.VehicleID, repository.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("rentalRepository.Create", err, "rentalNumber", rt.RentalNumber)
		return err
	}
	rt.RentalDate = now
	rt.UpdatedAt = now

	logger.ExitMethod("rentalRepository.Create", "rentalID", rt.ID)
	return nil
}

func (r *rentalRepository) Close(ctx context.Context, id int32, c domain.RentalClosure) error {
	logger.EnterMethod("rentalRepository.Close", "rentalID", id, "closedBy", c.ClosedBy)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	query := `UPDATE rentals SET
		status = 'closed', return_date = $1, return_location = $2, return_fuel_level = $3,
		return_km = $4, return_damages = $5, total_amount = $6, amount_paid = $7,
		amount_due = $8, closed_by = $9, updated_at = $10
		WHERE id = $11 AND status != 'closed'
		RETURNING vehicle_id`

	var vehicleID int32
	ret := c.Return
	err = tx.QueryRowContext(ctx, query,
		ret.Date, ret.Location, ret.FuelLevel, ret.Km, ret.Damages,
		c.TotalAmount, c.AmountPaid, c.AmountDue, c.ClosedBy, now, id,
	).Scan(&vehicleID)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrAlreadyClosed
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `UPDATE vehicles SET status = 'available', current_km = $1, updated_at = $2 WHERE id = $3`, ret.Km, now, vehicleID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("rentalRepository.Close", err, "rentalID", id)
		return err
	}

	logger.ExitMethod("rentalRepository.Close", "rentalID", id, "vehicleID", vehicleID)
	return nil
}

func (r *rentalRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) ListClosedSince(ctx context.Context, since time.Time) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM rentals WHERE status = 'closed' AND updated_at >= $1 ORDER BY id`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *rentalRepository) MarkPendingReturns(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE rentals SET status = 'pending_return', updated_at = $1
	          WHERE status = 'active' AND expected_return_date < $1`

	logger.DatabaseCall("rentals.mark_pending_returns", query)
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		logger.DatabaseResult("rentals.mark_pending_returns", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("rentals.mark_pending_returns", n, err)
	return n, err
}
