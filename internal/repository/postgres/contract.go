package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
)

const defaultCountry = "ITALIA"

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (r *contractRepository) GetContractInput(ctx context.Context, rentalID int32) (*domain.ContractInput, error) {
	logger.EnterMethod("contractRepository.GetContractInput", "rentalID", rentalID)

	query := `
		SELECT r.rental_number, COALESCE(r.booking_code, ''), r.rental_date, COALESCE(u.full_name, ''),
		       COALESCE(c.full_name, ''), COALESCE(c.fiscal_code, ''), COALESCE(c.vat_number, ''),
		       COALESCE(c.address, ''), COALESCE(c.city, ''), COALESCE(c.province, ''),
		       COALESCE(c.zip_code, ''), COALESCE(c.country, ''), COALESCE(c.phone, ''), COALESCE(c.email, ''),
		       COALESCE(c.license_number, ''), COALESCE(c.license_issued_by, ''),
		       c.license_issue_date, c.license_expiry_date, c.birth_date, COALESCE(c.birth_place, ''),
		       COALESCE(v.license_plate, ''), COALESCE(v.brand, ''), COALESCE(v.model, ''),
		       COALESCE(v.year, 0), COALESCE(v.color, ''), COALESCE(v.fuel_type, ''),
		       COALESCE(v.transmission, ''), COALESCE(v.seats, 0), COALESCE(vc.name, ''),
		       r.daily_rate, COALESCE(r.total_days, 0), r.delivery_cost, r.fuel_charge,
		       r.after_hours_charge, r.extras_charge, r.extra_km_charge, r.franchise_charge,
		       r.discount, r.amount_paid, COALESCE(r.payment_method, ''),
		       r.deposit_amount, COALESCE(r.deposit_method, ''),
		       r.franchise_theft, r.franchise_damage, r.franchise_rca,
		       COALESCE(r.pickup_location, ''), r.pickup_date, COALESCE(r.pickup_fuel_level, 0),
		       COALESCE(r.pickup_km, 0), COALESCE(r.pickup_damages, ''), COALESCE(r.pickup_notes, ''),
		       r.expected_return_date, COALESCE(r.km_included, ''),
		       r.return_date, COALESCE(r.return_location, r.pickup_location, ''),
		       COALESCE(r.return_fuel_level, 0), COALESCE(r.return_km, 0), COALESCE(r.return_damages, '')
		FROM rentals r
		LEFT JOIN customers c ON r.customer_id = c.id
		LEFT JOIN vehicles v ON r.vehicle_id = v.id
		LEFT JOIN vehicle_categories vc ON v.category_id = vc.id
		LEFT JOIN users u ON r.created_by = u.id
		WHERE r.id = $1
	`

	var (
		in                                     domain.ContractInput
		cu                                     = &in.Customer
		ve                                     = &in.Vehicle
		f                                      = &in.Financials
		m                                      [13]decimal.NullDecimal
		rentalDate, pickupDate, expected       sql.NullTime
		licenseIssue, licenseExpiry, birthDate sql.NullTime
		returnDate                             sql.NullTime
		ret                                    domain.ReturnState
	)

	logger.DatabaseCall("rentals.contract_input", query, "rentalID", rentalID)
	err := r.db.QueryRowContext(ctx, query, rentalID).Scan(
		&in.RentalNumber, &in.BookingCode, &rentalDate, &in.OperatorName,
		&cu.FullName, &cu.FiscalCode, &cu.VATNumber,
		&cu.Address, &cu.City, &cu.Province,
		&cu.ZipCode, &cu.Country, &cu.Phone, &cu.Email,
		&cu.LicenseNumber, &cu.LicenseIssuedBy,
		&licenseIssue, &licenseExpiry, &birthDate, &cu.BirthPlace,
		&ve.LicensePlate, &ve.Brand, &ve.Model,
		&ve.Year, &ve.Color, &ve.FuelType,
		&ve.Transmission, &ve.Seats, &ve.CategoryName,
		&m[0], &f.TotalDays, &m[1], &m[2],
		&m[3], &m[4], &m[5], &m[6],
		&m[7], &m[8], &f.PaymentMethod,
		&m[9], &f.DepositMethod,
		&m[10], &m[11], &m[12],
		&in.Pickup.Location, &pickupDate, &in.Pickup.FuelLevel,
		&in.Pickup.Km, &in.Pickup.Damages, &in.Pickup.Notes,
		&expected, &in.ExpectedReturn.KmIncluded,
		&returnDate, &ret.Location,
		&ret.FuelLevel, &ret.Km, &ret.Damages,
	)
	if errors.Is(err, sql.ErrNoRows) {
		logger.ExitMethodWithError("contractRepository.GetContractInput", repository.ErrNotFound, "rentalID", rentalID)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		logger.DatabaseResult("rentals.contract_input", 0, err)
		return nil, err
	}

	f.DailyRate = orZero(m[0])
	f.DeliveryCost = orZero(m[1])
	f.FuelCharge = orZero(m[2])
	f.AfterHoursCharge = orZero(m[3])
	f.ExtrasCharge = orZero(m[4])
	f.ExtraKmCharge = orZero(m[5])
	f.FranchiseCharge = orZero(m[6])
	f.Discount = orZero(m[7])
	f.AmountPaid = orZero(m[8])
	f.DepositAmount = orZero(m[9])
	in.Franchise = domain.Franchise{
		TheftFire: orZero(m[10]),
		Damage:    orZero(m[11]),
		RCA:       orZero(m[12]),
	}

	if cu.Country == "" {
		cu.Country = defaultCountry
	}
	cu.LicenseIssueDate = nullTime(licenseIssue)
	cu.LicenseExpiryDate = nullTime(licenseExpiry)
	cu.BirthDate = nullTime(birthDate)

	in.CreatedAt = nullTime(rentalDate)
	in.Pickup.Date = nullTime(pickupDate)
	in.ExpectedReturn.Date = nullTime(expected)
	// The rental is returned where it was picked up unless a return location is recorded.
	in.ExpectedReturn.Location = in.Pickup.Location

	if returnDate.Valid {
		ret.Date = returnDate.Time
		in.Return = &ret
	}

	logger.ExitMethod("contractRepository.GetContractInput", "rentalID", rentalID, "closed", in.IsClosed())
	return &in, nil
}
