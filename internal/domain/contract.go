package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractInput is the flattened rental record a contract is rendered from.
// It is assembled by the repository layer and treated as read-only by the generator.
type ContractInput struct {
	RentalNumber   string         `json:"rental_number"`
	BookingCode    string         `json:"booking_code"`
	CreatedAt      *time.Time     `json:"created_at,omitempty"`
	OperatorName   string         `json:"operator_name"`
	Customer       Customer       `json:"customer"`
	Vehicle        Vehicle        `json:"vehicle"`
	Financials     Financials     `json:"financials"`
	Franchise      Franchise      `json:"franchise"`
	Pickup         PickupState    `json:"pickup"`
	ExpectedReturn ExpectedReturn `json:"expected_return"`
	// Return is nil while the rental is open.
	Return       *ReturnState `json:"return,omitempty"`
	PickupPhotos []Photo      `json:"pickup_photos,omitempty"`
	ReturnPhotos []Photo      `json:"return_photos,omitempty"`
}

// IsClosed reports whether the rental carries an actual return.
func (in *ContractInput) IsClosed() bool {
	return in.Return != nil
}

type Customer struct {
	FullName          string     `json:"full_name"`
	FiscalCode        string     `json:"fiscal_code"`
	VATNumber         string     `json:"vat_number,omitempty"`
	Address           string     `json:"address"`
	City              string     `json:"city"`
	Province          string     `json:"province"`
	ZipCode           string     `json:"zip_code"`
	Country           string     `json:"country"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email"`
	LicenseNumber     string     `json:"license_number"`
	LicenseIssuedBy   string     `json:"license_issued_by"`
	LicenseIssueDate  *time.Time `json:"license_issue_date,omitempty"`
	LicenseExpiryDate *time.Time `json:"license_expiry_date,omitempty"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	BirthPlace        string     `json:"birth_place"`
}

type Vehicle struct {
	LicensePlate string `json:"license_plate"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Color        string `json:"color"`
	FuelType     string `json:"fuel_type"`
	Transmission string `json:"transmission"`
	Seats        int    `json:"seats"`
	CategoryName string `json:"category_name"`
}

// Financials are the charges of a rental. Absent amounts decode to zero.
type Financials struct {
	DailyRate        decimal.Decimal `json:"daily_rate"`
	TotalDays        int32           `json:"total_days"`
	DeliveryCost     decimal.Decimal `json:"delivery_cost"`
	FuelCharge       decimal.Decimal `json:"fuel_charge"`
	AfterHoursCharge decimal.Decimal `json:"after_hours_charge"`
	ExtrasCharge     decimal.Decimal `json:"extras_charge"`
	ExtraKmCharge    decimal.Decimal `json:"extra_km_charge"`
	FranchiseCharge  decimal.Decimal `json:"franchise_charge"`
	Discount         decimal.Decimal `json:"discount"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	PaymentMethod    string          `json:"payment_method"`
	DepositAmount    decimal.Decimal `json:"deposit_amount"`
	DepositMethod    string          `json:"deposit_method"`
}

// Franchise holds the insurance deductibles charged to the customer per event.
type Franchise struct {
	TheftFire decimal.Decimal `json:"theft_fire"`
	Damage    decimal.Decimal `json:"damage"`
	RCA       decimal.Decimal `json:"rca"`
}

type PickupState struct {
	Location  string     `json:"location"`
	Date      *time.Time `json:"date,omitempty"`
	FuelLevel float64    `json:"fuel_level"`
	Km        int64      `json:"km"`
	Damages   string     `json:"damages,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

type ReturnState struct {
	Location  string    `json:"location"`
	Date      time.Time `json:"date"`
	FuelLevel float64   `json:"fuel_level"`
	Km        int64     `json:"km"`
	Damages   string    `json:"damages,omitempty"`
}

type ExpectedReturn struct {
	Date       *time.Time `json:"date,omitempty"`
	Location   string     `json:"location"`
	KmIncluded string     `json:"km_included"`
}

// Photo references an image on the upload storage. A missing file renders as a placeholder.
type Photo struct {
	Path       string     `json:"path"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
}
