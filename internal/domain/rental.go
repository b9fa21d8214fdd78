package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusActive        RentalStatus = "active"
	RentalStatusPendingReturn RentalStatus = "pending_return"
	RentalStatusClosed        RentalStatus = "closed"
)

const (
	DefaultPaymentMethod = "Contanti"
	DefaultKmIncluded    = "Illimitati"
	KmUnlimited          = "unlimited"
)

// Rental is a row of the rentals table. Money columns are NUMERIC and scanned as decimals.
type Rental struct {
	ID                 int32        `json:"id"`
	RentalNumber       string       `json:"rental_number"`
	BookingCode        string       `json:"booking_code"`
	CustomerID         int32        `json:"customer_id"`
	VehicleID          int32        `json:"vehicle_id"`
	CreatedBy          int32        `json:"created_by"`
	RentalDate         time.Time    `json:"rental_date"`
	PickupDate         time.Time    `json:"pickup_date"`
	ExpectedReturnDate time.Time    `json:"expected_return_date"`
	PickupLocation     string       `json:"pickup_location"`
	PickupFuelLevel    float64      `json:"pickup_fuel_level"`
	PickupKm           int64        `json:"pickup_km"`
	PickupDamages      string       `json:"pickup_damages"`
	PickupNotes        string       `json:"pickup_notes"`
	KmIncluded         string       `json:"km_included"`
	Financials         Financials   `json:"financials"`
	Franchise          Franchise    `json:"franchise"`
	Status             RentalStatus `json:"status"`
	Return             *ReturnState `json:"return,omitempty"`
	ClosedBy           *int32       `json:"closed_by,omitempty"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// RentalListItem is a rental joined with the customer and vehicle columns shown in lists.
type RentalListItem struct {
	Rental
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	LicensePlate  string `json:"license_plate"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	CategoryName  string `json:"category_name"`
}

// RentalFilter holds the optional list filters. Zero values mean "no filter".
type RentalFilter struct {
	Status       RentalStatus
	CustomerName string
	LicensePlate string
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int32
	PageSize     int32
}

// NewRental is the input of a rental creation.
type NewRental struct {
	CustomerID         int32      `json:"customer_id"`
	VehicleID          int32      `json:"vehicle_id"`
	PickupDate         time.Time  `json:"pickup_date"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	PickupLocation     string     `json:"pickup_location"`
	PickupFuelLevel    float64    `json:"pickup_fuel_level"`
	PickupKm           int64      `json:"pickup_km"`
	PickupDamages      string     `json:"pickup_damages"`
	PickupNotes        string     `json:"pickup_notes"`
	KmIncluded         string     `json:"km_included"`
	Financials         Financials `json:"financials"`
	Franchise          Franchise  `json:"franchise"`
}

// CloseRental is the input of a rental closure.
type CloseRental struct {
	Return     ReturnState     `json:"return"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

type PhotoType string

const (
	PhotoTypePickup PhotoType = "pickup"
	PhotoTypeReturn PhotoType = "return"
)

// RentalPhoto is the metadata row of an uploaded rental photo.
type RentalPhoto struct {
	ID         int32     `json:"id"`
	RentalID   int32     `json:"rental_id"`
	PhotoType  PhotoType `json:"photo_type"`
	FilePath   string    `json:"file_path"`
	FileName   string    `json:"file_name"`
	UploadDate time.Time `json:"upload_date"`
}

// RentalClosure is what gets persisted when a rental is closed.
type RentalClosure struct {
	Return      ReturnState
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	AmountDue   decimal.Decimal
	ClosedBy    int32
}
