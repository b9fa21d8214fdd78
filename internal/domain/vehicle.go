package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusRented, VehicleStatusMaintenance:
		return true
	}
	return false
}

// VehicleRecord is a row of the vehicles table joined with its category name and rate.
type VehicleRecord struct {
	ID         int32  `json:"id"`
	CategoryID *int32 `json:"category_id"`
	Vehicle
	CurrentKm int64           `json:"current_km"`
	Status    VehicleStatus   `json:"status"`
	Notes     string          `json:"notes"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// VehicleDetail adds the category defaults and the last rentals of the vehicle.
type VehicleDetail struct {
	VehicleRecord
	DepositAmount   decimal.Decimal      `json:"deposit_amount"`
	FranchiseTheft  decimal.Decimal      `json:"franchise_theft"`
	FranchiseDamage decimal.Decimal      `json:"franchise_damage"`
	FranchiseRCA    decimal.Decimal      `json:"franchise_rca"`
	RentalHistory   []VehicleRentalEntry `json:"rental_history"`
}

type VehicleRentalEntry struct {
	ID           int32        `json:"id"`
	RentalNumber string       `json:"rental_number"`
	PickupDate   time.Time    `json:"pickup_date"`
	ReturnDate   *time.Time   `json:"return_date"`
	PickupKm     int64        `json:"pickup_km"`
	ReturnKm     *int64       `json:"return_km"`
	Status       RentalStatus `json:"status"`
	CustomerName string       `json:"customer_name"`
}

type VehicleFilter struct {
	Status        VehicleStatus
	CategoryID    int32
	AvailableOnly bool
	Page          int32
	PageSize      int32
}

// VehicleCategory carries the default pricing copied onto new rentals.
type VehicleCategory struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	DepositAmount   decimal.Decimal `json:"deposit_amount"`
	FranchiseTheft  decimal.Decimal `json:"franchise_theft"`
	FranchiseDamage decimal.Decimal `json:"franchise_damage"`
	FranchiseRCA    decimal.Decimal `json:"franchise_rca"`
}
