package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/service"
)

const defaultListLimit = 50

// Accepted request time layouts. Layouts without a zone are read in the configured location.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

type RentalHandler struct {
	rentals service.RentalService
	loc     *time.Location
}

func NewRentalHandler(rentals service.RentalService, loc *time.Location) *RentalHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &RentalHandler{rentals: rentals, loc: loc}
}

type createRentalRequest struct {
	CustomerID         int32           `json:"customer_id"`
	VehicleID          int32           `json:"vehicle_id"`
	PickupDate         string          `json:"pickup_date"`
	ExpectedReturnDate string          `json:"expected_return_date"`
	PickupLocation     string          `json:"pickup_location"`
	PickupFuelLevel    float64         `json:"pickup_fuel_level"`
	PickupKm           int64           `json:"pickup_km"`
	PickupDamages      string          `json:"pickup_damages"`
	PickupNotes        string          `json:"pickup_notes"`
	KmIncluded         string          `json:"km_included"`
	DailyRate          decimal.Decimal `json:"daily_rate"`
	DepositAmount      decimal.Decimal `json:"deposit_amount"`
	DepositMethod      string          `json:"deposit_method"`
	DeliveryCost       decimal.Decimal `json:"delivery_cost"`
	FuelCharge         decimal.Decimal `json:"fuel_charge"`
	AfterHoursCharge   decimal.Decimal `json:"after_hours_charge"`
	ExtrasCharge       decimal.Decimal `json:"extras_charge"`
	ExtraKmCharge      decimal.Decimal `json:"extra_km_charge"`
	FranchiseCharge    decimal.Decimal `json:"franchise_charge"`
	Discount           decimal.Decimal `json:"discount"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	PaymentMethod      string          `json:"payment_method"`
	FranchiseTheft     decimal.Decimal `json:"franchise_theft"`
	FranchiseDamage    decimal.Decimal `json:"franchise_damage"`
	FranchiseRCA       decimal.Decimal `json:"franchise_rca"`
}

type closeRentalRequest struct {
	ReturnDate      string          `json:"return_date"`
	ReturnLocation  string          `json:"return_location"`
	ReturnFuelLevel float64         `json:"return_fuel_level"`
	ReturnKm        int64           `json:"return_km"`
	ReturnDamages   string          `json:"return_damages"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
}

type listRentalsResponse struct {
	Rentals    []domain.RentalListItem `json:"rentals"`
	TotalCount int32                   `json:"total_count"`
	Page       int32                   `json:"page"`
	Limit      int32                   `json:"limit"`
}

func (h *RentalHandler) parseTime(value string) (time.Time, error) {
	return parseTimeIn(value, h.loc)
}

func parseTimeIn(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// optionalTime parses value when it is set.
func optionalTime(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseTimeIn(value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// pathID reads a positive numeric route variable.
func pathID(r *http.Request, key string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return int32(id), nil
}

func rentalID(r *http.Request) (int32, error) {
	return pathID(r, "id")
}

func positiveInt32(value string, def int32) (int32, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return int32(n), nil
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RentalFilter{
		Status:       domain.RentalStatus(q.Get("status")),
		CustomerName: q.Get("customer_name"),
		LicensePlate: q.Get("license_plate"),
	}

	var err error
	if filter.Page, err = positiveInt32(q.Get("page"), 1); err != nil {
		writeFailure(w, http.StatusBadRequest, "Pagina non valida")
		return
	}
	if filter.PageSize, err = positiveInt32(q.Get("limit"), defaultListLimit); err != nil {
		writeFailure(w, http.StatusBadRequest, "Limite non valido")
		return
	}
	for param, dst := range map[string]**time.Time{"date_from": &filter.DateFrom, "date_to": &filter.DateTo} {
		if v := q.Get(param); v != "" {
			t, err := h.parseTime(v)
			if err != nil {
				writeFailure(w, http.StatusBadRequest, "Date non valide")
				return
			}
			*dst = &t
		}
	}

	rentals, total, err := h.rentals.ListRentals(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rentals == nil {
		rentals = []domain.RentalListItem{}
	}

	writeData(w, http.StatusOK, "", listRentalsResponse{
		Rentals:    rentals,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.PageSize,
	})
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := rentalID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	rental, err := h.rentals.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", rental)
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Richiesta non valida")
		return
	}

	pickup, err := h.parseTime(req.PickupDate)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Date non valide")
		return
	}
	expected, err := h.parseTime(req.ExpectedReturnDate)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Date non valide")
		return
	}

	rental, err := h.rentals.CreateRental(r.Context(), user, domain.NewRental{
		CustomerID:         req.CustomerID,
		VehicleID:          req.VehicleID,
		PickupDate:         pickup,
		ExpectedReturnDate: expected,
		PickupLocation:     req.PickupLocation,
		PickupFuelLevel:    req.PickupFuelLevel,
		PickupKm:           req.PickupKm,
		PickupDamages:      req.PickupDamages,
		PickupNotes:        req.PickupNotes,
		KmIncluded:         req.KmIncluded,
		Financials: domain.Financials{
			DailyRate:        req.DailyRate,
			DeliveryCost:     req.DeliveryCost,
			FuelCharge:       req.FuelCharge,
			AfterHoursCharge: req.AfterHoursCharge,
			ExtrasCharge:     req.ExtrasCharge,
			ExtraKmCharge:    req.ExtraKmCharge,
			FranchiseCharge:  req.FranchiseCharge,
			Discount:         req.Discount,
			AmountPaid:       req.AmountPaid,
			PaymentMethod:    req.PaymentMethod,
			DepositAmount:    req.DepositAmount,
			DepositMethod:    req.DepositMethod,
		},
		Franchise: domain.Franchise{
			TheftFire: req.FranchiseTheft,
			Damage:    req.FranchiseDamage,
			RCA:       req.FranchiseRCA,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, "Noleggio creato con successo", map[string]any{
		"id":            rental.ID,
		"rental_number": rental.RentalNumber,
		"booking_code":  rental.BookingCode,
		"total_amount":  rental.Financials.TotalAmount,
		"amount_due":    rental.Financials.AmountDue,
	})
}

func (h *RentalHandler) Close(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, err := rentalID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	var req closeRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Richiesta non valida")
		return
	}
	returned, err := h.parseTime(req.ReturnDate)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Date non valide")
		return
	}

	closure, err := h.rentals.CloseRental(r.Context(), user, id, domain.CloseRental{
		Return: domain.ReturnState{
			Location:  req.ReturnLocation,
			Date:      returned,
			FuelLevel: req.ReturnFuelLevel,
			Km:        req.ReturnKm,
			Damages:   req.ReturnDamages,
		},
		AmountPaid: req.AmountPaid,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "Noleggio chiuso con successo!", map[string]any{
		"id":           id,
		"total_amount": closure.TotalAmount,
		"amount_paid":  closure.AmountPaid,
		"amount_due":   closure.AmountDue,
	})
}

func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, err := rentalID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	if err := h.rentals.DeleteRental(r.Context(), user, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Noleggio eliminato con successo", nil)
}
