package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/service"
)

type VehicleHandler struct {
	vehicles service.VehicleService
}

func NewVehicleHandler(vehicles service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

type vehicleRequest struct {
	LicensePlate string               `json:"license_plate"`
	CategoryID   *int32               `json:"category_id"`
	Brand        string               `json:"brand"`
	Model        string               `json:"model"`
	Year         int                  `json:"year"`
	Color        string               `json:"color"`
	FuelType     string               `json:"fuel_type"`
	Transmission string               `json:"transmission"`
	Seats        int                  `json:"seats"`
	CurrentKm    int64                `json:"current_km"`
	Status       domain.VehicleStatus `json:"status"`
	Notes        string               `json:"notes"`
}

type listVehiclesResponse struct {
	Vehicles   []domain.VehicleRecord `json:"vehicles"`
	TotalCount int32                  `json:"total_count"`
	Page       int32                  `json:"page"`
	Limit      int32                  `json:"limit"`
}

func (req vehicleRequest) record() domain.VehicleRecord {
	return domain.VehicleRecord{
		CategoryID: req.CategoryID,
		Vehicle: domain.Vehicle{
			LicensePlate: req.LicensePlate,
			Brand:        req.Brand,
			Model:        req.Model,
			Year:         req.Year,
			Color:        req.Color,
			FuelType:     req.FuelType,
			Transmission: req.Transmission,
			Seats:        req.Seats,
		},
		CurrentKm: req.CurrentKm,
		Status:    req.Status,
		Notes:     req.Notes,
	}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.VehicleFilter{Status: domain.VehicleStatus(q.Get("status"))}

	var err error
	if filter.Page, err = positiveInt32(q.Get("page"), 1); err != nil {
		writeFailure(w, http.StatusBadRequest, "Pagina non valida")
		return
	}
	if filter.PageSize, err = positiveInt32(q.Get("limit"), defaultListLimit); err != nil {
		writeFailure(w, http.StatusBadRequest, "Limite non valido")
		return
	}
	if v := q.Get("category_id"); v != "" {
		if filter.CategoryID, err = positiveInt32(v, 0); err != nil {
			writeFailure(w, http.StatusBadRequest, "Categoria non valida")
			return
		}
	}
	if v := q.Get("available_only"); v != "" {
		if filter.AvailableOnly, err = strconv.ParseBool(v); err != nil {
			writeFailure(w, http.StatusBadRequest, "Parametro available_only non valido")
			return
		}
	}

	vehicles, total, err := h.vehicles.ListVehicles(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", listVehiclesResponse{
		Vehicles:   vehicles,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.PageSize,
	})
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	v, err := h.vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", v)
}

func (h *VehicleHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.vehicles.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", categories)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Richiesta non valida")
		return
	}

	v, err := h.vehicles.CreateVehicle(r.Context(), user, req.record())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Veicolo creato con successo", v)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Richiesta non valida")
		return
	}

	v, err := h.vehicles.UpdateVehicle(r.Context(), user, id, req.record())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Veicolo aggiornato con successo", v)
}
